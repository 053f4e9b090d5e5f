// Package stacktrace extracts the project's own frames from runtime stacks.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of a
// debug.Stack dump that points into an internal package.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.SplitSeq(string(stack), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, marker)
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		// file lines look like "/abs/path/internal/x/y.go:42 +0x1d"
		loc, _, _ := strings.Cut(line[idx+1:], " ")
		if strings.Contains(loc, ".go:") {
			paths = append(paths, loc)
		}
	}
	return paths
}
