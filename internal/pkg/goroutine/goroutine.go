// Package goroutine runs fire-and-forget work with a concurrency cap and
// drains it on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/mailotp/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanic wraps a value recovered from a task.
var ErrPanic = errors.New("goroutine: task panicked")

// Manager runs tasks in goroutines. Tasks beyond the limit are dropped with a
// warning rather than queued, so callers never block.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  []error
}

// NewManager creates a Manager running at most maxGoroutine tasks at once.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f. It reports whether the task was accepted.
//
// f receives a context detached from ctx's cancellation so work started by a
// request survives the request; values such as the correlation id are kept.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, task skipped")
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task skipped", "limit", cap(g.sema))
		return false
	}

	taskCtx := context.WithoutCancel(ctx)
	g.wg.Go(func() {
		defer func() { <-g.sema }()
		if err := g.run(taskCtx, f); err != nil {
			g.errMu.Lock()
			g.errs = append(g.errs, err)
			g.errMu.Unlock()
		}
	})
	return true
}

func (g *Manager) run(ctx context.Context, f func(ctx context.Context) error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}
		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
		}
		err = ErrPanic
	}()

	return f(ctx)
}

// Wait stops accepting tasks, blocks until running ones finish and returns
// their joined errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.errMu.Lock()
	defer g.errMu.Unlock()
	return errors.Join(g.errs...)
}
