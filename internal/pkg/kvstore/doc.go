// Package kvstore defines the key-value contract used for short-lived state
// (counters, markers, codes) and ships two implementations: Redis for shared
// deployments and Memory for single-process runs and tests.
package kvstore
