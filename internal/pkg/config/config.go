package config

import (
	"io"
	"time"
)

// Config is the read-only view over the service configuration.
//
// Missing keys resolve to the zero value of the requested type; callers
// apply their own defaults.
type Config interface {
	io.Closer

	// GetSecond reads an integer value and interprets it as seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer value and interprets it as minutes.
	GetMinute(key string) time.Duration

	GetInt(key string) int
	GetInt32(key string) int32
	GetUint16(key string) uint16
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 value. Invalid input yields nil.
	GetBinary(key string) []byte

	// GetArray splits a value stored as <element1>,<element2>,... and drops
	// blank elements. A native YAML sequence is accepted as well.
	GetArray(key string) []string
}
