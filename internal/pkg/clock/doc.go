// Package clock provides a tiny time abstraction.
//
// Code that reasons about expiry (key TTLs, cooldown windows) depends on the
// Clocker interface instead of calling time.Now() directly, so tests can drive
// time with Fake instead of sleeping.
package clock
