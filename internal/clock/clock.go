package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Since reports the time elapsed since t according to NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }

// Freeze pins Now to at and returns a function restoring the real clock.
// Not safe for parallel tests.
func Freeze(at time.Time) (restore func()) {
	previous := NowFunc
	NowFunc = func() time.Time { return at }
	return func() { NowFunc = previous }
}
