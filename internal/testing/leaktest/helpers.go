package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// settleTimeout bounds how long Check waits for goroutines to wind down
const settleTimeout = 2 * time.Second

// GoroutineChecker detects goroutines left running by a component under test
// (worker pools, heartbeat loops, realtime hubs).
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check polls until the goroutine count is back within tolerance of the
// recorded baseline, failing the test after settleTimeout.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(settleTimeout)
	after := runtime.NumGoroutine()
	for time.Now().Before(deadline) {
		runtime.Gosched()
		after = runtime.NumGoroutine()
		if after-g.before <= tolerance {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
		g.before, after, after-g.before, tolerance)
}

// CheckNoGoroutineLeak runs fn and asserts every goroutine it started has exited
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
