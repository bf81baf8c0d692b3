package leaktest

import (
	"testing"
	"time"
)

func TestGoroutineChecker_NoLeak(t *testing.T) {
	checker := NewGoroutineChecker(t)
	checker.Check(0)
}

func TestGoroutineChecker_WaitsForShortLivedGoroutines(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		go func() {
			time.Sleep(100 * time.Millisecond)
		}()
	})
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() {
		<-done
	}()

	checker.Check(1)
	close(done)
}
