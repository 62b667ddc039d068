// Package leaktest fails tests whose subject leaves goroutines behind.
// The components with background work (worker pool, SSE hub, scheduler,
// session manager) take a check before starting and run it after Stop.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = 2 * time.Second
	pollInterval  = 5 * time.Millisecond
)

// Check records the current goroutine count and returns a function that
// fails the test if the count has not settled back to that baseline:
//
//	defer leaktest.Check(t)()
//
// The returned check polls rather than sleeping a fixed interval, so a
// clean shutdown passes immediately and a straggler gets the full settle
// window before the test fails.
func Check(t testing.TB) func() {
	return CheckTolerance(t, 0)
}

// CheckTolerance is Check with headroom for goroutines that legitimately
// outlive the test body, like shared singletons started by another test.
func CheckTolerance(t testing.TB, tolerance int) func() {
	t.Helper()
	runtime.Gosched()
	before := runtime.NumGoroutine()

	return func() {
		t.Helper()
		deadline := time.Now().Add(settleTimeout)
		for {
			runtime.Gosched()
			leaked := runtime.NumGoroutine() - before
			if leaked <= tolerance {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf("goroutine leak: %d before, %d after (tolerance %d)",
					before, before+leaked, tolerance)
				return
			}
			time.Sleep(pollInterval)
		}
	}
}
