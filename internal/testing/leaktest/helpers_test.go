package leaktest

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingTB captures failures instead of failing the real test, so the
// leak path can be asserted without tripping it.
type recordingTB struct {
	testing.TB
	failures []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestCheck_CleanBody(t *testing.T) {
	check := Check(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
		}()
	}
	wg.Wait()

	check()
}

func TestCheck_WaitsForSlowShutdown(t *testing.T) {
	check := Check(t)

	// Outlives the body but exits well inside the settle window; the
	// polling check must pass without a fixed sleep in the test.
	done := make(chan struct{})
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(done)
	}()

	check()
	<-done
}

func TestCheck_ReportsLeak(t *testing.T) {
	rec := &recordingTB{TB: t}

	release := make(chan struct{})
	defer close(release)

	check := CheckTolerance(rec, 0)
	go func() {
		<-release
	}()
	// The goroutine holds past the settle window, so this blocks for the
	// full window before reporting.
	check()

	if len(rec.failures) == 0 {
		t.Fatal("expected leak to be reported")
	}
	if !strings.Contains(rec.failures[0], "goroutine leak") {
		t.Errorf("failure %q does not mention the leak", rec.failures[0])
	}
}

func TestCheckTolerance_AllowsHeadroom(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	check := CheckTolerance(t, 2)
	go func() { <-release }()
	go func() { <-release }()

	check()
}
