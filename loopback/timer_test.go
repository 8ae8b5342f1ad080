package loopback

import (
	"testing"
	"time"

	"devicecode-go/systimer"
)

func TestRunTimerTestPassesOnHostClock(t *testing.T) {
	errs := RunTimerTest(systimer.NewHostClock())
	if len(errs) != 0 {
		t.Fatalf("expected the host clock to pass its own tolerance checks, got: %v", errs)
	}
}

// slowClock wraps HostClock but inflates every sleep well past the 2%
// tolerance, so RunTimerTest must report it.
type slowClock struct{ *systimer.HostClock }

func (c slowClock) SleepUs(d time.Duration) { c.HostClock.SleepUs(d * 2) }
func (c slowClock) SleepNs(d time.Duration) { c.HostClock.SleepNs(d * 2) }

func TestRunTimerTestCatchesDrift(t *testing.T) {
	errs := RunTimerTest(slowClock{systimer.NewHostClock()})
	if len(errs) == 0 {
		t.Fatalf("expected drifted sleeps to fail tolerance checks")
	}
}
