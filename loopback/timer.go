package loopback

import (
	"fmt"
	"time"

	"devicecode-go/systimer"
	"devicecode-go/x/mathx"
)

// timerTolerance is the allowed deviation from each timer test's expected
// duration.
const timerTolerance = 0.02

// RunTimerTest sanity-checks clk's NowUs and sleep methods against wall
// time within a 2% tolerance: ten 100ms waits should add up to roughly a
// second, a hundred 1ms sleeps should add up to roughly 100ms, and a
// single 1µs sleep should take roughly 1µs. It returns one message per
// check that falls outside tolerance.
func RunTimerTest(clk systimer.Clock) []string {
	var errs []string

	if err := checkTolerance("NowUs", time.Second, func() time.Duration {
		before := clk.NowUs()
		for i := 0; i < 10; i++ {
			clk.SleepUs(100 * time.Millisecond)
		}
		after := clk.NowUs()
		return time.Duration(after-before) * time.Microsecond
	}); err != "" {
		errs = append(errs, err)
	}

	if err := checkTolerance("SleepUs", 100*time.Millisecond, func() time.Duration {
		before := clk.NowUs()
		for i := 0; i < 100; i++ {
			clk.SleepUs(time.Millisecond)
		}
		after := clk.NowUs()
		return time.Duration(after-before) * time.Microsecond
	}); err != "" {
		errs = append(errs, err)
	}

	if err := checkTolerance("SleepNs", time.Microsecond, func() time.Duration {
		before := clk.NowNs()
		clk.SleepNs(time.Microsecond)
		after := clk.NowNs()
		return time.Duration(after - before)
	}); err != "" {
		errs = append(errs, err)
	}

	return errs
}

func checkTolerance(name string, want time.Duration, measure func() time.Duration) string {
	got := measure()
	lo := time.Duration(float64(want) * (1.0 - timerTolerance))
	hi := time.Duration(float64(want) * (1.0 + timerTolerance))
	if !mathx.Between(got, lo, hi) {
		return fmt.Sprintf("timer: %s expected approximately %s, but measured %s", name, want, got)
	}
	return ""
}
