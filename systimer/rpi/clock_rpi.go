//go:build rpi

// Package rpi provides the hardware System Timer backend. It maps two
// distinct BCM2835 peripherals: the System Timer (STC), a fixed 1MHz
// free-running counter used raw for microsecond-scale waits, and the ARM
// timer's free-run counter, calibrated against a core-clock frequency
// queried once from the VideoCore mailbox at init, for nanosecond-scale
// waits. The two are not interchangeable: the STC needs no calibration,
// and the ARM timer is useless for timing without it.
package rpi

import (
	"time"

	"devicecode-go/errcode"
	"devicecode-go/systimer"
)

// mailboxClockRateTag is the VideoCore mailbox property-channel request
// tag for "get clock rate" (firmware-defined constant).
const mailboxClockRateTag = 0x00030002

// coreClockID selects the ARM/core clock in the mailbox clock-rate
// request; firmware-defined.
const coreClockID = 0x000000004

// Clock drives both the STC and the ARM free-run counter. ticksPerNs is
// computed once at New() from the mailbox-reported clock rate. SleepNs
// converts its target to ticks once and spins on raw tick counts with no
// division per iteration; NowNs divides by ticksPerNs on every call.
type Clock struct {
	mbox       *mailbox
	ticksPerNs float64
}

// New maps the System Timer and ARM timer peripherals, opens the mailbox
// device, queries the core clock frequency, and returns a ready Clock. It
// fails with errcode.BackendUnavailable if any mmap or the mailbox query
// fails (e.g. insufficient privilege).
func New() (*Clock, error) {
	if err := mapSystemTimer(); err != nil {
		return nil, errcode.New(errcode.BackendUnavailable, "rpi.NewClock", "system timer mmap failed", err)
	}
	if err := mapArmTimer(); err != nil {
		return nil, errcode.New(errcode.BackendUnavailable, "rpi.NewClock", "arm timer mmap failed", err)
	}
	mb, err := openMailbox()
	if err != nil {
		return nil, errcode.New(errcode.BackendUnavailable, "rpi.NewClock", "mailbox open failed", err)
	}
	rate, err := mb.clockRate(coreClockID)
	if err != nil {
		_ = mb.close()
		return nil, errcode.New(errcode.BackendUnavailable, "rpi.NewClock", "mailbox clock-rate query failed", err)
	}
	return &Clock{mbox: mb, ticksPerNs: float64(rate) / 1e9}, nil
}

// NowUs returns the STC's raw microsecond count; the STC is already a
// 1MHz counter, so this needs no calibration.
func (c *Clock) NowUs() uint32 { return uint32(readSystemTimerUs()) }

// NowNs returns the ARM free-run counter's ticks converted to nanoseconds
// via the mailbox-calibrated core clock rate.
func (c *Clock) NowNs() uint32 { return uint32(c.readArmNs()) }

func (c *Clock) readArmNs() uint64 {
	ticks := readArmFreeRunTicks()
	return uint64(float64(ticks) / c.ticksPerNs)
}

// SleepNs busy-waits on the calibrated ARM free-run counter; it never
// yields to the scheduler, matching the handshake's sub-microsecond
// precision requirement.
func (c *Clock) SleepNs(d time.Duration) {
	if d <= 0 {
		return
	}
	start := readArmFreeRunTicks()
	target := uint64(float64(d.Nanoseconds()) * c.ticksPerNs)
	for uint64(readArmFreeRunTicks()-start) < target {
		// spin; no syscall, no channel, no allocation
	}
}

// SleepUs busy-waits directly on the STC's raw microsecond count, with no
// calibration step, mirroring the ARM-timer-free path the original
// firmware driver uses for microsecond sleeps.
func (c *Clock) SleepUs(d time.Duration) {
	if d <= 0 {
		return
	}
	start := readSystemTimerUs()
	target := uint64(d.Microseconds())
	for readSystemTimerUs()-start < target {
	}
}

var _ systimer.Clock = (*Clock)(nil)
