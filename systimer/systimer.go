// Package systimer provides the monotonic clock the bus engine uses for
// handshake timeouts and inter-byte delays, plus the SCSI-2 timing
// constants every handshake is built from.
//
// The hardware Clock (see systimer/rpi, build tag "rpi") busy-waits: the
// REQ/ACK handshake needs sub-microsecond precision well below what the OS
// scheduler can guarantee. The host/virtual Clock in this package uses an
// ordinary nanosecond sleep, since the virtual bus has no such real-time
// constraint.
package systimer

import "time"

// Timing constants (ns unless noted), taken from SCSI-2.
const (
	BusSettleDelay       = 400 * time.Nanosecond
	AssertionPeriod      = 90 * time.Nanosecond
	NegationPeriod       = 90 * time.Nanosecond
	CableSkewDelay       = 10 * time.Nanosecond
	DeskewDelay          = 45 * time.Nanosecond
	HoldTime             = 45 * time.Nanosecond
	HandshakeTimeout     = 3 * time.Second
	SendDataInterChunkUs = 100 * time.Microsecond
)

// Clock is the System Timer contract (C3): a monotonic clock plus
// busy-wait sleeps. now_us/now_ns truncate to uint32 to match the
// hardware free-running counter's width; callers needing longer spans
// should use time.Duration arithmetic on successive reads instead of
// relying on absolute values not wrapping.
type Clock interface {
	NowUs() uint32
	NowNs() uint32
	SleepNs(d time.Duration)
	SleepUs(d time.Duration)
}
