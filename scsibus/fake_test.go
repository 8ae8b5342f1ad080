package scsibus

import (
	"time"

	"devicecode-go/board"
	"devicecode-go/pinio"
)

// fakeBackend is an in-memory pinio.Backend for unit tests: a plain
// uint32 word with no concurrency protection, since bus tests drive it
// from a single goroutine exactly like the real engine would.
type fakeBackend struct {
	word      uint32
	dirs      map[board.Pin]pinio.Direction
	onAcquire func(*fakeBackend)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{dirs: map[board.Pin]pinio.Direction{}}
}

func (f *fakeBackend) PinConfig(pin board.Pin, dir pinio.Direction) error {
	f.dirs[pin] = dir
	return nil
}

func (f *fakeBackend) PullConfig(board.Pin, pinio.Pull) error { return nil }

func (f *fakeBackend) PinSet(pin board.Pin, level board.Level) error {
	if pin == board.NoPin {
		return nil
	}
	m := uint32(1) << uint(pin)
	if level == board.High {
		f.word |= m
	} else {
		f.word &^= m
	}
	return nil
}

func (f *fakeBackend) Acquire() (uint32, error) {
	if f.onAcquire != nil {
		f.onAcquire(f)
	}
	return f.word, nil
}

func (f *fakeBackend) DriveStrength(int) error { return nil }
func (f *fakeBackend) Close() error            { return nil }

var _ pinio.Backend = (*fakeBackend)(nil)

// fakeClock is a systimer.Clock with virtual time: every NowUs() call
// also advances the clock by a fixed tick, so a waitSignal busy-loop that
// never sees its edge still crosses HANDSHAKE_TIMEOUT in a bounded number
// of iterations instead of spinning on a clock that never moves.
type fakeClock struct {
	nowNs uint64
}

const fakeClockTick = 1_000_000 // 1ms of virtual time per NowUs() poll

func (c *fakeClock) NowUs() uint32 {
	c.nowNs += fakeClockTick
	return uint32(c.nowNs / 1000)
}
func (c *fakeClock) NowNs() uint32           { return uint32(c.nowNs) }
func (c *fakeClock) SleepNs(d time.Duration) { c.nowNs += uint64(d.Nanoseconds()) }
func (c *fakeClock) SleepUs(d time.Duration) { c.nowNs += uint64(d.Nanoseconds()) }

func (c *fakeClock) advance(d time.Duration) { c.nowNs += uint64(d.Nanoseconds()) }
