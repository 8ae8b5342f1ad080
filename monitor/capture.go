// Package monitor implements the polling capture loop, bounded Capture
// Buffer, and VCD/JSON/HTML report writers (C6). It never touches a pin
// directly — it drives a scsibus.Bus opened in Monitor mode and records
// what Acquire returns.
package monitor

import (
	"golang.org/x/exp/slices"

	"devicecode-go/sample"
)

// Buffer is the Capture Buffer: an ordered, capacity-bounded sequence of
// samples with the invariant that no two adjacent entries share a raw
// word. Equal-raw acquisitions are simply not appended — the bus hasn't
// changed, so there is nothing new to record.
type Buffer struct {
	capacity int
	samples  []sample.DataSample
	dropped  uint64 // duplicate acquisitions Append declined to store
}

// NewBuffer allocates a Buffer that holds at most capacity samples.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{capacity: capacity, samples: make([]sample.DataSample, 0, capacity)}
}

// Append adds s unless it is a duplicate of the last stored sample or the
// buffer is already full. It reports whether the buffer has room for
// another sample afterward, so callers can stop polling once it is full.
func (b *Buffer) Append(s sample.DataSample) (appended, hasRoom bool) {
	if len(b.samples) >= b.capacity {
		return false, false
	}
	if n := len(b.samples); n > 0 && b.samples[n-1].Raw == s.Raw {
		b.dropped++
		return false, len(b.samples) < b.capacity
	}
	b.samples = append(b.samples, s)
	return true, len(b.samples) < b.capacity
}

// CloseWithTerminalDuplicate appends one final copy of the last sample,
// if there is one and the buffer has room, so the last real event's
// visible duration in the VCD/HTML output isn't zero-width.
func (b *Buffer) CloseWithTerminalDuplicate(now uint64) {
	if len(b.samples) == 0 || len(b.samples) >= b.capacity {
		return
	}
	last := b.samples[len(b.samples)-1]
	b.samples = append(b.samples, sample.New(last.Raw, now))
}

// Samples returns the buffer's contents. The slice is the buffer's own
// backing array; callers must not mutate it.
func (b *Buffer) Samples() []sample.DataSample { return b.samples }

// Len reports the number of samples currently stored.
func (b *Buffer) Len() int { return len(b.samples) }

// Full reports whether the buffer has reached capacity.
func (b *Buffer) Full() bool { return len(b.samples) >= b.capacity }

// Dropped reports how many acquisitions were declined as duplicates of
// the last stored sample.
func (b *Buffer) Dropped() uint64 { return b.dropped }

// Reset discards every stored sample, keeping the same capacity.
func (b *Buffer) Reset() {
	b.samples = b.samples[:0]
}

// LoadAll replaces the buffer's contents wholesale and trims to capacity if the loaded trace is larger, using
// slices.Clip to drop the unused backing capacity from the over-sized
// read instead of carrying it forward.
func (b *Buffer) LoadAll(all []sample.DataSample) {
	if len(all) > b.capacity {
		all = all[:b.capacity]
	}
	b.samples = slices.Clip(append(b.samples[:0], all...))
}
