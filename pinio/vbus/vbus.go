// Package vbus implements the virtual Pin I/O Backend: a single 32-bit
// pin word living in POSIX shared memory, guarded by the reader/writer
// spinlock in x/shmword, so that unrelated processes (a device emulator,
// the monitor, an integration test) can all see the same bus state
// without any of them needing SCSI hardware.
//
// Direction and pull configuration have no electrical meaning here; they
// are tracked only so PinSet can refuse to drive a pin nothing configured
// as an output.
package vbus

import (
	"fmt"

	"devicecode-go/board"
	"devicecode-go/errcode"
	"devicecode-go/pinio"
	"devicecode-go/x/shmword"
)

// maxPin bounds the pin word to 32 bits.
const maxPin = 31

// Backend is the virtual bus: a shared 32-bit word plus local,
// per-process bookkeeping of which pins this handle has configured as
// outputs (direction is not itself shared state — each side of the link
// drives and reads its own pins).
type Backend struct {
	word    *shmword.Word
	primary bool
	name    string
	outputs uint32
}

// Open binds to (creating if necessary) the named virtual bus segment.
// The first caller to create it becomes primary and is responsible for
// eventually calling Unlink once every other handle has closed.
func Open(name string) (*Backend, error) {
	w, primary, err := shmword.Open(name)
	if err != nil {
		return nil, errcode.New(errcode.BackendUnavailable, "vbus.Open", "shared memory open failed", err)
	}
	return &Backend{word: w, primary: primary, name: name}, nil
}

// IsPrimary reports whether this handle created the segment.
func (b *Backend) IsPrimary() bool { return b.primary }

func bit(pin board.Pin) (uint32, error) {
	if pin < 0 || pin > maxPin {
		return 0, fmt.Errorf("vbus: pin %d out of range", pin)
	}
	return 1 << uint(pin), nil
}

func (b *Backend) PinConfig(pin board.Pin, dir pinio.Direction) error {
	m, err := bit(pin)
	if err != nil {
		return err
	}
	if dir == pinio.Output {
		b.outputs |= m
	} else {
		b.outputs &^= m
	}
	return nil
}

// PullConfig is a no-op: the virtual bus has no pull resistors.
func (b *Backend) PullConfig(board.Pin, pinio.Pull) error { return nil }

func (b *Backend) PinSet(pin board.Pin, level board.Level) error {
	m, err := bit(pin)
	if err != nil {
		return err
	}
	if m&b.outputs == 0 {
		return fmt.Errorf("vbus: pin %d not configured as output", pin)
	}
	var set uint32
	if level == board.High {
		set = m
	}
	b.word.SetBits(m, set)
	return nil
}

func (b *Backend) Acquire() (uint32, error) {
	return b.word.Load(), nil
}

// DriveStrength is a no-op: there is no electrical drive to tune.
func (b *Backend) DriveStrength(int) error { return nil }

func (b *Backend) Close() error {
	return b.word.Close()
}

// Unlink removes the named segment's backing file. Call once, after every
// handle has closed, typically from the primary on shutdown.
func Unlink(name string) error {
	return shmword.Unlink(name)
}

var _ pinio.Backend = (*Backend)(nil)
