// Package scsibus implements the Bus Engine: the SCSI-2 phase state
// machine, signal accessors, direction-control bookkeeping, and the
// REQ/ACK byte handshakes, layered on a pinio.Backend plus a
// board.Descriptor. See phase.go for phase derivation and handshake.go
// for the timing-critical transfer loops.
package scsibus

import (
	"sync"

	"devicecode-go/board"
	"devicecode-go/canon"
	"devicecode-go/errcode"
	"devicecode-go/pinio"
	"devicecode-go/systimer"
)

// Mode selects which side of the bus this process drives.
type Mode uint8

const (
	Target Mode = iota
	Initiator
	Monitor
)

// dataBusSetter is implemented by backends (pinio/rpi) that can write the
// whole data bus in a bounded number of stores via a precomputed lookup
// table. Backends without it (pinio/vbus) fall back to per-pin PinSet,
// which is still correct, just not store-bounded.
type dataBusSetter interface {
	SetDataPins(pins [8]board.Pin)
	SetDat(v uint8)
}

// Bus is the long-lived, single-writer handle device emulators and tools
// use to talk to the SCSI bus. A Bus is not safe for concurrent use: it
// is owned by exactly one goroutine at a time, per §5 of the engine's
// concurrency model.
type Bus struct {
	mu sync.Mutex

	mode  Mode
	board board.Descriptor
	pins  pinio.Backend
	clock systimer.Clock
	irq   irqController

	fastData dataBusSetter // non-nil when pins implements dataBusSetter

	signals uint32 // last acquired word, canonical layout
	lastIO  bool   // direction bookkeeping for the data bus + transceivers
	dirInit bool
}

// New wires together a backend, board, clock and IRQ controller into a
// Bus. Most callers should use Open (factory.go) instead; New is exposed
// for tests that supply a fake backend/clock directly.
func New(mode Mode, desc board.Descriptor, pins pinio.Backend, clock systimer.Clock, irq irqController) *Bus {
	b := &Bus{mode: mode, board: desc, pins: pins, clock: clock, irq: irq}
	if fd, ok := pins.(dataBusSetter); ok {
		b.fastData = fd
	}
	return b
}

// Init configures pin directions for mode and enables the bus
// transceivers. Idempotent in Monitor mode, matching §6: calling it twice
// on an already-initialized Monitor bus is a no-op.
func (b *Bus) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mode == Monitor && b.dirInit {
		return nil
	}

	if b.fastData != nil {
		b.fastData.SetDataPins(b.board.Pins.DataPins())
	}

	// ACT, ENB and the IND/TAD/DTD transceiver selects are driven by this
	// side in every mode, so they are outputs before anything sets them.
	p := b.board.Pins
	for _, pin := range []board.Pin{p.ACT, p.ENB, p.IND, p.TAD, p.DTD} {
		if pin == board.NoPin {
			continue
		}
		if err := b.pins.PinConfig(pin, pinio.Output); err != nil {
			return errcode.New(errcode.InvalidBoard, "Bus.Init", "control pin configuration failed", err)
		}
	}

	if err := b.configureStaticDirections(); err != nil {
		return errcode.New(errcode.InvalidBoard, "Bus.Init", "direction configuration failed", err)
	}
	if b.board.HasENB() {
		if err := b.pins.PinSet(b.board.Pins.ENB, b.board.EnbOn()); err != nil {
			return errcode.New(errcode.BackendError, "Bus.Init", "enable transceivers failed", err)
		}
	}

	if _, err := b.acquireLocked(); err != nil {
		return err
	}
	b.dirInit = true
	return nil
}

// Reset returns every output line this process drives to a safe idle
// state matching mode, without releasing any resource.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.mode {
	case Target:
		b.setOutLocked(b.board.Pins.BSY, false)
		b.setOutLocked(b.board.Pins.MSG, false)
		b.setOutLocked(b.board.Pins.CD, false)
		b.setOutLocked(b.board.Pins.REQ, false)
		b.setOutLocked(b.board.Pins.IO, false)
		b.driveAct(false)
	case Initiator:
		b.setOutLocked(b.board.Pins.SEL, false)
		b.setOutLocked(b.board.Pins.ATN, false)
		b.setOutLocked(b.board.Pins.ACK, false)
		b.driveAct(false)
	case Monitor:
		// all lines are inputs; nothing to drive.
	}
}

// Cleanup releases ENB, restores every line this process drove to input,
// and releases the backend. Infallible and idempotent, per §7.
func (b *Bus) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.board.HasENB() {
		_ = b.pins.PinSet(b.board.Pins.ENB, b.board.EnbOff())
	}
	for _, p := range b.allOwnedPins() {
		_ = b.pins.PinConfig(p, pinio.Input)
	}
	_ = b.pins.Close()
}

func (b *Bus) allOwnedPins() []board.Pin {
	p := b.board.Pins
	pins := []board.Pin{p.BSY, p.SEL, p.ATN, p.RST, p.ACK, p.REQ, p.MSG, p.CD, p.IO, p.DP}
	dataPins := p.DataPins()
	pins = append(pins, dataPins[:]...)
	return pins
}

func (b *Bus) driveAct(on bool) {
	if !b.board.HasACT() {
		return
	}
	lvl := b.board.ActOff()
	if on {
		lvl = b.board.ActOn()
	}
	_ = b.pins.PinSet(b.board.Pins.ACT, lvl)
}

// acquireLocked samples the backend, normalizes to positive logic per
// the board's signal_control_mode, repacks into the canonical layout and
// updates b.signals. Callers must hold b.mu.
func (b *Bus) acquireLocked() (uint32, error) {
	raw, err := b.pins.Acquire()
	if err != nil {
		return 0, errcode.New(errcode.BackendError, "Bus.acquire", "backend read failed", err)
	}
	if b.board.Mode.Invert() {
		raw = ^raw
	}
	b.signals = canon.FromPhysical(b.board.Pins, raw)
	b.syncDataDirection()
	return b.signals, nil
}

// Acquire is the public, locking form of acquireLocked.
func (b *Bus) Acquire() (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acquireLocked()
}

// Signals returns the word from the most recent Acquire without
// re-sampling the backend.
func (b *Bus) Signals() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signals
}

// Phase derives the current bus phase from the last acquired signals.
func (b *Bus) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Derive(signalsOf(b.signals))
}

func signalsOf(w uint32) Signals {
	return Signals{
		SEL: canon.Get(w, canon.BitSEL),
		BSY: canon.Get(w, canon.BitBSY),
		MSG: canon.Get(w, canon.BitMSG),
		CD:  canon.Get(w, canon.BitCD),
		IO:  canon.Get(w, canon.BitIO),
	}
}

// Board returns the descriptor this bus was opened with.
func (b *Bus) Board() board.Descriptor { return b.board }

// ModeOf returns the mode this bus was opened with.
func (b *Bus) ModeOf() Mode { return b.mode }

// Clock exposes the System Timer backing this bus, so callers that need
// a timestamp alongside a sample (the monitor) don't have to keep a
// second clock in sync with the engine's own.
func (b *Bus) Clock() systimer.Clock { return b.clock }

// primaryBackend is implemented by pinio backends that distinguish the
// first handle to create a shared resource from later joiners (the
// virtual bus); hardware backends don't need the concept.
type primaryBackend interface {
	IsPrimary() bool
}

// IsPrimary reports whether this Bus created the backing resource it
// binds to (meaningful for the virtual bus's shared-memory segment;
// always false on hardware backends).
func (b *Bus) IsPrimary() bool {
	p, ok := b.pins.(primaryBackend)
	return ok && p.IsPrimary()
}
