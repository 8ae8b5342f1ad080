package scsibus

import (
	"devicecode-go/board"
	"devicecode-go/canon"
)

// Signal accessors read the last-acquired word (no backend round trip);
// callers that need a fresh sample call Acquire first. This matches the
// source's convention that get_* are cheap field reads and acquire() is
// the only thing that talks to hardware.

func (b *Bus) GetBSY() bool { return b.bit(canon.BitBSY) }
func (b *Bus) GetSEL() bool { return b.bit(canon.BitSEL) }
func (b *Bus) GetATN() bool { return b.bit(canon.BitATN) }
func (b *Bus) GetACK() bool { return b.bit(canon.BitACK) }
func (b *Bus) GetRST() bool { return b.bit(canon.BitRST) }
func (b *Bus) GetMSG() bool { return b.bit(canon.BitMSG) }
func (b *Bus) GetCD() bool  { return b.bit(canon.BitCD) }
func (b *Bus) GetIO() bool  { return b.bit(canon.BitIO) }
func (b *Bus) GetREQ() bool { return b.bit(canon.BitREQ) }
func (b *Bus) GetDP() bool  { return b.bit(canon.BitDP) }

func (b *Bus) bit(pos int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return canon.Get(b.signals, pos)
}

// SetBSY also drives ACT (Target only): asserting BSY turns the activity
// LED on, clearing it turns the LED off.
func (b *Bus) SetBSY(v bool) {
	if !b.ownsOutput(canon.BitBSY) {
		return
	}
	b.mu.Lock()
	b.setOutLocked(b.board.Pins.BSY, v)
	b.mu.Unlock()
	b.driveAct(v)
}

// SetSEL also drives ACT (Initiator only): asserting SEL turns the
// activity LED on. Nothing clears it back off from SetSEL; that mirrors
// the source, which leaves ACT lit until the next BSY/SEL cycle resets
// it explicitly.
func (b *Bus) SetSEL(v bool) {
	if !b.ownsOutput(canon.BitSEL) {
		return
	}
	b.mu.Lock()
	b.setOutLocked(b.board.Pins.SEL, v)
	b.mu.Unlock()
	if v {
		b.driveAct(true)
	}
}

func (b *Bus) SetATN(v bool) { b.setSimple(canon.BitATN, b.board.Pins.ATN, v) }
func (b *Bus) SetACK(v bool) { b.setSimple(canon.BitACK, b.board.Pins.ACK, v) }
func (b *Bus) SetRST(v bool) { b.setSimple(canon.BitRST, b.board.Pins.RST, v) }
func (b *Bus) SetMSG(v bool) { b.setSimple(canon.BitMSG, b.board.Pins.MSG, v) }
func (b *Bus) SetCD(v bool)  { b.setSimple(canon.BitCD, b.board.Pins.CD, v) }
func (b *Bus) SetREQ(v bool) { b.setSimple(canon.BitREQ, b.board.Pins.REQ, v) }

// SetIO both writes the IO pin and re-syncs the data-bus direction, since
// IO is exactly the signal that decides which way the data pins face.
func (b *Bus) SetIO(v bool) {
	if !b.ownsOutput(canon.BitIO) {
		return
	}
	b.mu.Lock()
	b.setOutLocked(b.board.Pins.IO, v)
	b.signals = canon.Set(b.signals, canon.BitIO, v)
	b.syncDataDirection()
	b.mu.Unlock()
}

func (b *Bus) setSimple(pos int, pin board.Pin, v bool) {
	if !b.ownsOutput(pos) {
		return
	}
	b.mu.Lock()
	b.setOutLocked(pin, v)
	b.mu.Unlock()
}

// ownsOutput reports whether this mode drives the given canonical signal
// bit as an output; set_* is a no-op on a signal this mode does not own,
// matching §4.4's "set_* is a no-op" rule for Monitor and extending it to
// the signals each non-Monitor mode treats as inputs.
func (b *Bus) ownsOutput(bit int) bool {
	switch b.mode {
	case Target:
		switch bit {
		case canon.BitBSY, canon.BitMSG, canon.BitCD, canon.BitREQ, canon.BitIO:
			return true
		}
	case Initiator:
		switch bit {
		case canon.BitSEL, canon.BitATN, canon.BitACK:
			return true
		}
	}
	return false
}

// GetDAT extracts the 8-bit data byte from the last acquired word.
func (b *Bus) GetDAT() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return canon.Data(b.signals)
}

// SetDAT drives the data bus to v plus its odd-parity bit. Uses the
// backend's fast lookup-table path when available (pinio/rpi); falls
// back to one PinSet per data pin otherwise (pinio/vbus, tests).
func (b *Bus) SetDAT(v uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()

	parity := canon.OddParity(v)
	if b.fastData != nil {
		b.fastData.SetDat(v)
	} else {
		for i, pin := range b.board.Pins.DataPins() {
			lvl := board.Low
			if v&(1<<uint(i)) != 0 {
				lvl = board.High
			}
			if b.board.Mode.Invert() {
				lvl = board.Invert(lvl)
			}
			_ = b.pins.PinSet(pin, lvl)
		}
	}
	b.setOutLocked(b.board.Pins.DP, parity)
	b.signals = canon.WithData(b.signals, v)
	b.signals = canon.Set(b.signals, canon.BitDP, parity)
}
