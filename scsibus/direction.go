package scsibus

import (
	"devicecode-go/board"
	"devicecode-go/canon"
	"devicecode-go/pinio"
)

// configureStaticDirections sets the fixed, mode-determined direction for
// every control pin, and sets the TAD/IND transceiver selects for mode.
// The data bus, parity and DTD are configured dynamically afterward, by
// syncDataDirection, because they follow IO which can change at runtime
// (§4.4).
func (b *Bus) configureStaticDirections() error {
	p := b.board.Pins

	switch b.mode {
	case Target:
		for _, pin := range []board.Pin{p.BSY, p.MSG, p.CD, p.REQ, p.IO} {
			if err := b.pins.PinConfig(pin, pinio.Output); err != nil {
				return err
			}
		}
		for _, pin := range []board.Pin{p.SEL, p.ATN, p.ACK, p.RST} {
			if err := b.pins.PinConfig(pin, pinio.Input); err != nil {
				return err
			}
		}
		if b.board.HasTAD() {
			_ = b.pins.PinSet(p.TAD, b.board.TadOut())
		}
	case Initiator:
		for _, pin := range []board.Pin{p.SEL, p.ATN, p.ACK} {
			if err := b.pins.PinConfig(pin, pinio.Output); err != nil {
				return err
			}
		}
		for _, pin := range []board.Pin{p.BSY, p.MSG, p.CD, p.REQ, p.RST} {
			if err := b.pins.PinConfig(pin, pinio.Input); err != nil {
				return err
			}
		}
		if b.board.HasIND() {
			_ = b.pins.PinSet(p.IND, b.board.IndOut())
		}
	case Monitor:
		for _, pin := range b.allOwnedPins() {
			if err := b.pins.PinConfig(pin, pinio.Input); err != nil {
				return err
			}
		}
		if b.board.HasTAD() {
			_ = b.pins.PinSet(p.TAD, b.board.TadIn())
		}
		if b.board.HasIND() {
			_ = b.pins.PinSet(p.IND, b.board.IndIn())
		}
	}
	return nil
}

// syncDataDirection flips the data bus (and DTD transceiver, where
// wired) between input and output whenever IO changes, per the
// direction-control rule in §4.4. In Monitor mode the data bus is always
// input and this is a no-op.
func (b *Bus) syncDataDirection() {
	if b.mode == Monitor {
		return
	}
	io := canon.Get(b.signals, canon.BitIO)
	if b.dirInit && io == b.lastIO {
		return
	}
	b.lastIO = io

	// Target: IO=1 means target->initiator, i.e. this side drives data out.
	// Initiator: mirror image, IO=1 means this side reads.
	driveOut := (b.mode == Target && io) || (b.mode == Initiator && !io)

	dir := pinio.Input
	if driveOut {
		dir = pinio.Output
	}
	dataPins := b.board.Pins.DataPins()
	dataAndParity := append([]board.Pin{b.board.Pins.DP}, dataPins[:]...)
	for _, pin := range dataAndParity {
		_ = b.pins.PinConfig(pin, dir)
	}
	if b.board.HasDTD() {
		lvl := b.board.DtdIn()
		if driveOut {
			lvl = b.board.DtdOut()
		}
		_ = b.pins.PinSet(b.board.Pins.DTD, lvl)
	}
}

// setOutLocked writes a logical asserted/deasserted value to pin,
// translating through the board's signal_control_mode so pinio.Backend
// always sees the electrical level the wire actually needs.
func (b *Bus) setOutLocked(pin board.Pin, asserted bool) {
	if pin == board.NoPin {
		return
	}
	lvl := board.Low
	if asserted {
		lvl = board.High
	}
	if b.board.Mode.Invert() {
		lvl = board.Invert(lvl)
	}
	_ = b.pins.PinSet(pin, lvl)
}
