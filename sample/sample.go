// Package sample implements the Data Sample & Capture component: an
// immutable snapshot of one bus acquisition, decoded into logical
// signals, plus the phase it implies. A DataSample's Raw field is always
// in the canonical, board-independent bit layout (see the canon
// package) — a trace captured on one board is indistinguishable from one
// captured on another once it reaches this type.
package sample

import (
	"devicecode-go/board"
	"devicecode-go/canon"
	"devicecode-go/scsibus"
)

// DataSample is a value: constructing one from the same (raw, timestamp)
// pair twice yields equal values, which is what the Capture Buffer's
// dedup invariant and the JSON round-trip property both rely on.
type DataSample struct {
	Raw       uint32
	Timestamp uint64
}

// New builds a DataSample directly from an already-canonical raw word.
func New(raw uint32, timestamp uint64) DataSample {
	return DataSample{Raw: raw, Timestamp: timestamp}
}

// FromPhysical builds a DataSample from a raw, positive-logic-normalized
// physical pin word captured on board desc, repacking it into the
// canonical layout so downstream tooling never needs to know which board
// produced the trace.
func FromPhysical(desc board.Descriptor, physicalRaw uint32, timestamp uint64) DataSample {
	return DataSample{Raw: canon.FromPhysical(desc.Pins, physicalRaw), Timestamp: timestamp}
}

func (s DataSample) BSY() bool { return canon.Get(s.Raw, canon.BitBSY) }
func (s DataSample) SEL() bool { return canon.Get(s.Raw, canon.BitSEL) }
func (s DataSample) ATN() bool { return canon.Get(s.Raw, canon.BitATN) }
func (s DataSample) ACK() bool { return canon.Get(s.Raw, canon.BitACK) }
func (s DataSample) RST() bool { return canon.Get(s.Raw, canon.BitRST) }
func (s DataSample) MSG() bool { return canon.Get(s.Raw, canon.BitMSG) }
func (s DataSample) CD() bool  { return canon.Get(s.Raw, canon.BitCD) }
func (s DataSample) IO() bool  { return canon.Get(s.Raw, canon.BitIO) }
func (s DataSample) REQ() bool { return canon.Get(s.Raw, canon.BitREQ) }
func (s DataSample) DP() bool  { return canon.Get(s.Raw, canon.BitDP) }
func (s DataSample) Dat() uint8 { return canon.Data(s.Raw) }

// Phase derives this sample's bus phase using the same rule the live
// engine uses (§4.4) — isolated from any Bus, so a stored trace can be
// re-analyzed long after capture.
func (s DataSample) Phase() scsibus.Phase {
	return scsibus.Derive(scsibus.Signals{
		SEL: s.SEL(),
		BSY: s.BSY(),
		MSG: s.MSG(),
		CD:  s.CD(),
		IO:  s.IO(),
	})
}

// SelectedID extracts the target ID from the data bus at the moment of a
// Selection phase sample — the first row of a Selection run in the
// monitor's HTML report carries this.
func (s DataSample) SelectedID() uint8 { return s.Dat() }
