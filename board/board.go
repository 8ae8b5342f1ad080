// Package board holds the static, immutable per-variant description of how
// logical SCSI signals map onto physical GPIO pins for a given carrier
// board, plus the small pure helpers the bus engine needs to turn a
// logical "asserted/deasserted" into the electrical level a board expects.
//
// A Descriptor never changes after construction and is cheap to copy; the
// bus engine holds one by value.
package board

// Level is an electrical level, independent of SCSI assertion semantics.
type Level uint8

const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Invert returns the opposite level.
func Invert(l Level) Level {
	if l == High {
		return Low
	}
	return High
}

// SignalControlMode selects how the raw pin word must be treated on
// ingress/egress. SCSI_LOGIC and NEGATIVE_CONVERTER both require inverting
// the raw sample to recover positive logic; POSITIVE_CONVERTER does not.
type SignalControlMode uint8

const (
	ScsiLogic SignalControlMode = iota
	NegativeConverter
	PositiveConverter
)

// Invert reports whether acquire() must invert the raw sample to produce
// positive logic for this mode.
func (m SignalControlMode) Invert() bool {
	return m == ScsiLogic || m == NegativeConverter
}

// Tag names a known board variant. Parse never returns a zero value for
// unrecognised input; it returns Invalid instead, so callers cannot
// mistake "unparsed" for "Standard".
type Tag int

const (
	Invalid Tag = iota
	TagStandard
	TagFullspec
	TagAibom
	TagGamernium
	TagVirtual
)

func (t Tag) String() string {
	switch t {
	case TagStandard:
		return "STANDARD"
	case TagFullspec:
		return "FULLSPEC"
	case TagAibom:
		return "AIBOM"
	case TagGamernium:
		return "GAMERNIUM"
	case TagVirtual:
		return "VIRTUAL"
	default:
		return "INVALID"
	}
}

// Parse maps the first letter of a CLI-style connection-type argument to a
// Tag, matching the original a|f|g|n|s|v convention. No default is
// assumed; unrecognised input yields Invalid.
func Parse(s string) Tag {
	if len(s) == 0 {
		return Invalid
	}
	switch lower(s[0]) {
	case 'a':
		return TagAibom
	case 'f':
		return TagFullspec
	case 's':
		return TagStandard
	case 'g':
		return TagGamernium
	case 'n', 'v':
		return TagVirtual
	default:
		return Invalid
	}
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Pin is a physical pin identifier. -1 (NoPin) means "not wired" and is
// only valid for the control pins.
type Pin int

const NoPin Pin = -1

// ControlPolarity holds the board's "signal asserted" electrical level for
// each control line the engine manages directly (as opposed to the SCSI
// bus signals themselves, whose assertion level is fixed by SCSI-2).
type ControlPolarity struct {
	ActOn Level // level that turns the activity LED on
	EnbOn Level // level that enables the transceivers
	IndIn Level // level that selects initiator-side input direction
	TadIn Level // level that selects target-side input direction
	DtdIn Level // level that selects data-bus input direction
}

// Pins is the complete pin assignment for one board. Every SCSI pin must
// be set; control pins may be NoPin when the board lacks that
// transceiver.
type Pins struct {
	// Control pins.
	ACT, ENB, IND, TAD, DTD Pin

	// SCSI data bus.
	DT0, DT1, DT2, DT3, DT4, DT5, DT6, DT7, DP Pin

	// SCSI control bus.
	ATN, RST, ACK, REQ, MSG, CD, IO, BSY, SEL Pin
}

// DataPins returns the eight data pins in bit order (DT0 = bit 0).
func (p Pins) DataPins() [8]Pin {
	return [8]Pin{p.DT0, p.DT1, p.DT2, p.DT3, p.DT4, p.DT5, p.DT6, p.DT7}
}

// Descriptor is the full, immutable description of one board variant.
type Descriptor struct {
	Name string
	Tag  Tag
	Mode SignalControlMode
	Pol  ControlPolarity
	Pins Pins
}

func (b Descriptor) toLevel(asserted bool, on Level) Level {
	if asserted {
		return on
	}
	return Invert(on)
}

// fromLevel is the inverse of toLevel for a given "on" convention: it
// reports whether the observed level means "asserted".
func (b Descriptor) fromLevel(l Level, on Level) bool {
	return l == on
}

// ActOn/ActOff return the level to drive the ACT pin for the activity LED
// on/off states.
func (b Descriptor) ActOn() Level  { return b.toLevel(true, b.Pol.ActOn) }
func (b Descriptor) ActOff() Level { return b.toLevel(false, b.Pol.ActOn) }

// EnbOn/EnbOff return the level to drive ENB to enable/disable the bus
// transceivers.
func (b Descriptor) EnbOn() Level  { return b.toLevel(true, b.Pol.EnbOn) }
func (b Descriptor) EnbOff() Level { return b.toLevel(false, b.Pol.EnbOn) }

// IndIn/IndOut return the level to drive IND for initiator-side
// input/output transceiver direction.
func (b Descriptor) IndIn() Level  { return b.toLevel(true, b.Pol.IndIn) }
func (b Descriptor) IndOut() Level { return b.toLevel(false, b.Pol.IndIn) }

// TadIn/TadOut return the level to drive TAD for target-side
// input/output transceiver direction.
func (b Descriptor) TadIn() Level  { return b.toLevel(true, b.Pol.TadIn) }
func (b Descriptor) TadOut() Level { return b.toLevel(false, b.Pol.TadIn) }

// DtdIn/DtdOut return the level to drive DTD for data-bus input/output
// transceiver direction.
func (b Descriptor) DtdIn() Level  { return b.toLevel(true, b.Pol.DtdIn) }
func (b Descriptor) DtdOut() Level { return b.toLevel(false, b.Pol.DtdIn) }

// HasACT/HasENB/HasIND/HasTAD/HasDTD report whether the board wires the
// corresponding transceiver control line at all.
func (b Descriptor) HasACT() bool { return b.Pins.ACT != NoPin }
func (b Descriptor) HasENB() bool { return b.Pins.ENB != NoPin }
func (b Descriptor) HasIND() bool { return b.Pins.IND != NoPin }
func (b Descriptor) HasTAD() bool { return b.Pins.TAD != NoPin }
func (b Descriptor) HasDTD() bool { return b.Pins.DTD != NoPin }
