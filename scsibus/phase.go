package scsibus

// Phase is a SCSI-2 bus phase, derived purely from the SEL/BSY/MSG/C-D/I-O
// signal combination — the engine never drives a transition itself, it
// only observes one via Derive.
type Phase uint8

const (
	BusFree Phase = iota
	Arbitration
	Selection
	Reselection
	Command
	DataIn
	DataOut
	Status
	MsgIn
	MsgOut
	Reserved
)

func (p Phase) String() string {
	switch p {
	case BusFree:
		return "BusFree"
	case Arbitration:
		return "Arbitration"
	case Selection:
		return "Selection"
	case Reselection:
		return "Reselection"
	case Command:
		return "Command"
	case DataIn:
		return "DataIn"
	case DataOut:
		return "DataOut"
	case Status:
		return "Status"
	case MsgIn:
		return "MsgIn"
	case MsgOut:
		return "MsgOut"
	case Reserved:
		return "Reserved"
	default:
		return "Unknown"
	}
}

// mciTable is the canonical SCSI-2 §6.1 mapping from the 3-bit
// (MSG,C/D,I/O) field to a bus phase, valid only while BSY is asserted
// and SEL is not.
var mciTable = [8]Phase{
	0: DataOut,
	1: DataIn,
	2: Command,
	3: Status,
	4: Reserved,
	5: Reserved,
	6: MsgOut,
	7: MsgIn,
}

// Signals is the set of bits Derive needs, already normalized to positive
// logic (1 = asserted). It is deliberately narrower than a full canonical
// word so it can be built directly from a DataSample or from Bus.signals.
type Signals struct {
	SEL, BSY, MSG, CD, IO bool
}

// Derive implements the pure phase-derivation rule from §4.4: Selection/
// Reselection take priority over everything else, then BusFree, then the
// MCI lookup table.
func Derive(s Signals) Phase {
	if s.SEL {
		if s.IO {
			return Reselection
		}
		return Selection
	}
	if !s.BSY {
		return BusFree
	}
	mci := 0
	if s.MSG {
		mci |= 4
	}
	if s.CD {
		mci |= 2
	}
	if s.IO {
		mci |= 1
	}
	return mciTable[mci]
}
