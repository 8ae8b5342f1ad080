package board

// Known board descriptors. Pin numbers are physical header pins, matching
// the convention the hardware backend's Board Descriptor table was
// originally specified against; a port to a different SBC family only
// needs a new Descriptor here plus a matching pinio backend.

// Standard is the common 40-pin header wiring with a single ACT/ENB
// transceiver pair and no separate direction-control lines.
var Standard = Descriptor{
	Name: "STANDARD",
	Tag:  TagStandard,
	Mode: ScsiLogic,
	Pol: ControlPolarity{
		ActOn: High,
		EnbOn: High,
		IndIn: Low,
		TadIn: Low,
		DtdIn: High,
	},
	Pins: Pins{
		ACT: 7, ENB: 29, IND: NoPin, TAD: NoPin, DTD: NoPin,
		DT0: 19, DT1: 23, DT2: 32, DT3: 33, DT4: 8, DT5: 10, DT6: 36, DT7: 11,
		DP:  12,
		ATN: 35, RST: 38, ACK: 40, REQ: 15, MSG: 16, CD: 18, IO: 22, BSY: 37, SEL: 13,
	},
}

// Fullspec adds explicit direction-control lines (IND/TAD/DTD) over
// Standard so the engine can drive bidirectional transceivers instead of
// relying on fixed-direction buffers.
var Fullspec = Descriptor{
	Name: "FULLSPEC",
	Tag:  TagFullspec,
	Mode: ScsiLogic,
	Pol: ControlPolarity{
		ActOn: High,
		EnbOn: High,
		IndIn: Low,
		TadIn: Low,
		DtdIn: High,
	},
	Pins: Pins{
		ACT: 7, ENB: 29, IND: 31, TAD: 26, DTD: 24,
		DT0: 19, DT1: 23, DT2: 32, DT3: 33, DT4: 8, DT5: 10, DT6: 36, DT7: 11,
		DP:  12,
		ATN: 35, RST: 38, ACK: 40, REQ: 15, MSG: 16, CD: 18, IO: 22, BSY: 37, SEL: 13,
	},
}

// Aibom is a third-party adapter with its own pin map and a positive-logic
// converter in front of the SCSI bus (signal_control_mode = converter).
var Aibom = Descriptor{
	Name: "AIBOM PRODUCTS version",
	Tag:  TagAibom,
	Mode: PositiveConverter,
	Pol: ControlPolarity{
		ActOn: High,
		EnbOn: High,
		IndIn: Low,
		TadIn: Low,
		DtdIn: Low,
	},
	Pins: Pins{
		ACT: 7, ENB: 11, IND: 13, TAD: NoPin, DTD: 12,
		DT0: 31, DT1: 32, DT2: 33, DT3: 36, DT4: 35, DT5: 38, DT6: 37, DT7: 40,
		DP:  29,
		ATN: 15, RST: 22, ACK: 19, REQ: 26, MSG: 21, CD: 23, IO: 16, BSY: 18, SEL: 24,
	},
}

// Gamernium mirrors Fullspec's direction-control layout and shares its
// physical pin assignment.
var Gamernium = Descriptor{
	Name: "GAMERNIUM",
	Tag:  TagGamernium,
	Mode: ScsiLogic,
	Pol: ControlPolarity{
		ActOn: High,
		EnbOn: High,
		IndIn: Low,
		TadIn: Low,
		DtdIn: High,
	},
	Pins: Fullspec.Pins,
}

// VirtualBoard is used with the shared-memory backend: polarity is
// positive logic throughout since nothing in the virtual bus has an
// electrical inversion to model, and every pin is wired (there are no
// missing transceivers in software). Unlike the hardware boards, its pin
// numbers are not physical header positions — there is no header — so
// they are assigned compactly starting at 0, which matters because the
// virtual backend's shared word is only 32 bits wide (see pinio/vbus);
// reusing a hardware board's physical-pin numbering here would put ACK
// (pin 40 on Fullspec) outside that range.
var VirtualBoard = Descriptor{
	Name: "VIRTUAL",
	Tag:  TagVirtual,
	Mode: PositiveConverter,
	Pol: ControlPolarity{
		ActOn: High,
		EnbOn: High,
		IndIn: Low,
		TadIn: Low,
		DtdIn: High,
	},
	Pins: Pins{
		ACT: 0, ENB: 1, IND: 2, TAD: 3, DTD: 4,
		DT0: 5, DT1: 6, DT2: 7, DT3: 8, DT4: 9, DT5: 10, DT6: 11, DT7: 12,
		DP:  13,
		ATN: 14, RST: 15, ACK: 16, REQ: 17, MSG: 18, CD: 19, IO: 20, BSY: 21, SEL: 22,
	},
}

// ByTag looks up a Descriptor by its Tag. ok is false for Invalid or any
// unknown tag.
func ByTag(t Tag) (Descriptor, bool) {
	switch t {
	case TagStandard:
		return Standard, true
	case TagFullspec:
		return Fullspec, true
	case TagAibom:
		return Aibom, true
	case TagGamernium:
		return Gamernium, true
	case TagVirtual:
		return VirtualBoard, true
	default:
		return Descriptor{}, false
	}
}
