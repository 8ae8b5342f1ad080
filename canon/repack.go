package canon

import "devicecode-go/board"

func bitAt(word uint32, pin board.Pin) bool {
	if pin == board.NoPin {
		return false
	}
	return word&(1<<uint(pin)) != 0
}

// FromPhysical repacks a positive-logic raw pin word — physical GPIO bit
// positions, already polarity-normalized by the caller — into the
// canonical board-independent layout using pins' physical assignment.
// This is what makes a trace captured on one board readable by tooling
// that only knows the canonical layout, never the board that produced
// it.
func FromPhysical(pins board.Pins, raw uint32) uint32 {
	var w uint32
	w = Set(w, BitBSY, bitAt(raw, pins.BSY))
	w = Set(w, BitSEL, bitAt(raw, pins.SEL))
	w = Set(w, BitCD, bitAt(raw, pins.CD))
	w = Set(w, BitIO, bitAt(raw, pins.IO))
	w = Set(w, BitMSG, bitAt(raw, pins.MSG))
	w = Set(w, BitREQ, bitAt(raw, pins.REQ))
	w = Set(w, BitACK, bitAt(raw, pins.ACK))
	w = Set(w, BitATN, bitAt(raw, pins.ATN))
	w = Set(w, BitRST, bitAt(raw, pins.RST))
	w = Set(w, BitDP, bitAt(raw, pins.DP))

	var data uint8
	for i, pin := range pins.DataPins() {
		if bitAt(raw, pin) {
			data |= 1 << uint(i)
		}
	}
	w = WithData(w, data)
	return w
}
