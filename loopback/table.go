// Package loopback implements the Loopback Tester (C7): a self-test that
// drives pins one at a time through a known external loopback cable and
// asserts the wiring matches, cycles all 256 data values in both
// directions, and sanity-checks the System Timer's tolerance. It talks to
// a pinio.Backend directly rather than through scsibus.Bus, the same way
// the original loopback tool bypassed the handshake/phase machinery to
// reach raw pin state.
package loopback

import "devicecode-go/board"

// Connection is one entry in the Loopback Connection Table: driving
// ThisPin is expected to be echoed onto ConnectedPin once DirCtrlPin
// selects the transceiver carrying that pair.
type Connection struct {
	ThisPin      board.Pin
	ConnectedPin board.Pin
	DirCtrlPin   board.Pin
	Name         string // short signal name, for error messages
}

// connectionSpec is the fixed pairing of logical signals the external
// loopback cable wires together, independent of which physical pins a
// given board assigns them to.
type connectionSpec struct {
	this, connected string
	dirCtrl         string
}

var connectionSpecs = []connectionSpec{
	{"dt0", "ack", "dtd"},
	{"dt1", "sel", "dtd"},
	{"dt2", "atn", "dtd"},
	{"dt3", "rst", "dtd"},
	{"dt4", "cd", "dtd"},
	{"dt5", "io", "dtd"},
	{"dt6", "msg", "dtd"},
	{"dt7", "req", "dtd"},
	{"dp", "bsy", "dtd"},
	{"atn", "dt2", "ind"},
	{"rst", "dt3", "ind"},
	{"ack", "dt0", "ind"},
	{"sel", "dt1", "ind"},
	{"req", "dt7", "tad"},
	{"msg", "dt6", "tad"},
	{"cd", "dt4", "tad"},
	{"io", "dt5", "tad"},
	{"bsy", "dp", "tad"},
}

// namedPins maps short signal names to a board's pin assignment,
// mirroring the original tool's pin_name_lookup table built from whatever
// pins the active connection type defines.
func namedPins(p board.Pins) map[string]board.Pin {
	return map[string]board.Pin{
		"dt0": p.DT0, "dt1": p.DT1, "dt2": p.DT2, "dt3": p.DT3,
		"dt4": p.DT4, "dt5": p.DT5, "dt6": p.DT6, "dt7": p.DT7,
		"dp":  p.DP,
		"atn": p.ATN, "rst": p.RST, "ack": p.ACK, "req": p.REQ,
		"msg": p.MSG, "cd": p.CD, "io": p.IO, "bsy": p.BSY, "sel": p.SEL,
		"ind": p.IND, "tad": p.TAD, "dtd": p.DTD,
	}
}

// ConnectionTable builds the Loopback Connection Table for desc's pin
// assignment, skipping any entry whose direction-control pin the board
// doesn't wire (e.g. the Standard board has no IND/TAD/DTD transceivers).
func ConnectionTable(pins board.Pins) []Connection {
	named := namedPins(pins)
	out := make([]Connection, 0, len(connectionSpecs))
	for _, spec := range connectionSpecs {
		dirCtrl := named[spec.dirCtrl]
		if dirCtrl == board.NoPin {
			continue
		}
		out = append(out, Connection{
			ThisPin:      named[spec.this],
			ConnectedPin: named[spec.connected],
			DirCtrlPin:   dirCtrl,
			Name:         spec.this,
		})
	}
	return out
}
