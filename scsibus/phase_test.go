package scsibus

import "testing"

func TestDerivePhaseTable(t *testing.T) {
	cases := []struct {
		name string
		s    Signals
		want Phase
	}{
		{"msgin", Signals{BSY: true, MSG: true, CD: true, IO: true}, MsgIn},
		{"datain", Signals{BSY: true, MSG: false, CD: false, IO: true}, DataIn},
		{"busfree-regardless", Signals{BSY: false, MSG: true, CD: true, IO: true}, BusFree},
		{"selection", Signals{SEL: true, IO: false}, Selection},
		{"reselection", Signals{SEL: true, IO: true}, Reselection},
		{"dataout", Signals{BSY: true}, DataOut},
		{"command", Signals{BSY: true, CD: true}, Command},
		{"status", Signals{BSY: true, CD: true, IO: true}, Status},
		{"msgout", Signals{BSY: true, MSG: true, CD: true}, MsgOut},
		{"reserved-4", Signals{BSY: true, MSG: true, IO: false, CD: false}, Reserved},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Derive(c.s); got != c.want {
				t.Fatalf("Derive(%+v) = %v, want %v", c.s, got, c.want)
			}
		})
	}
}

func TestDeriveReservedEntries(t *testing.T) {
	// mci 4 and 5 (MSG=1, CD=0, IO=0/1) are Reserved per the canonical table.
	for _, s := range []Signals{
		{BSY: true, MSG: true, CD: false, IO: false},
		{BSY: true, MSG: true, CD: false, IO: true},
	} {
		if got := Derive(s); got != Reserved {
			t.Fatalf("Derive(%+v) = %v, want Reserved", s, got)
		}
	}
}

func TestCDBLengthDecode(t *testing.T) {
	cases := map[byte]int{
		0x00: 6,
		0x12: 6,
		0x1F: 6,
		0x20: 10,
		0x28: 10,
		0x7D: 10,
		0x05: 10,
		0xA0: 12,
		0x88: 16,
		0x8A: 16,
		0x8F: 16,
		0x91: 16,
		0x9E: 16,
		0x9F: 16,
		0xFF: 6,
	}
	for opcode, want := range cases {
		if got := cdbLength(opcode); got != want {
			t.Fatalf("cdbLength(%#x) = %d, want %d", opcode, got, want)
		}
	}
}
