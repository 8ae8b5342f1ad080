package rpi

import (
	"testing"

	"devicecode-go/board"
)

func TestBuildDatTablesRoundTrip(t *testing.T) {
	// Standard's DT0..DT7 physical header pins; GpioFor translates each to
	// GPIO 10, 11, 12, 13, 14, 15, 16, 17 respectively.
	pins := [8]board.Pin{19, 23, 32, 33, 8, 10, 36, 11}
	setTable, clrTable := buildDatTables(pins)

	for v := 0; v < 256; v++ {
		var got uint32
		for bitIdx, pin := range pins {
			gpio, _ := GpioFor(pin)
			if setTable[v]&(1<<uint(gpio)) != 0 {
				got |= 1 << uint(bitIdx)
			}
			if v&(1<<uint(bitIdx)) == 0 && clrTable[v]&(1<<uint(gpio)) == 0 {
				t.Fatalf("value %d: pin %d (gpio %d, bit %d) missing from clear table", v, pin, gpio, bitIdx)
			}
		}
		if got != uint32(v) {
			t.Fatalf("value %d: set table reconstructs %d", v, got)
		}
		if setTable[v]&clrTable[v] != 0 {
			t.Fatalf("value %d: set and clear masks overlap", v)
		}
	}
}

func TestBuildDatTablesSkipsNoPin(t *testing.T) {
	pins := [8]board.Pin{3, 5, board.NoPin, 8, 10, 11, 12, 13}
	setTable, _ := buildDatTables(pins)
	gpio0, _ := GpioFor(3)
	if setTable[0xFF]&(1<<uint(gpio0)) == 0 {
		t.Fatalf("expected bit 0 pin set for 0xFF")
	}
	// NoPin must never contribute a bit, and no set mask should ever use a
	// GPIO number above the highest one any board actually wires (27, the
	// GPIO behind physical pin 13).
	for v := 0; v < 256; v++ {
		if setTable[v] & ^uint32(1<<28-1) != 0 {
			t.Fatalf("value %d: set mask uses an unmapped GPIO bit: %#x", v, setTable[v])
		}
	}
}

func TestGpioForTranslatesPhysicalHeaderPins(t *testing.T) {
	cases := []struct {
		pin  board.Pin
		gpio int
	}{
		{19, 10},
		{37, 26},
		{3, 2},
		{40, 21},
	}
	for _, c := range cases {
		got, ok := GpioFor(c.pin)
		if !ok {
			t.Fatalf("GpioFor(%d): not ok", c.pin)
		}
		if got != c.gpio {
			t.Fatalf("GpioFor(%d) = %d, want %d", c.pin, got, c.gpio)
		}
	}
	if _, ok := GpioFor(board.NoPin); ok {
		t.Fatalf("GpioFor(NoPin) should not be ok")
	}
	if _, ok := GpioFor(2); ok {
		t.Fatalf("GpioFor(2): pin 2 is not a valid 40-pin header position, should not be ok")
	}
}
