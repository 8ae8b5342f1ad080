package canon

import "testing"

func TestSetGetRoundTrip(t *testing.T) {
	var w uint32
	w = Set(w, BitREQ, true)
	w = Set(w, BitACK, false)
	if !Get(w, BitREQ) {
		t.Fatalf("REQ should be set")
	}
	if Get(w, BitACK) {
		t.Fatalf("ACK should be clear")
	}
}

func TestDataRoundTrip(t *testing.T) {
	for _, b := range []uint8{0x00, 0x01, 0x80, 0xFF, 0x55, 0xAA} {
		w := WithData(0, b)
		if got := Data(w); got != b {
			t.Fatalf("Data(WithData(0, %#x)) = %#x", b, got)
		}
	}
}

func TestWithDataPreservesOtherBits(t *testing.T) {
	w := Set(0, BitBSY, true)
	w = WithData(w, 0xFF)
	if !Get(w, BitBSY) {
		t.Fatalf("BSY bit clobbered by WithData")
	}
	if Data(w) != 0xFF {
		t.Fatalf("data field not set")
	}
}

func TestOddParity(t *testing.T) {
	cases := map[uint8]bool{
		0x00: true,  // 0 bits set -> need parity bit to make it odd
		0x01: false, // 1 bit set -> already odd
		0x03: true,  // 2 bits
		0x07: false, // 3 bits
		0xFF: true,  // 8 bits -> even, parity bit must be 1
	}
	for b, want := range cases {
		if got := OddParity(b); got != want {
			t.Fatalf("OddParity(%#x) = %v, want %v", b, got, want)
		}
	}
}
