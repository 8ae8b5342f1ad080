package scsibus

import (
	"testing"

	"devicecode-go/board"
)

// testDesc is a compact board descriptor used only by these tests: small
// pin numbers keep the bit arithmetic easy to read, and PositiveConverter
// means acquireLocked never inverts, so fakeBackend's bits are exactly
// what the test sets.
var testDesc = board.Descriptor{
	Name: "TEST",
	Tag:  board.TagVirtual,
	Mode: board.PositiveConverter,
	Pol: board.ControlPolarity{
		ActOn: board.High, EnbOn: board.High, IndIn: board.Low, TadIn: board.Low, DtdIn: board.High,
	},
	Pins: board.Pins{
		ACT: 0, ENB: 1, IND: 2, TAD: 3, DTD: 4,
		DT0: 10, DT1: 11, DT2: 12, DT3: 13, DT4: 14, DT5: 15, DT6: 16, DT7: 17,
		DP:  18,
		ATN: 20, RST: 21, ACK: 22, REQ: 23, MSG: 24, CD: 25, IO: 26, BSY: 27, SEL: 29,
	},
}

func setDataBits(f *fakeBackend, v byte) {
	dt := testDesc.Pins.DataPins()
	for i, pin := range dt {
		m := uint32(1) << uint(pin)
		if v&(1<<uint(i)) != 0 {
			f.word |= m
		} else {
			f.word &^= m
		}
	}
}

func bitSet(w uint32, pin board.Pin) bool { return w&(1<<uint(pin)) != 0 }

// newTargetWithPeer builds a Target-mode Bus whose fakeBackend simulates
// an initiator sending bytes: REQ asserted with ACK not yet asserted
// causes the peer to drive the next byte and assert ACK; REQ deasserted
// with ACK asserted causes the peer to deassert ACK and advance.
// respondUpTo caps how many bytes the fake peer will acknowledge before
// it goes silent (simulating a peer that stops responding, or asserts
// RST instead when rstAfter >= 0).
func newTargetWithPeer(t *testing.T, bytes []byte, respondUpTo int, rstAfter int) (*Bus, *fakeBackend) {
	t.Helper()
	f := newFakeBackend()
	index := 0
	f.onAcquire = func(f *fakeBackend) {
		if rstAfter >= 0 && index >= rstAfter {
			f.word |= 1 << uint(testDesc.Pins.RST)
			return
		}
		if index >= respondUpTo {
			return
		}
		req := bitSet(f.word, testDesc.Pins.REQ)
		ack := bitSet(f.word, testDesc.Pins.ACK)
		switch {
		case req && !ack:
			if index < len(bytes) {
				setDataBits(f, bytes[index])
			}
			f.word |= 1 << uint(testDesc.Pins.ACK)
		case !req && ack:
			f.word &^= 1 << uint(testDesc.Pins.ACK)
			index++
		}
	}
	clock := &fakeClock{}
	bus := New(Target, testDesc, f, clock, NoopIRQ{})
	if err := bus.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return bus, f
}

func TestCommandHandshakeICDEscape(t *testing.T) {
	// E1: 0x1F escape then the real CDB.
	bus, _ := newTargetWithPeer(t, []byte{0x1F, 0x12, 0x00, 0x00, 0x00, 0x24, 0x00}, 7, -1)
	var buf [16]byte
	n := bus.CommandHandshake(&buf)
	if n != 6 {
		t.Fatalf("CommandHandshake returned %d, want 6", n)
	}
	want := []byte{0x12, 0x00, 0x00, 0x00, 0x24, 0x00}
	for i, b := range want {
		if buf[i] != b {
			t.Fatalf("buf[%d] = %#x, want %#x", i, buf[i], b)
		}
	}
}

func TestCommandHandshakeCDBLength(t *testing.T) {
	cases := []struct {
		opcode byte
		want   int
	}{
		{0x00, 6},  // TEST UNIT READY
		{0x28, 10}, // READ10
		{0xA0, 12}, // REPORT LUNS
		{0x88, 16}, // READ16
	}
	for _, c := range cases {
		cdb := make([]byte, c.want)
		cdb[0] = c.opcode
		bus, _ := newTargetWithPeer(t, cdb, len(cdb), -1)
		var buf [16]byte
		n := bus.CommandHandshake(&buf)
		if n != c.want {
			t.Fatalf("opcode %#x: CommandHandshake returned %d, want %d", c.opcode, n, c.want)
		}
	}
}

func TestReceiveHandshakeRSTAbort(t *testing.T) {
	// E4: RST asserted externally after 3 bytes.
	bytes := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xAA}
	bus, f := newTargetWithPeer(t, bytes, len(bytes), 3)
	buf := make([]byte, 10)
	n := bus.ReceiveHandshake(buf, 10)
	if n != 3 {
		t.Fatalf("ReceiveHandshake returned %d, want 3", n)
	}
	if !bitSet(f.word, testDesc.Pins.RST) {
		t.Fatalf("RST bit should remain asserted")
	}
	if !bus.GetRST() {
		t.Fatalf("GetRST() should report true after the abort")
	}
}

func TestCommandHandshakeTimeout(t *testing.T) {
	// Peer never responds at all: should return 0 within the timeout
	// rather than hang — fakeClock advances 1ms on every NowUs() poll, so
	// waitSignal crosses the 3s budget after about 3000 samples. The
	// onAcquire hook does nothing, so ACK is never asserted.
	f := newFakeBackend()
	f.onAcquire = func(f *fakeBackend) {}
	clock := &fakeClock{}
	bus := New(Target, testDesc, f, clock, NoopIRQ{})
	if err := bus.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var buf [16]byte
	n := bus.CommandHandshake(&buf)
	if n != 0 {
		t.Fatalf("CommandHandshake returned %d, want 0 on timeout", n)
	}
}
