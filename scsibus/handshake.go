package scsibus

import (
	"devicecode-go/canon"
	"devicecode-go/systimer"
)

// handshakeTimeoutUs is HANDSHAKE_TIMEOUT expressed in the unit
// waitSignal's free-running counter uses, so the comparison is a single
// unsigned subtraction with no division in the hot loop.
const handshakeTimeoutUs = uint32(systimer.HandshakeTimeout / 1000)

// waitSignal blocks until bit reads as desired, RST is asserted, or
// HANDSHAKE_TIMEOUT elapses — the single suspension point named in §5
// besides sleep_ns/sleep_us. It re-acquires the bus every iteration so
// the caller always sees a fresh sample once it returns true.
func (b *Bus) waitSignal(bit int, desired bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.clock.NowUs()
	for {
		if _, err := b.acquireLocked(); err != nil {
			return false
		}
		if canon.Get(b.signals, canon.BitRST) {
			return false
		}
		if canon.Get(b.signals, bit) == desired {
			return true
		}
		if b.clock.NowUs()-start >= handshakeTimeoutUs {
			return false
		}
	}
}

// readByte performs one REQ/ACK edge pair and returns the byte sampled
// mid-handshake. Target and Initiator use the mirrored edge order the
// source calls out in §4.4: Target asserts REQ and waits for ACK;
// Initiator waits for REQ and asserts ACK.
func (b *Bus) readByte() (ok bool, v byte) {
	if b.mode == Initiator {
		if !b.waitSignal(canon.BitREQ, true) {
			return false, 0
		}
		b.clock.SleepNs(systimer.BusSettleDelay)
		v = b.GetDAT()
		b.SetACK(true)
		if !b.waitSignal(canon.BitREQ, false) {
			b.SetACK(false)
			return false, v
		}
		b.SetACK(false)
		return true, v
	}

	b.SetREQ(true)
	if !b.waitSignal(canon.BitACK, true) {
		return false, 0
	}
	b.clock.SleepNs(systimer.BusSettleDelay)
	v = b.GetDAT()
	b.SetREQ(false)
	if !b.waitSignal(canon.BitACK, false) {
		return false, v
	}
	return true, v
}

// writeByte is readByte's mirror for driving a byte onto the bus.
func (b *Bus) writeByte(v byte) bool {
	if b.mode == Initiator {
		if !b.waitSignal(canon.BitREQ, true) {
			return false
		}
		b.SetDAT(v)
		b.clock.SleepNs(systimer.DeskewDelay)
		b.SetACK(true)
		if !b.waitSignal(canon.BitREQ, false) {
			b.SetACK(false)
			return false
		}
		b.SetACK(false)
		return true
	}

	b.SetDAT(v)
	b.clock.SleepNs(systimer.DeskewDelay)
	b.SetREQ(true)
	if !b.waitSignal(canon.BitACK, true) {
		return false
	}
	b.clock.SleepNs(systimer.HoldTime)
	b.SetREQ(false)
	return b.waitSignal(canon.BitACK, false)
}

// cdbLength decodes the expected CDB length from the first opcode byte,
// per the table in §4.4.
func cdbLength(opcode byte) int {
	switch opcode {
	case 0x88, 0x8A, 0x8F, 0x91, 0x9E, 0x9F:
		return 16
	case 0xA0:
		return 12
	case 0x05:
		return 10
	}
	if opcode >= 0x20 && opcode <= 0x7D {
		return 10
	}
	return 6
}

// icdEscape is the ACSI-over-SCSI prefix byte that must be consumed and
// discarded before the real command opcode.
const icdEscape = 0x1F

// CommandHandshake receives a CDB from the initiator (Target mode only).
// It masks IRQs for the duration, discards a single leading ICD escape
// byte if present, decodes the expected length from the real opcode, and
// returns the number of bytes actually received — which is less than the
// expected length if the initiator stops acknowledging partway through.
func (b *Bus) CommandHandshake(buf *[16]byte) int {
	b.irq.Disable()
	defer b.irq.Enable()

	ok, first := b.readByte()
	if !ok {
		return 0
	}
	if first == icdEscape {
		ok, first = b.readByte()
		if !ok {
			return 0
		}
	}
	buf[0] = first
	want := cdbLength(first)

	for i := 1; i < want; i++ {
		ok, v := b.readByte()
		if !ok {
			return i
		}
		buf[i] = v
	}
	return want
}

// ReceiveHandshake reads count bytes, checking after every byte that the
// bus phase has not changed out from under the transfer (§4.4: "the phase
// must remain DataOut throughout"). It returns early, with the count of
// bytes successfully received, on timeout, RST, or a phase mismatch.
func (b *Bus) ReceiveHandshake(buf []byte, count int) int {
	b.irq.Disable()
	defer b.irq.Enable()

	if count == 0 {
		return 0
	}
	wantPhase := b.Phase()
	for i := 0; i < count; i++ {
		ok, v := b.readByte()
		if !ok {
			return i
		}
		buf[i] = v
		if b.Phase() != wantPhase {
			return i + 1
		}
	}
	return count
}

// SendHandshake writes count bytes from buf. If delayAfterBytes is >= 0,
// a SEND_DATA_INTER_CHUNK_US pause is inserted immediately before driving
// the byte at that index — some emulated devices expect a quiet period
// after a fixed-size header. delayAfterBytes == -1 means no delay.
func (b *Bus) SendHandshake(buf []byte, count int, delayAfterBytes int) int {
	b.irq.Disable()
	defer b.irq.Enable()

	for i := 0; i < count; i++ {
		if delayAfterBytes >= 0 && i == delayAfterBytes {
			b.clock.SleepUs(systimer.SendDataInterChunkUs)
		}
		if !b.writeByte(buf[i]) {
			return i
		}
	}
	return count
}
