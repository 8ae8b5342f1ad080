package loopback

import (
	"fmt"

	"devicecode-go/board"
	"devicecode-go/pinio"
	"devicecode-go/pinio/rpi"
)

// Tester drives pins directly through a pinio.Backend, bypassing the Bus
// Engine's phase/handshake logic entirely — the loopback cable under
// test connects raw signal pins to each other, not to another SCSI
// device, so there is no phase to observe.
type Tester struct {
	pins  pinio.Backend
	board board.Descriptor
	conns []Connection
	named map[string]board.Pin
}

// NewTester builds a Tester for desc's pin assignment over pins, which
// must already be Init'd (ENB enabled, if the board has one) by the
// caller.
func NewTester(pins pinio.Backend, desc board.Descriptor) *Tester {
	return &Tester{
		pins:  pins,
		board: desc,
		conns: ConnectionTable(desc.Pins),
		named: namedPins(desc.Pins),
	}
}

// Connections returns the table this Tester will exercise.
func (t *Tester) Connections() []Connection { return t.conns }

func (t *Tester) configure(pin board.Pin, dir pinio.Direction) {
	if pin == board.NoPin {
		return
	}
	_ = t.pins.PinConfig(pin, dir)
	_ = t.pins.PullConfig(pin, pinio.PullNone)
}

func (t *Tester) set(pin board.Pin, lvl board.Level) {
	if pin == board.NoPin {
		return
	}
	_ = t.pins.PinSet(pin, lvl)
}

// bitPos translates pin into the bit position it actually occupies in a
// word returned by t.pins.Acquire(). The virtual backend's word already
// uses board.Pin's own numbering directly, but the hardware backend's raw
// word comes straight off the GPLEV register, which is indexed by BCM
// GPIO number, not physical header pin — so on real hardware pin must go
// through the same phys-to-GPIO translation pinio/rpi applies for
// register writes (see tables.go's GpioFor). ok is false for board.NoPin
// or a physical pin with no GPIO mapping.
func (t *Tester) bitPos(pin board.Pin) (int, bool) {
	if pin == board.NoPin {
		return 0, false
	}
	if t.board.Tag == board.TagVirtual {
		return int(pin), true
	}
	return rpi.GpioFor(pin)
}

func (t *Tester) read(raw uint32, pin board.Pin) board.Level {
	bit, ok := t.bitPos(pin)
	if !ok {
		return board.Low
	}
	if raw&(1<<uint(bit)) != 0 {
		return board.High
	}
	return board.Low
}

// setOutputChannel selects which one of IND/TAD/DTD drives its group of
// signal pins from this side; the other two are set to their own "in"
// polarity. Passing board.NoPin selects none (all three set to input).
func (t *Tester) setOutputChannel(which board.Pin) {
	for _, group := range []struct {
		pin    board.Pin
		inAt   board.Level
	}{
		{t.board.Pins.IND, t.board.Pol.IndIn},
		{t.board.Pins.TAD, t.board.Pol.TadIn},
		{t.board.Pins.DTD, t.board.Pol.DtdIn},
	} {
		if group.pin == board.NoPin {
			continue
		}
		if group.pin == which {
			t.set(group.pin, board.Invert(group.inAt))
		} else {
			t.set(group.pin, group.inAt)
		}
	}
}

// loopbackSetup configures every signal pin in the connection table, plus
// any direction-control pins present, as outputs ready to drive.
func (t *Tester) loopbackSetup() {
	for _, c := range t.conns {
		t.configure(c.ThisPin, pinio.Output)
	}
	for _, p := range []board.Pin{t.board.Pins.IND, t.board.Pins.TAD, t.board.Pins.DTD} {
		t.configure(p, pinio.Output)
	}
}

// RunLoopbackTest drives each connection's ThisPin low then high, in turn.
// While the target is low, its ConnectedPin must mirror it and every other
// pin in the table must stay at its idle high level; with the
// transceivers then flipped to input, the target must still read its own
// level (self-read) while everything else, including ConnectedPin, reads
// idle; driving the target back high simply returns the whole table to
// idle with no mirroring expected. It returns one message per mismatch.
func (t *Tester) RunLoopbackTest() []string {
	var errs []string
	var adapterMissing = true
	t.loopbackSetup()

	for _, target := range t.conns {
		t.testPin(target, &errs, &adapterMissing)
	}

	if adapterMissing {
		errs = append(errs, "all loop-backed signals failed: is the loopback adapter missing?")
	}
	return errs
}

func (t *Tester) testPin(target Connection, errs *[]string, adapterMissing *bool) {
	t.setOutputChannel(target.DirCtrlPin)

	for _, c := range t.conns {
		t.configure(c.ThisPin, pinio.Input)
	}

	// Drive the target pin low and check every pin's response.
	t.configure(target.ThisPin, pinio.Output)
	t.set(target.ThisPin, board.Low)
	raw, _ := t.pins.Acquire()
	t.checkPhase(target, raw, board.Low, true, errs, adapterMissing)

	// Flip every transceiver to input; the driven pin should still read
	// its own level (self-read), and nothing else should be affected.
	t.setOutputChannel(board.NoPin)
	raw, _ = t.pins.Acquire()
	t.checkPhase(target, raw, board.Low, false, errs, nil)

	// Drive the target pin high; the whole table, including the
	// connected pin, should settle back to idle.
	t.setOutputChannel(target.DirCtrlPin)
	t.set(target.ThisPin, board.High)
	raw, _ = t.pins.Acquire()
	t.checkPhase(target, raw, board.High, false, errs, nil)
}

// checkPhase checks one acquired sample against target: ThisPin must read
// drove, ConnectedPin must mirror it when mirrorConnected is set, and
// every other pin in the table must read idle high. adapterMissing, when
// non-nil, is cleared the first time a mirror check actually passes.
func (t *Tester) checkPhase(target Connection, raw uint32, drove board.Level, mirrorConnected bool, errs *[]string, adapterMissing *bool) {
	for _, c := range t.conns {
		got := t.read(raw, c.ThisPin)
		switch {
		case c.ThisPin == target.ThisPin:
			if got != drove {
				*errs = append(*errs, fmt.Sprintf("loopback: commanded %s to %s, but it did not respond", c.Name, drove))
			}
		case mirrorConnected && c.ThisPin == target.ConnectedPin:
			if got != drove {
				*errs = append(*errs, fmt.Sprintf("loopback: %s should be driven %s by %s, but did not respond", c.Name, drove, target.Name))
			} else if adapterMissing != nil {
				*adapterMissing = false
			}
		default:
			if got != board.High {
				*errs = append(*errs, fmt.Sprintf("loopback: %s was unexpectedly affected by testing %s", c.Name, target.Name))
			}
		}
	}
}

// datInputSetup configures every signal pin as output except the eight
// data pins, which become inputs, and selects DTD-in/TAD-out/IND-out so
// the tester drives the control-signal side and reads the data bus back.
func (t *Tester) datInputSetup() {
	for _, c := range t.conns {
		t.configure(c.ThisPin, pinio.Output)
	}
	for _, p := range t.board.Pins.DataPins() {
		t.configure(p, pinio.Input)
	}
	for _, p := range []board.Pin{t.board.Pins.IND, t.board.Pins.TAD, t.board.Pins.DTD} {
		t.configure(p, pinio.Output)
	}
	t.set(t.board.Pins.DTD, t.board.Pol.DtdIn)
	t.set(t.board.Pins.TAD, board.Invert(t.board.Pol.TadIn))
	t.set(t.board.Pins.IND, board.Invert(t.board.Pol.IndIn))
}

// datOutputSetup is the mirror of datInputSetup: the data pins become
// outputs and every control signal an input, so the tester drives DAT and
// reads the control-signal group's echo.
func (t *Tester) datOutputSetup() {
	for _, c := range t.conns {
		t.configure(c.ThisPin, pinio.Input)
	}
	for _, p := range t.board.Pins.DataPins() {
		t.configure(p, pinio.Output)
	}
	for _, p := range []board.Pin{t.board.Pins.IND, t.board.Pins.TAD, t.board.Pins.DTD} {
		t.configure(p, pinio.Output)
	}
	t.set(t.board.Pins.DTD, board.Invert(t.board.Pol.DtdIn))
	t.set(t.board.Pins.TAD, t.board.Pol.TadIn)
	t.set(t.board.Pins.IND, t.board.Pol.IndIn)
}

func (t *Tester) setDatInputsLoop(v uint8) {
	t.set(t.board.Pins.ACK, levelOfBit(v, 0))
	t.set(t.board.Pins.SEL, levelOfBit(v, 1))
	t.set(t.board.Pins.ATN, levelOfBit(v, 2))
	t.set(t.board.Pins.RST, levelOfBit(v, 3))
	t.set(t.board.Pins.CD, levelOfBit(v, 4))
	t.set(t.board.Pins.IO, levelOfBit(v, 5))
	t.set(t.board.Pins.MSG, levelOfBit(v, 6))
	t.set(t.board.Pins.REQ, levelOfBit(v, 7))
}

func levelOfBit(v uint8, bit int) board.Level {
	if v&(1<<uint(bit)) != 0 {
		return board.High
	}
	return board.Low
}

func (t *Tester) bitOfLevel(raw uint32, pin board.Pin, bit int) uint8 {
	b, ok := t.bitPos(pin)
	if !ok {
		return 0
	}
	if raw&(1<<uint(b)) != 0 {
		return 1 << uint(bit)
	}
	return 0
}

func (t *Tester) getDatOutputsLoop(raw uint32) uint8 {
	var v uint8
	v |= t.bitOfLevel(raw, t.board.Pins.ACK, 0)
	v |= t.bitOfLevel(raw, t.board.Pins.SEL, 1)
	v |= t.bitOfLevel(raw, t.board.Pins.ATN, 2)
	v |= t.bitOfLevel(raw, t.board.Pins.RST, 3)
	v |= t.bitOfLevel(raw, t.board.Pins.CD, 4)
	v |= t.bitOfLevel(raw, t.board.Pins.IO, 5)
	v |= t.bitOfLevel(raw, t.board.Pins.MSG, 6)
	v |= t.bitOfLevel(raw, t.board.Pins.REQ, 7)
	return v
}

func (t *Tester) rawDat(raw uint32) uint8 {
	var v uint8
	for i, p := range t.board.Pins.DataPins() {
		bit, ok := t.bitPos(p)
		if !ok {
			continue
		}
		if raw&(1<<uint(bit)) != 0 {
			v |= 1 << uint(i)
		}
	}
	return v
}

func (t *Tester) setDat(v uint8) {
	for i, p := range t.board.Pins.DataPins() {
		t.set(p, levelOfBit(v, i))
	}
}

// RunDataInputTest cycles all 256 byte values onto the control-signal
// group and checks the data bus reads each one back, one message per
// mismatch.
func (t *Tester) RunDataInputTest() []string {
	var errs []string
	t.datInputSetup()
	for val := 0; val <= 0xFF; val++ {
		t.setDatInputsLoop(uint8(val))
		raw, _ := t.pins.Acquire()
		if got := t.rawDat(raw); got != uint8(val) {
			errs = append(errs, fmt.Sprintf("data inputs: expected value %d but got %d", val, got))
		}
	}
	t.setDatInputsLoop(0)
	return errs
}

// RunDataOutputTest is RunDataInputTest's mirror: it drives DAT and reads
// the control-signal group's echo.
func (t *Tester) RunDataOutputTest() []string {
	var errs []string
	t.datOutputSetup()
	for val := 0; val <= 0xFF; val++ {
		t.setDat(uint8(val))
		raw, _ := t.pins.Acquire()
		if got := t.getDatOutputsLoop(raw); got != uint8(val) {
			errs = append(errs, fmt.Sprintf("data outputs: expected value %d but got %d", val, got))
		}
	}
	return errs
}

// Cleanup releases the underlying backend.
func (t *Tester) Cleanup() { _ = t.pins.Close() }
