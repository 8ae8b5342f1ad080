package scsibus

import (
	"os"

	"devicecode-go/board"
	"devicecode-go/errcode"
	"devicecode-go/pinio/rpi"
	"devicecode-go/pinio/vbus"
	"devicecode-go/scsibus/irqhw"
	"devicecode-go/systimer"
	systimerrpi "devicecode-go/systimer/rpi"
	"devicecode-go/x/strx"
)

// Open is the Bus factory (§6 `create`): it inspects the host for GPIO
// hardware access and picks the hardware or virtual backend accordingly,
// loads the requested board, wires up the matching clock and IRQ
// controller, and returns an initialized Bus.
//
// tag == board.TagVirtual always selects the virtual backend regardless
// of host capability, so tests and the simulator can force it even on a
// real Pi. vbusName names the shared-memory segment the virtual backend
// binds to; it is ignored for the hardware path.
func Open(mode Mode, tag board.Tag, vbusName string) (*Bus, error) {
	desc, ok := board.ByTag(tag)
	if !ok {
		return nil, errcode.New(errcode.InvalidBoard, "scsibus.Open", "unknown board tag", nil)
	}

	if tag != board.TagVirtual && hardwareAvailable() {
		bus, err := openHardware(mode, desc)
		if err == nil {
			return bus, nil
		}
		// Fall through to the virtual backend only when no hardware was
		// actually reachable; a real mmap/mailbox failure on a host that
		// claims hardware capability is a genuine BackendUnavailable.
		if errcode.Of(err) != errcode.BackendUnavailable {
			return nil, err
		}
	}

	return openVirtual(mode, desc, vbusName)
}

// OpenVirtual always binds the virtual backend, regardless of host
// capability, using board.VirtualBoard's pin assignment. It is the
// simulator's entry point: the simulator must hold the virtual bus open
// even on a machine with real GPIO hardware, since its job is to be the
// shared-memory segment's primary owner, not to drive physical pins.
func OpenVirtual(mode Mode, vbusName string) (*Bus, error) {
	return openVirtual(mode, board.VirtualBoard, vbusName)
}

// hardwareAvailable reports whether this host exposes the GPIO memory
// device the hardware backend needs. It does not guarantee the mapping
// will succeed (permissions can still fail), only that it is worth
// trying before falling back to the virtual bus.
func hardwareAvailable() bool {
	for _, p := range []string{"/dev/gpiomem", "/dev/mem"} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func openHardware(mode Mode, desc board.Descriptor) (*Bus, error) {
	pins, err := rpi.New()
	if err != nil {
		return nil, err
	}
	clock, err := systimerrpi.New()
	if err != nil {
		_ = pins.Close()
		return nil, errcode.New(errcode.BackendUnavailable, "scsibus.openHardware", "system timer init failed", err)
	}
	irq := NewNestingIRQ(irqhw.New())
	b := New(mode, desc, pins, clock, irq)
	if err := b.Init(); err != nil {
		b.Cleanup()
		return nil, err
	}
	return b, nil
}

func openVirtual(mode Mode, desc board.Descriptor, name string) (*Bus, error) {
	pins, err := vbus.Open(strx.Coalesce(name, "scsibus-virtual"))
	if err != nil {
		return nil, err
	}
	clock := systimer.NewHostClock()
	irq := NewNestingIRQ(irqhw.Noop{})
	b := New(mode, desc, pins, clock, irq)
	if err := b.Init(); err != nil {
		b.Cleanup()
		return nil, err
	}
	return b, nil
}
