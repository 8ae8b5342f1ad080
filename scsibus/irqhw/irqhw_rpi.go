//go:build rpi

package irqhw

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"devicecode-go/internal/socbase"
)

// On Pi4-class boards (BCM2711) the GIC-400 CPU interface priority mask
// register blocks every interrupt when written to 0; on earlier boards
// there is no GIC and the ARM local timer IRQ is disabled per-core
// instead, at the ARM local interrupt controller window next to the
// system timer.
const (
	gicCPUInterfaceOffset = 0x0000B000 // relative to the Pi4 GIC base, not soc base
	gicPMROffset           = 0x04 / 4   // GICC_PMR, word index

	localIRQOffset = 0x40000 // ARM local interrupt controller, BCM2835 "QA7" peripherals
	localTimerIRQCtrl0 = 0x40 / 4
)

// New inspects the device tree to pick GIC vs legacy masking and returns
// a ready Controller. Falls back to Noop if neither is mappable — IRQ
// masking is a latency optimization the handshake can do without.
func New() Controller {
	compat, err := os.ReadFile("/proc/device-tree/compatible")
	if err == nil && containsAny(compat, "bcm2711", "bcm2838") {
		if c, err := newGIC(); err == nil {
			return c
		}
	}
	if c, err := newLegacy(); err == nil {
		return c
	}
	return Noop{}
}

func containsAny(haystack []byte, needles ...string) bool {
	s := string(haystack)
	for _, n := range needles {
		if indexOf(s, n) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

type gicController struct {
	pmr *uint32
}

// gicBase is the Pi4's fixed physical GIC-400 distributor+CPU-interface
// base; unlike the peripheral block it is not derived from the device
// tree ranges property.
const gicBase = 0xFF840000

func newGIC() (*gicController, error) {
	mem, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer mem.Close()

	data, err := unix.Mmap(int(mem.Fd()), int64(gicBase+gicCPUInterfaceOffset), unix.Getpagesize(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	words := unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
	return &gicController{pmr: &words[gicPMROffset]}, nil
}

// Disable writes the CPU interface priority mask to 0, which blocks
// every interrupt regardless of its priority.
func (g *gicController) Disable() { *g.pmr = 0 }

// Enable restores the mask that admits every priority level.
func (g *gicController) Enable() { *g.pmr = 0xFF }

type legacyController struct {
	ctrl *uint32
}

func newLegacy() (*legacyController, error) {
	base, err := socbase.Read()
	if err != nil {
		return nil, err
	}
	mem, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer mem.Close()

	data, err := unix.Mmap(int(mem.Fd()), int64(base+localIRQOffset), unix.Getpagesize(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	words := unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
	return &legacyController{ctrl: &words[localTimerIRQCtrl0]}, nil
}

// Disable clears the core timer IRQ enable bits for this core.
func (l *legacyController) Disable() { *l.ctrl = 0 }

// Enable restores the core timer IRQ enable bit (physical IRQ, bit 0).
func (l *legacyController) Enable() { *l.ctrl = 1 }

var (
	_ Controller = (*gicController)(nil)
	_ Controller = (*legacyController)(nil)
)
