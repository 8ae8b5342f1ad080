//go:build rpi

// Package rpi provides the hardware Pin I/O Backend: the mmapped GPIO
// function-select/set/clear/level register window, plus the precomputed
// lookup tables set_dat needs to write an 8-bit data byte in a fixed
// small number of stores regardless of which physical pins the board
// wires the data bus to.
package rpi

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"devicecode-go/board"
	"devicecode-go/errcode"
	"devicecode-go/internal/socbase"
	"devicecode-go/pinio"
)

// GPIO peripheral offsets and word indices (BCM2835 ARM Peripherals, §6).
const (
	gpioOffset  = 0x200000
	gpioRegSize = 0xB4 // through GPPUDCLK1 plus padding

	gpfsel0 = 0x00 / 4 // GPFSEL0..5, 10 pins each, 3 bits/pin
	gpset0  = 0x1C / 4 // GPSET0/1, write-1-to-set
	gpclr0  = 0x28 / 4 // GPCLR0/1, write-1-to-clear
	gplev0  = 0x34 / 4 // GPLEV0/1, read-only level

	gppud     = 0x94 / 4 // pull up/down enable (BCM2835-style, pre-2711)
	gppudclk0 = 0x98 / 4
)

const (
	fselInput  = 0b000
	fselOutput = 0b001
)

// Backend drives GPIO through the mmapped register window. GPFSEL state
// is cached so pin_config on one pin does not require re-reading the
// function-select word for its neighbours.
type Backend struct {
	mu   sync.Mutex
	regs []uint32

	// fselShadow mirrors the six GPFSEL words so pin_config can read-
	// modify-write without a register read.
	fselShadow [6]uint32

	// dataPins is the board's eight data-bus pin numbers, in bit order;
	// set via SetDataPins before the lookup tables are usable.
	dataPins [8]board.Pin

	// setTable/clrTable map an 8-bit data byte to the GPSET0/GPCLR0 write
	// masks that drive exactly that byte onto dataPins, one store each.
	setTable [256]uint32
	clrTable [256]uint32
}

// New opens /dev/mem, maps the GPIO register window, and returns a ready
// Backend with every pin left in whatever state the bootloader left it;
// callers must PinConfig before use.
func New() (*Backend, error) {
	base, err := socbase.Read()
	if err != nil {
		return nil, errcode.New(errcode.BackendUnavailable, "rpi.New", "soc base lookup failed", err)
	}
	mem, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, errcode.New(errcode.BackendUnavailable, "rpi.New", "/dev/mem open failed", err)
	}
	defer mem.Close()

	data, err := unix.Mmap(int(mem.Fd()), int64(base+gpioOffset), gpioRegSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errcode.New(errcode.BackendUnavailable, "rpi.New", "gpio mmap failed", err)
	}
	regs := unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)

	b := &Backend{regs: regs}
	for i := range b.fselShadow {
		b.fselShadow[i] = regs[gpfsel0+i]
	}
	return b, nil
}

// SetDataPins records the board's data-bus pin assignment and rebuilds
// the set_dat lookup tables. Must be called once before PinSet-driven
// data writes; scsibus does this at bus init from the Board Descriptor.
func (b *Backend) SetDataPins(pins [8]board.Pin) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dataPins = pins
	b.setTable, b.clrTable = buildDatTables(pins)
}

// SetDat drives the eight data pins to b's bits in exactly one GPSET0
// store and one GPCLR0 store, regardless of the board's pin scatter.
func (b *Backend) SetDat(v uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regs[gpset0] = b.setTable[v]
	b.regs[gpclr0] = b.clrTable[v]
}

// fselWord takes a BCM GPIO number (already translated via GpioFor, never
// a physical header pin) and returns its GPFSELn word index and 3-bit
// field shift.
func fselWord(gpio int) (word, shift int) {
	word = gpio / 10
	shift = (gpio % 10) * 3
	return
}

func (b *Backend) PinConfig(pin board.Pin, dir pinio.Direction) error {
	gpio, ok := GpioFor(pin)
	if !ok {
		return fmt.Errorf("rpi: pin %d has no GPIO mapping", pin)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	word, shift := fselWord(gpio)
	fsel := fselInput
	if dir == pinio.Output {
		fsel = fselOutput
	}
	b.fselShadow[word] = (b.fselShadow[word] &^ (0b111 << shift)) | (uint32(fsel) << shift)
	b.regs[gpfsel0+word] = b.fselShadow[word]
	return nil
}

func (b *Backend) PullConfig(pin board.Pin, pull pinio.Pull) error {
	gpio, ok := GpioFor(pin)
	if !ok {
		return fmt.Errorf("rpi: pin %d has no GPIO mapping", pin)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var code uint32
	switch pull {
	case pinio.PullUp:
		code = 0b10
	case pinio.PullDown:
		code = 0b01
	default:
		code = 0b00
	}
	clkReg := gppudclk0
	bitPos := uint(gpio)
	if gpio >= 32 {
		clkReg++
		bitPos -= 32
	}
	b.regs[gppud] = code
	b.regs[clkReg] = 1 << bitPos
	b.regs[gppud] = 0
	b.regs[clkReg] = 0
	return nil
}

func (b *Backend) PinSet(pin board.Pin, level board.Level) error {
	gpio, ok := GpioFor(pin)
	if !ok {
		return fmt.Errorf("rpi: pin %d has no GPIO mapping", pin)
	}
	reg := gpset0
	if level == board.Low {
		reg = gpclr0
	}
	if gpio >= 32 {
		reg++
	}
	b.mu.Lock()
	b.regs[reg] = 1 << (uint(gpio) % 32)
	b.mu.Unlock()
	return nil
}

// Acquire reads GPLEV0 (GPIO 0-31) in a single load; GPLEV is a plain
// register read with no read-modify-write hazard, so the word is
// consistent across all 32 pins.
func (b *Backend) Acquire() (uint32, error) {
	b.mu.Lock()
	v := b.regs[gplev0]
	b.mu.Unlock()
	return v, nil
}

// DriveStrength is a no-op on this backend: it does not program any
// pad-control register and always returns nil.
func (b *Backend) DriveStrength(int) error { return nil }

// Close returns nil without unmapping the register window; the mapping
// stays in place for the life of the process.
func (b *Backend) Close() error { return nil }

var _ pinio.Backend = (*Backend)(nil)
