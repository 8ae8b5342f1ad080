//go:build rpi

package rpi

import (
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"devicecode-go/internal/socbase"
)

// System Timer (STC) peripheral offsets (BCM2835 ARM Peripherals, §12). The
// STC is a fixed 1MHz free-running counter, independent of the core clock
// — SYST_CLO/SYST_CHI read out whole microseconds directly, no calibration
// needed.
const (
	stcOffset  = 0x3000
	stcCLOReg  = 0x04 / 4 // low 32 bits of the free-running counter, word index
	stcCHIReg  = 0x08 / 4
	stcRegSize = 0x1000
)

// ARM timer peripheral offsets and control bits. Unlike the STC, the ARM
// timer's free-running counter ticks at (a prescaled fraction of) the core
// clock, so its rate must be calibrated against the mailbox-reported clock
// frequency; in exchange it gives sub-microsecond resolution.
const (
	armtOffset     = 0xB400
	armtCtrlReg    = 0x08 / 4
	armtFreeRunReg = 0x20 / 4
	armtRegSize    = 0x100

	// armtFreeRunCtrl enables the counter in free-running mode with the
	// 32-bit-wide, undivided prescaler the original firmware driver uses;
	// firmware-defined bit pattern, not individually decoded here.
	armtFreeRunCtrl = 0x00000282
)

// counterRegs/armtRegs are mmapped once at process start and read with
// plain loads; both counters are free-running hardware, no lock needed.
var counterRegs atomic.Pointer[[]uint32]
var armtRegs atomic.Pointer[[]uint32]

func mapSystemTimer() error {
	base, err := socbase.Read()
	if err != nil {
		return err
	}
	mem, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return err
	}
	defer mem.Close()

	data, err := unix.Mmap(int(mem.Fd()), int64(base+stcOffset), stcRegSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	words := unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
	counterRegs.Store(&words)
	return nil
}

// mapArmTimer maps the ARM timer's register window and switches it into
// free-run mode; must be called once before readArmFreeRunTicks is used.
func mapArmTimer() error {
	base, err := socbase.Read()
	if err != nil {
		return err
	}
	mem, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return err
	}
	defer mem.Close()

	data, err := unix.Mmap(int(mem.Fd()), int64(base+armtOffset), armtRegSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	words := unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
	words[armtCtrlReg] = armtFreeRunCtrl
	armtRegs.Store(&words)
	return nil
}

// readSystemTimerUs reads the 64-bit STC counter as two 32-bit loads,
// re-reading the low word if the high word changed mid-read (the
// textbook race-free sequence for a hi:lo free-running counter pair). The
// result is already in whole microseconds.
func readSystemTimerUs() uint64 {
	regsP := counterRegs.Load()
	if regsP == nil {
		return 0
	}
	regs := *regsP
	for {
		hi1 := regs[stcCHIReg]
		lo := regs[stcCLOReg]
		hi2 := regs[stcCHIReg]
		if hi1 == hi2 {
			return uint64(hi1)<<32 | uint64(lo)
		}
	}
}

// readArmFreeRunTicks reads the ARM timer's 32-bit free-running counter.
// Ticks must be divided by the caller's mailbox-calibrated ticksPerNs to
// convert to a duration.
func readArmFreeRunTicks() uint32 {
	regsP := armtRegs.Load()
	if regsP == nil {
		return 0
	}
	return (*regsP)[armtFreeRunReg]
}
