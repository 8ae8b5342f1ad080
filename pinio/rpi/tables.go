package rpi

import "devicecode-go/board"

// physToGPIO maps a 40-pin header physical pin number to its BCM GPIO
// number, mirroring phys_to_gpio_map in the original gpiobus_raspberry.cpp:
// the header position and the GPIO number the SoC actually exposes it on
// are unrelated, so every register access must translate through this
// table rather than use board.Pin directly.
var physToGPIO = map[board.Pin]int{
	3: 2, 5: 3, 7: 4, 8: 14, 10: 15, 11: 17, 12: 18, 13: 27,
	15: 22, 16: 23, 18: 24, 19: 10, 21: 9, 22: 25, 23: 11, 24: 8,
	26: 7, 27: 0, 28: 1, 29: 5, 31: 6, 32: 12, 33: 13, 35: 19,
	36: 16, 37: 26, 38: 20, 40: 21,
}

// GpioFor translates a physical header pin number to its BCM GPIO number.
// ok is false for board.NoPin or any physical pin outside the 40-pin
// header's wired set. Exported so callers that interpret a raw register
// word directly — the loopback Tester, which talks to a Backend without
// going through the Bus Engine — can apply the same translation this
// package uses internally for register access.
func GpioFor(pin board.Pin) (gpio int, ok bool) {
	gpio, ok = physToGPIO[pin]
	return
}

// buildDatTables precomputes, for every possible 8-bit data byte, the
// GPSET0/GPCLR0 write masks that drive exactly that byte onto pins (in
// bit order) — one store per register regardless of how the board
// scatters the data bus across GPIO numbers. pins holds physical header
// pin numbers; each is translated to its GPIO number before being folded
// into the mask. Pulled out of gpio_rpi.go so it can be tested without
// the rpi build tag or real hardware.
func buildDatTables(pins [8]board.Pin) (setTable, clrTable [256]uint32) {
	for v := 0; v < 256; v++ {
		var setMask, clrMask uint32
		for bitIdx, pin := range pins {
			gpio, ok := GpioFor(pin)
			if !ok {
				continue
			}
			m := uint32(1) << uint(gpio)
			if v&(1<<uint(bitIdx)) != 0 {
				setMask |= m
			} else {
				clrMask |= m
			}
		}
		setTable[v] = setMask
		clrTable[v] = clrMask
	}
	return
}
