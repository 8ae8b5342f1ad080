// Package socbase resolves the SoC peripheral physical base address from
// the device tree, the way the hardware pin and timer backends need to in
// order to compute the offsets of the GPIO and system-timer register
// windows. It has no build tag: reading the ranges file is harmless (and
// simply fails) on a non-ARM host, which keeps it usable from host-side
// tests that want to exercise the error path.
package socbase

import (
	"encoding/binary"
	"os"
)

const rangesFile = "/proc/device-tree/soc/ranges"

// Default peripheral base addresses, used only if the ranges file is
// unreadable for some reason other than "not this hardware" (callers
// should prefer Read and only fall back to these as a last resort on a
// known board family).
const (
	BCM2835Base = 0x20000000
	BCM2836Base = 0x3F000000
	BCM2711Base = 0xFE000000
)

// Read parses /proc/device-tree/soc/ranges and returns the peripheral
// physical base address. The ranges file is a sequence of 32-bit
// big-endian cells; for the Pi's single-range "soc" node the second cell
// is the physical base. Returns an error if the file cannot be read or is
// too short to contain a range.
func Read() (uint64, error) {
	b, err := os.ReadFile(rangesFile)
	if err != nil {
		return 0, err
	}
	if len(b) >= 8 {
		// 2-cell address form (32-bit bus, 32-bit phys): [bus, phys, size]
		if len(b) >= 12 {
			return uint64(binary.BigEndian.Uint32(b[4:8])), nil
		}
		return uint64(binary.BigEndian.Uint32(b[0:4])), nil
	}
	return 0, os.ErrInvalid
}
