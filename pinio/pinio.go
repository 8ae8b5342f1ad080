// Package pinio defines the Pin I/O Backend contract shared by the
// hardware (pinio/rpi) and virtual (pinio/vbus) implementations that the
// bus engine drives. A Backend knows nothing about SCSI signal meaning or
// board polarity — it is a flat word of pins, sampled and driven as
// physical positions. Everything signal-shaped (assertion levels,
// positive-logic normalization, direction-control rules) lives one layer
// up, in scsibus, which consumes a Backend plus a board.Descriptor.
package pinio

import "devicecode-go/board"

// Direction selects input or output for pin_config.
type Direction uint8

const (
	Input Direction = iota
	Output
)

// Pull selects the pull resistor state for pull_config. It is a no-op on
// the virtual backend.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Backend is the pin-level contract every bus engine backend satisfies.
// acquire() must be a single atomic read with no pin-by-pin tearing: two
// bits sampled by the same call must reflect the same instant.
type Backend interface {
	// PinConfig makes pin an input or an output.
	PinConfig(pin board.Pin, dir Direction) error

	// PullConfig sets pin's pull resistor. No-op where the backend has no
	// such concept (virtual backend).
	PullConfig(pin board.Pin, pull Pull) error

	// PinSet drives pin to level. Only meaningful for pins configured as
	// Output; behaviour on an Input pin is backend-defined (hardware
	// backends generally ignore it).
	PinSet(pin board.Pin, level board.Level) error

	// Acquire samples every pin this backend knows about in one
	// read-consistent operation and returns the raw 32-bit pin word in
	// physical pin-position bit order.
	Acquire() (uint32, error)

	// DriveStrength sets DC drive strength in backend-defined units where
	// a backend supports it; both rpi and vbus treat it as a no-op.
	DriveStrength(n int) error

	// Close releases the backend's resources where it frees any (the
	// virtual bus's shared memory); the rpi backend's Close is a no-op.
	Close() error
}
