// Package irqhw provides the hardware IRQ-masking controller the bus
// engine brackets its handshake loops with. It is split from scsibus
// itself so that scsibus stays free of mmap/unsafe code and compiles
// identically on every platform; only this package carries the rpi build
// tag split.
package irqhw

// Controller is duck-typed against scsibus.irqController: Disable/Enable
// must nest safely, called from a single goroutine.
type Controller interface {
	Disable()
	Enable()
}

// Noop is used wherever masking IRQs is unavailable or unnecessary
// (virtual backend, unrecognised SoC).
type Noop struct{}

func (Noop) Disable() {}
func (Noop) Enable()  {}
