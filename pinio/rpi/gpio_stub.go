//go:build !rpi

package rpi

import (
	"devicecode-go/board"
	"devicecode-go/errcode"
	"devicecode-go/pinio"
)

// Backend is the non-hardware build's stand-in; New always fails so
// callers fall back to the virtual backend the same way the bus factory
// does for every other hardware-only dependency.
type Backend struct{}

func New() (*Backend, error) {
	return nil, errcode.New(errcode.BackendUnavailable, "rpi.New", "built without the rpi tag", nil)
}

func (b *Backend) SetDataPins([8]board.Pin) {}
func (b *Backend) SetDat(uint8)             {}

func (b *Backend) PinConfig(board.Pin, pinio.Direction) error { return nil }
func (b *Backend) PullConfig(board.Pin, pinio.Pull) error     { return nil }
func (b *Backend) PinSet(board.Pin, board.Level) error        { return nil }
func (b *Backend) Acquire() (uint32, error)                   { return 0, nil }
func (b *Backend) DriveStrength(int) error                    { return nil }
func (b *Backend) Close() error                               { return nil }

var _ pinio.Backend = (*Backend)(nil)
