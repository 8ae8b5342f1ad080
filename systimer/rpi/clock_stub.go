//go:build !rpi

package rpi

import (
	"time"

	"devicecode-go/errcode"
	"devicecode-go/systimer"
)

// Clock is the non-hardware build's stand-in; New always fails so callers
// fall back to systimer.NewHostClock() the same way the factory does for
// every other hardware-only backend.
type Clock struct{}

func New() (*Clock, error) {
	return nil, errcode.New(errcode.BackendUnavailable, "rpi.NewClock", "built without the rpi tag", nil)
}

func (c *Clock) NowUs() uint32         { return 0 }
func (c *Clock) NowNs() uint32         { return 0 }
func (c *Clock) SleepNs(time.Duration) {}
func (c *Clock) SleepUs(time.Duration) {}

var _ systimer.Clock = (*Clock)(nil)
