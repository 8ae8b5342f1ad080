//go:build rpi

package rpi

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mailboxDevice is the VideoCore mailbox property-channel character
// device exposed by the firmware.
const mailboxDevice = "/dev/vcio"

const (
	mboxIoctlProperty = 0xc0046400 // IOCTL_MBOX_PROPERTY, firmware-defined
)

type mailbox struct{ f *os.File }

func openMailbox() (*mailbox, error) {
	f, err := os.OpenFile(mailboxDevice, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &mailbox{f: f}, nil
}

func (m *mailbox) close() error { return m.f.Close() }

// clockRate issues a "get clock rate" property request and returns Hz.
func (m *mailbox) clockRate(clockID uint32) (uint32, error) {
	// Mailbox property buffer: size, code, tag, tag-size, req/resp,
	// value words..., end tag. All little-endian uint32 words.
	buf := make([]uint32, 8)
	buf[0] = uint32(len(buf) * 4) // total buffer size in bytes
	buf[1] = 0                    // process request
	buf[2] = mailboxClockRateTag
	buf[3] = 8 // value buffer size
	buf[4] = 0 // request/response indicator
	buf[5] = clockID
	buf[6] = 0 // returned rate goes here
	buf[7] = 0 // end tag

	raw := make([]byte, len(buf)*4)
	for i, w := range buf {
		binary.LittleEndian.PutUint32(raw[i*4:], w)
	}

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, m.f.Fd(), mboxIoctlProperty, uintptr(unsafe.Pointer(&raw[0]))); errno != 0 {
		return 0, fmt.Errorf("mailbox ioctl: %w", errno)
	}

	return binary.LittleEndian.Uint32(raw[6*4:]), nil
}
