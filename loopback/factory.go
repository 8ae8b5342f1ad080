package loopback

import (
	"os"

	"devicecode-go/board"
	"devicecode-go/errcode"
	"devicecode-go/pinio"
	"devicecode-go/pinio/rpi"
	"devicecode-go/pinio/vbus"
	"devicecode-go/x/strx"
)

// OpenBackend is the Loopback Tester's equivalent of scsibus.Open: it
// picks the hardware or virtual pinio.Backend for tag, the same way the
// Bus factory does, but hands back the raw Backend instead of wrapping it
// in a Bus — the tester drives pins directly and must own direction
// control itself rather than go through the Bus Engine's bookkeeping.
func OpenBackend(tag board.Tag, vbusName string) (pinio.Backend, board.Descriptor, error) {
	desc, ok := board.ByTag(tag)
	if !ok {
		return nil, board.Descriptor{}, errcode.New(errcode.InvalidBoard, "loopback.OpenBackend", "unknown board tag", nil)
	}

	if tag != board.TagVirtual && hardwareAvailable() {
		if pins, err := rpi.New(); err == nil {
			return pins, desc, nil
		} else if errcode.Of(err) != errcode.BackendUnavailable {
			return nil, board.Descriptor{}, err
		}
	}

	pins, err := vbus.Open(strx.Coalesce(vbusName, "scsiloop-virtual"))
	if err != nil {
		return nil, board.Descriptor{}, err
	}
	return pins, desc, nil
}

func hardwareAvailable() bool {
	for _, p := range []string{"/dev/gpiomem", "/dev/mem"} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}
