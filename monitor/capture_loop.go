package monitor

import (
	"devicecode-go/sample"
	"devicecode-go/scsibus"
)

// Run polls bus once per iteration and appends a sample to buf whenever
// the bus word changes, until stop is closed or buf fills up. bus must
// already be opened in Monitor mode. The monotonic timestamp on each
// sample comes from bus's own clock, not from the poller's wall clock.
func Run(bus *scsibus.Bus, buf *Buffer, stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			buf.CloseWithTerminalDuplicate(uint64(bus.Clock().NowNs()))
			return nil
		default:
		}

		raw, err := bus.Acquire()
		if err != nil {
			return err
		}
		s := sample.New(raw, uint64(bus.Clock().NowNs()))
		if _, hasRoom := buf.Append(s); !hasRoom {
			buf.CloseWithTerminalDuplicate(s.Timestamp)
			return nil
		}
	}
}
