package monitor

import (
	"fmt"
	"testing"
	"time"

	"devicecode-go/board"
	"devicecode-go/pinio"
	"devicecode-go/pinio/vbus"
	"devicecode-go/scsibus"
	"devicecode-go/systimer"
)

func openVirtualMonitor(t *testing.T) (*scsibus.Bus, string, func()) {
	t.Helper()
	name := fmt.Sprintf("monitor-test-%d", time.Now().UnixNano())
	backend, err := vbus.Open(name)
	if err != nil {
		t.Fatalf("vbus.Open: %v", err)
	}
	bus := scsibus.New(scsibus.Monitor, board.VirtualBoard, backend, systimer.NewHostClock(), scsibus.NoopIRQ{})
	if err := bus.Init(); err != nil {
		t.Fatalf("bus.Init: %v", err)
	}
	cleanup := func() {
		bus.Cleanup()
		_ = vbus.Unlink(name)
	}
	return bus, name, cleanup
}

func TestRunStopsOnStopChannel(t *testing.T) {
	bus, _, cleanup := openVirtualMonitor(t)
	defer cleanup()

	buf := NewBuffer(16)
	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- Run(bus, buf, stop) }()

	time.Sleep(5 * time.Millisecond)
	close(stop)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after stop channel closed")
	}
}

func TestRunStopsWhenBufferFull(t *testing.T) {
	bus, name, cleanup := openVirtualMonitor(t)
	defer cleanup()

	peer, err := vbus.Open(name)
	if err != nil {
		t.Fatalf("vbus.Open (peer): %v", err)
	}
	defer peer.Close()
	if err := peer.PinConfig(board.VirtualBoard.Pins.SEL, pinio.Output); err != nil {
		t.Fatalf("peer.PinConfig: %v", err)
	}

	buf := NewBuffer(2)
	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- Run(bus, buf, stop) }()

	// Toggle SEL to force distinct samples so the buffer actually fills.
	for i := 0; i < 5; i++ {
		_ = peer.PinSet(board.VirtualBoard.Pins.SEL, board.Level(i%2))
		time.Sleep(time.Millisecond)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		close(stop)
		t.Fatalf("Run did not stop once buffer filled")
	}
	if !buf.Full() {
		t.Fatalf("expected buffer to be full")
	}
}
