package vbus

import (
	"fmt"
	"testing"

	"devicecode-go/board"
	"devicecode-go/pinio"
)

func segName(t *testing.T) string {
	return fmt.Sprintf("vbus-test-%s", t.Name())
}

func openPair(t *testing.T) (a, b *Backend) {
	t.Helper()
	name := segName(t)
	a, err := Open(name)
	if err != nil {
		t.Fatalf("open primary: %v", err)
	}
	if !a.IsPrimary() {
		t.Fatalf("first opener should be primary")
	}
	b, err = Open(name)
	if err != nil {
		a.Close()
		t.Fatalf("open secondary: %v", err)
	}
	if b.IsPrimary() {
		t.Fatalf("second opener should not be primary")
	}
	t.Cleanup(func() {
		a.Close()
		b.Close()
		Unlink(name)
	})
	return a, b
}

func TestPinSetVisibleAcrossHandles(t *testing.T) {
	a, b := openPair(t)

	if err := a.PinConfig(3, pinio.Output); err != nil {
		t.Fatalf("PinConfig: %v", err)
	}
	if err := a.PinSet(3, board.High); err != nil {
		t.Fatalf("PinSet: %v", err)
	}

	got, err := b.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got&(1<<3) == 0 {
		t.Fatalf("bit 3 not visible to second handle: %#x", got)
	}
}

func TestPinSetRefusesNonOutput(t *testing.T) {
	a, _ := openPair(t)
	if err := a.PinSet(5, board.High); err == nil {
		t.Fatalf("expected error driving unconfigured pin")
	}
}

func TestPinSetOutOfRange(t *testing.T) {
	a, _ := openPair(t)
	if err := a.PinConfig(99, pinio.Output); err == nil {
		t.Fatalf("expected error for out-of-range pin")
	}
}

func TestAcquireReflectsClearedBit(t *testing.T) {
	a, b := openPair(t)
	a.PinConfig(7, pinio.Output)
	a.PinSet(7, board.High)
	a.PinSet(7, board.Low)

	got, _ := b.Acquire()
	if got&(1<<7) != 0 {
		t.Fatalf("bit 7 should be clear: %#x", got)
	}
}
