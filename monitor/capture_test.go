package monitor

import (
	"testing"

	"devicecode-go/sample"
)

func TestBufferDedupsAdjacentRaw(t *testing.T) {
	buf := NewBuffer(8)
	appended, _ := buf.Append(sample.New(1, 100))
	if !appended {
		t.Fatalf("first append should succeed")
	}
	appended, _ = buf.Append(sample.New(1, 200))
	if appended {
		t.Fatalf("duplicate raw word should not be appended")
	}
	if buf.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", buf.Dropped())
	}
	appended, _ = buf.Append(sample.New(2, 300))
	if !appended {
		t.Fatalf("changed raw word should be appended")
	}
	if buf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", buf.Len())
	}
}

func TestBufferStopsAtCapacity(t *testing.T) {
	buf := NewBuffer(2)
	_, hasRoom := buf.Append(sample.New(1, 0))
	if !hasRoom {
		t.Fatalf("buffer should still have room after first of two")
	}
	_, hasRoom = buf.Append(sample.New(2, 1))
	if hasRoom {
		t.Fatalf("buffer should report full after capacity reached")
	}
	if appended, _ := buf.Append(sample.New(3, 2)); appended {
		t.Fatalf("append past capacity should be rejected")
	}
	if !buf.Full() {
		t.Fatalf("Full() should be true")
	}
}

func TestCloseWithTerminalDuplicate(t *testing.T) {
	buf := NewBuffer(4)
	buf.Append(sample.New(1, 0))
	buf.Append(sample.New(2, 10))
	buf.CloseWithTerminalDuplicate(20)

	got := buf.Samples()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[2].Raw != 2 || got[2].Timestamp != 20 {
		t.Fatalf("terminal sample = %+v, want raw=2 ts=20", got[2])
	}
}

func TestCloseWithTerminalDuplicateNoopWhenFull(t *testing.T) {
	buf := NewBuffer(2)
	buf.Append(sample.New(1, 0))
	buf.Append(sample.New(2, 10))
	buf.CloseWithTerminalDuplicate(20)
	if buf.Len() != 2 {
		t.Fatalf("len = %d, want 2 (no room to close)", buf.Len())
	}
}

func TestLoadAllTrimsToCapacity(t *testing.T) {
	buf := NewBuffer(2)
	buf.LoadAll([]sample.DataSample{
		sample.New(1, 0),
		sample.New(2, 1),
		sample.New(3, 2),
	})
	if buf.Len() != 2 {
		t.Fatalf("len = %d, want 2", buf.Len())
	}
	if buf.Samples()[1].Raw != 2 {
		t.Fatalf("second sample raw = %d, want 2", buf.Samples()[1].Raw)
	}
}
