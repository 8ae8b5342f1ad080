package monitor

import (
	"strings"
	"testing"

	"devicecode-go/canon"
	"devicecode-go/sample"
)

func TestWriteHTMLTableColumns(t *testing.T) {
	out := WriteHTML(nil)
	for _, col := range []string{"timestamp", "phase", "selected_id", "data", "word_count"} {
		if !strings.Contains(out, "<th>"+col+"</th>") {
			t.Fatalf("missing column header %q: %s", col, out)
		}
	}
	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Fatalf("expected a standalone document")
	}
}

func TestWriteHTMLCollapsesPhaseRuns(t *testing.T) {
	raw := canon.Set(0, canon.BitBSY, true) // BSY+SEL=0,MSG=CD=IO=0 => DataOut
	samples := []sample.DataSample{
		sample.New(raw, 0),
		sample.New(canon.WithData(raw, 0x11), 1),
		sample.New(canon.WithData(raw, 0x22), 2),
	}
	out := WriteHTML(samples)
	if strings.Count(out, "<tr>") != 2 { // header row + one phase row
		t.Fatalf("expected a single collapsed phase row, got:\n%s", out)
	}
	if !strings.Contains(out, "show 3 value(s)") {
		t.Fatalf("expected word_count of 3 distinct data values: %s", out)
	}
}

func TestWriteHTMLSelectionRowCarriesTargetID(t *testing.T) {
	// Selection: SEL=1, BSY=0.
	raw := canon.Set(0, canon.BitSEL, true)
	raw = canon.WithData(raw, 0x04) // target ID 4 on the data bus
	samples := []sample.DataSample{sample.New(raw, 0)}

	out := WriteHTML(samples)
	if !strings.Contains(out, "<td>4</td>") {
		t.Fatalf("expected selected_id=4 in Selection row: %s", out)
	}
}
