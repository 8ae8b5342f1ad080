package monitor

import (
	"strings"
	"testing"

	"devicecode-go/canon"
	"devicecode-go/sample"
)

func TestWriteVCDHeaderStructure(t *testing.T) {
	out := WriteVCD(nil, "2026-07-31")

	wantInOrder := []string{
		"$date\n", "2026-07-31\n", "$end\n",
		"$version\n", "$end\n",
		"$comment\n", "$end\n",
		"$timescale 1 ns $end\n",
		"$scope module logic $end\n",
		"$var wire 1 ", " BSY $end\n",
		"$var wire 1 ", " RST $end\n",
		"$var wire 8 ", " data $end\n",
		"$var string 1 ", " phase $end\n",
		"$upscope $end\n",
		"$enddefinitions $end\n",
		"$dumpvars\n",
		"$end\n",
	}
	pos := 0
	for _, frag := range wantInOrder {
		idx := strings.Index(out[pos:], frag)
		if idx < 0 {
			t.Fatalf("missing or out-of-order fragment %q in:\n%s", frag, out)
		}
		pos += idx + len(frag)
	}
}

func TestWriteVCDDumpvarsInitializedZero(t *testing.T) {
	out := WriteVCD(nil, "2026-07-31")
	dumpvars := out[strings.Index(out, "$dumpvars\n"):]
	if !strings.Contains(dumpvars, "b00000000 ") {
		t.Fatalf("dumpvars should initialize data vector to all zero: %s", dumpvars)
	}
	if !strings.Contains(dumpvars, "s"+BusFreePhaseName+" ") {
		t.Fatalf("dumpvars should initialize phase to BusFree: %s", dumpvars)
	}
}

func TestWriteVCDEmitsChangeOnTransition(t *testing.T) {
	var raw1 uint32
	raw2 := canon.Set(raw1, canon.BitREQ, true)

	samples := []sample.DataSample{
		sample.New(raw1, 0),
		sample.New(raw2, 100),
	}
	out := WriteVCD(samples, "2026-07-31")

	if !strings.Contains(out, "#0\n") {
		t.Fatalf("missing first timestamp: %s", out)
	}
	if !strings.Contains(out, "#100\n") {
		t.Fatalf("missing second timestamp: %s", out)
	}
	// REQ's symbol is whatever the allocator assigned; check a "1<sym>"
	// change line appears after the #100 timestamp.
	after := out[strings.Index(out, "#100\n"):]
	if !strings.Contains(after, "1") {
		t.Fatalf("expected a high-going scalar change after #100: %s", after)
	}
}

func TestWriteVCDSkipsDuplicateRaw(t *testing.T) {
	samples := []sample.DataSample{
		sample.New(5, 0),
		sample.New(5, 50),
		sample.New(5, 100),
	}
	out := WriteVCD(samples, "2026-07-31")
	if strings.Count(out, "#50\n") != 0 {
		t.Fatalf("duplicate raw word must not emit its own timestamp line: %s", out)
	}
}
