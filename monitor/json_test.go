package monitor

import (
	"strings"
	"testing"

	"devicecode-go/sample"
)

func TestJSONRoundTrip(t *testing.T) {
	samples := []sample.DataSample{
		sample.New(0x0000_0001, 0),
		sample.New(0xDEAD_BEEF, 0x1234_5678_9ABC_DEF0),
		sample.New(0, 1),
	}

	out := ReadJSONMustSucceed(t, WriteJSON(samples))
	if len(out) != len(samples) {
		t.Fatalf("round trip length = %d, want %d", len(out), len(samples))
	}
	for i := range samples {
		if out[i] != samples[i] {
			t.Fatalf("sample %d = %+v, want %+v", i, out[i], samples[i])
		}
	}
}

func ReadJSONMustSucceed(t *testing.T, text string) []sample.DataSample {
	t.Helper()
	out, err := ReadJSON(text)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return out
}

func TestWriteJSONFormat(t *testing.T) {
	out := WriteJSON([]sample.DataSample{sample.New(0x42, 7)})
	if !strings.HasPrefix(strings.TrimSpace(out), "[") || !strings.HasSuffix(strings.TrimSpace(out), "]") {
		t.Fatalf("expected array brackets on their own lines: %s", out)
	}
	if !strings.Contains(out, `"id":"0"`) {
		t.Fatalf("missing id field: %s", out)
	}
	if !strings.Contains(out, `"timestamp":"0x0000000000000007"`) {
		t.Fatalf("missing 16-hex-digit timestamp: %s", out)
	}
	if !strings.Contains(out, `"data":"0x00000042"`) {
		t.Fatalf("missing 8-hex-digit data: %s", out)
	}
}

func TestReadJSONEmptyArray(t *testing.T) {
	out, err := ReadJSON("[]")
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty slice, got %d elements", len(out))
	}
}

func TestReadJSONMissingFieldErrors(t *testing.T) {
	_, err := ReadJSON(`[{"id":"0","timestamp":"0x1"}]`)
	if err == nil {
		t.Fatalf("expected error for missing data field")
	}
}
