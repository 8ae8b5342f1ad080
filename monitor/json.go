package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"devicecode-go/errcode"
	"devicecode-go/sample"
	"devicecode-go/x/conv"
)

// WriteJSON renders samples as the JSON trace format: an array of
// {"id","timestamp","data"} objects, id the sample's position in the
// buffer, timestamp a 16-hex-digit nanosecond tick, data the full
// 32-bit canonical raw word as 8 hex digits. Hand-built rather than via
// encoding/json so the hex widths and field order stay byte-exact
// across runs, which the VCD/HTML regeneration path depends on.
func WriteJSON(samples []sample.DataSample) string {
	var b strings.Builder
	b.WriteString("[\n")
	var hexBuf [8]byte
	for i, s := range samples {
		fmt.Fprintf(&b, "  {\"id\":\"%d\",\"timestamp\":\"0x%016x\",\"data\":\"0x%s\"}", i, s.Timestamp, conv.U32Hex(hexBuf[:], s.Raw))
		if i < len(samples)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\n")
	return b.String()
}

// ReadJSON parses a trace previously written by WriteJSON back into an
// ordered slice of samples, ignoring the id field (the slice's own
// position is the reconstructed order).
func ReadJSON(data string) ([]sample.DataSample, error) {
	data = strings.TrimSpace(data)
	data = strings.TrimPrefix(data, "[")
	data = strings.TrimSuffix(data, "]")
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, nil
	}

	entries := strings.Split(data, "},")
	out := make([]sample.DataSample, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		e = strings.TrimPrefix(e, "{")
		e = strings.TrimSuffix(e, "}")

		ts, err := extractHex(e, "timestamp")
		if err != nil {
			return nil, err
		}
		dat, err := extractHex(e, "data")
		if err != nil {
			return nil, err
		}
		timestamp, err := strconv.ParseUint(ts, 16, 64)
		if err != nil {
			return nil, errcode.New(errcode.Error, "ReadJSON", "bad timestamp field", err)
		}
		raw, err := strconv.ParseUint(dat, 16, 32)
		if err != nil {
			return nil, errcode.New(errcode.Error, "ReadJSON", "bad data field", err)
		}
		out = append(out, sample.New(uint32(raw), timestamp))
	}
	return out, nil
}

// extractHex pulls the hex digits out of `"field":"0x<hex>"` within one
// object's field list.
func extractHex(obj, field string) (string, error) {
	key := "\"" + field + "\":\"0x"
	idx := strings.Index(obj, key)
	if idx < 0 {
		return "", errcode.New(errcode.Error, "ReadJSON", "missing field "+field, nil)
	}
	rest := obj[idx+len(key):]
	end := strings.Index(rest, "\"")
	if end < 0 {
		return "", errcode.New(errcode.Error, "ReadJSON", "unterminated field "+field, nil)
	}
	return rest[:end], nil
}
