// Package vcd provides small, format-only helpers for writing IEEE 1364
// Value Change Dump files: the printable-identifier allocator VCD
// readers expect, and the handful of line fragments every $var/$dumpvars
// emitter needs. It knows nothing about SCSI; monitor assembles the
// actual trace from these pieces.
package vcd

import "fmt"

// SymbolAlloc hands out the shortest distinct VCD identifiers, starting
// from "!" (0x21) and climbing through the printable ASCII range before
// wrapping to two characters — mirroring what every VCD writer in the
// wild does, since the format only requires identifiers be distinct, not
// meaningful.
type SymbolAlloc struct {
	next int
}

const (
	firstPrintable = 0x21
	lastPrintable  = 0x7E
	printableSpan  = lastPrintable - firstPrintable + 1
)

// Next returns the next distinct identifier.
func (s *SymbolAlloc) Next() string {
	n := s.next
	s.next++
	if n < printableSpan {
		return string(rune(firstPrintable + n))
	}
	n -= printableSpan
	hi := n / printableSpan
	lo := n % printableSpan
	return string([]rune{rune(firstPrintable + hi), rune(firstPrintable + lo)})
}

// VarLine formats one $var declaration.
func VarLine(kind string, width int, sym, name string) string {
	return fmt.Sprintf("$var %s %d %s %s $end\n", kind, width, sym, name)
}

// ScalarChange formats one scalar value-change line: "1!" or "0!".
func ScalarChange(sym string, high bool) string {
	if high {
		return "1" + sym + "\n"
	}
	return "0" + sym + "\n"
}

// VectorChange formats one vector value-change line: "b1010101 d\n".
func VectorChange(sym string, bits string) string {
	return "b" + bits + " " + sym + "\n"
}

// Timestamp formats a "#<ns>\n" line.
func Timestamp(ns uint64) string {
	return fmt.Sprintf("#%d\n", ns)
}
