package monitor

import (
	"fmt"
	"strings"

	"devicecode-go/canon"
	"devicecode-go/sample"
	"devicecode-go/scsibus"
)

// phaseRow is one collapsed run of consecutive samples sharing a phase:
// the HTML report shows one table row per phase transition, not one per
// sample, with the individual data-bus values nested in a collapsible
// block.
type phaseRow struct {
	timestamp  uint64
	phase      scsibus.Phase
	selectedID string
	data       []uint8
}

// WriteHTML renders samples as a standalone HTML report: one row per
// phase transition, each with a collapsible expander listing the
// successive data-bus values seen during that phase, 16 per line.
func WriteHTML(samples []sample.DataSample) string {
	rows := collapsePhases(samples)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>bus capture report</title>\n")
	b.WriteString(htmlStyle)
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<table>\n<tr><th>timestamp</th><th>phase</th><th>selected_id</th><th>data</th><th>word_count</th></tr>\n")

	for i, r := range rows {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td><td>", r.timestamp, r.phase.String(), r.selectedID)
		fmt.Fprintf(&b, "<button class=\"collapsible\" data-target=\"row%d\">show %d value(s)</button>", i, len(r.data))
		b.WriteString("<div class=\"content\" id=\"row" + fmt.Sprint(i) + "\" style=\"display:none\">")
		writeDataBlock(&b, r.data)
		b.WriteString("</div></td>")
		fmt.Fprintf(&b, "<td>%d</td></tr>\n", len(r.data))
	}

	b.WriteString("</table>\n")
	b.WriteString(htmlScript)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// collapsePhases merges consecutive same-phase samples into rows,
// recording every data-bus byte seen during each run and, for the
// first row of a Selection, the target ID read from the data bus at
// the moment BSY is not yet asserted.
func collapsePhases(samples []sample.DataSample) []phaseRow {
	var rows []phaseRow
	for _, s := range samples {
		ph := s.Phase()
		if len(rows) == 0 || rows[len(rows)-1].phase != ph {
			rows = append(rows, phaseRow{timestamp: s.Timestamp, phase: ph})
		}
		last := &rows[len(rows)-1]
		if len(last.data) == 0 || last.data[len(last.data)-1] != canon.Data(s.Raw) {
			last.data = append(last.data, s.Dat())
		}
		if last.selectedID == "" && ph == scsibus.Selection && !s.BSY() {
			last.selectedID = fmt.Sprintf("%d", s.SelectedID())
		}
	}
	return rows
}

// writeDataBlock writes index-labeled data values, 16 bytes per line, as
// the contents of one row's collapsible expander.
func writeDataBlock(b *strings.Builder, data []uint8) {
	b.WriteString("<pre>")
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(b, "%04d: ", i)
		for _, v := range data[i:end] {
			fmt.Fprintf(b, "%02x ", v)
		}
		b.WriteString("\n")
	}
	b.WriteString("</pre>")
}

const htmlStyle = `<style>
body { font-family: monospace; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; vertical-align: top; }
.collapsible { cursor: pointer; }
</style>
`

const htmlScript = `<script>
document.querySelectorAll('.collapsible').forEach(function (btn) {
  btn.addEventListener('click', function () {
    var target = document.getElementById(btn.getAttribute('data-target'));
    target.style.display = target.style.display === 'none' ? 'block' : 'none';
  });
});
</script>
`
