package source

import (
	"strings"

	"github.com/noah-isme/orderreport/internal/catalog"
)

// DefaultDelimiter separates fields when none is configured.
const DefaultDelimiter = ","

// SplitRows tokenizes delimited text. Lines are split on '\n', a trailing
// '\r' is dropped, whitespace-only lines are ignored and the first remaining
// line is treated as the header. Fields are split on the delimiter without
// any quoting rules. Row.Line is the 1-based physical line number.
func SplitRows(data []byte, delimiter string) []catalog.Row {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	lines := strings.Split(string(data), "\n")
	rows := make([]catalog.Row, 0, len(lines))
	header := true
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header {
			header = false
			continue
		}
		rows = append(rows, catalog.Row{
			Line:   i + 1,
			Raw:    line,
			Fields: strings.Split(line, delimiter),
		})
	}
	return rows
}
