package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSON encodes rows as a two-space indented array without HTML escaping
// and without a trailing newline.
func JSON(rows []Row) ([]byte, error) {
	if rows == nil {
		rows = []Row{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON writes the structured export of rows to w.
func WriteJSON(w io.Writer, rows []Row) error {
	data, err := JSON(rows)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteText writes the report text followed by a newline.
func WriteText(w io.Writer, r *Report) error {
	if _, err := io.WriteString(w, r.Text()+"\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
