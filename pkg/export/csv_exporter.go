package export

import (
	"bytes"
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Every row has len(Headers) cells.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// CSVExporter renders datasets as CSV with every data cell double-quoted.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType returns the MIME type of rendered output.
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Extension returns the file extension of rendered output.
func (e *CSVExporter) Extension() string { return "csv" }

// Render writes the bare header line followed by quoted rows, one per line.
// encoding/csv only quotes when needed, so cells are wrapped by hand.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.WriteString(strings.Join(data.Headers, ","))
	buf.WriteByte('\n')

	for i, row := range data.Rows {
		if len(row) != len(data.Headers) {
			return nil, fmt.Errorf("csv row %d has %d cells, want %d", i, len(row), len(data.Headers))
		}
		for j, cell := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
