package source

import (
	"context"
	"strings"
)

// Row is one tabular record keyed by column name. Values are normalized at
// load time: trimmed strings, with missing cells stored as "".
type Row map[string]string

// Value returns the trimmed cell value for a column, or "" when the column
// is missing. It never fails: unreadable values degrade to the empty string.
func (r Row) Value(column string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r[column])
}

// DataSource supplies an ordered sequence of rows with a known column set.
type DataSource interface {
	Load(ctx context.Context) ([]Row, error)
	Columns() []string
}

// normalizeRecord builds a Row from a header and a raw record, trimming every
// cell and padding short records with empty strings. Cells beyond the header
// are dropped.
func normalizeRecord(header []string, record []string) Row {
	row := make(Row, len(header))
	for i, col := range header {
		if i < len(record) {
			row[col] = strings.TrimSpace(record[i])
			continue
		}
		row[col] = ""
	}
	return row
}

// normalizeHeader trims column names and drops trailing empty ones.
func normalizeHeader(raw []string) []string {
	header := make([]string, 0, len(raw))
	for _, col := range raw {
		header = append(header, strings.TrimSpace(col))
	}
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	return header
}
