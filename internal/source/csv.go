package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVSource loads rows from a local CSV file. The first record is the header.
type CSVSource struct {
	path    string
	columns []string
}

// NewCSVSource constructs a CSVSource for the given file path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads and normalizes every row. Short records are padded with empty
// strings so each Row covers the full column set.
func (s *CSVSource) Load(_ context.Context) ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input csv: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, columns, err := readCSVRows(f)
	if err != nil {
		return nil, err
	}
	s.columns = columns
	return rows, nil
}

// Columns returns the header column names from the last Load call.
func (s *CSVSource) Columns() []string {
	return s.columns
}

func readCSVRows(r io.Reader) ([]Row, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rawHeader, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("input csv is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header := normalizeHeader(rawHeader)
	if len(header) == 0 {
		return nil, nil, fmt.Errorf("input csv has no columns")
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, header, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, normalizeRecord(header, rec))
	}
}
