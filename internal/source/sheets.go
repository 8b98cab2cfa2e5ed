package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// loadRange mirrors the fixed read window used for spreadsheet ingestion:
// header row plus up to 999 data rows across columns A..ZZ.
const loadRange = "A1:ZZ1000"

// SheetsSource loads rows from a Google Sheet. The first row of the sheet is
// treated as the header.
type SheetsSource struct {
	spreadsheetID   string
	credentialsPath string
	columns         []string

	// newService is swappable for tests.
	newService func(ctx context.Context) (*sheets.Service, error)
}

// NewSheetsSource constructs a SheetsSource reading the given spreadsheet
// with service-account credentials loaded from a JSON file.
func NewSheetsSource(spreadsheetID, credentialsPath string) *SheetsSource {
	s := &SheetsSource{
		spreadsheetID:   strings.TrimSpace(spreadsheetID),
		credentialsPath: strings.TrimSpace(credentialsPath),
	}
	s.newService = func(ctx context.Context) (*sheets.Service, error) {
		return sheets.NewService(ctx,
			option.WithCredentialsFile(s.credentialsPath),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		)
	}
	return s
}

// Load fetches the sheet values and normalizes them like the CSV source:
// every cell trimmed, short rows padded with empty strings.
func (s *SheetsSource) Load(ctx context.Context) ([]Row, error) {
	if s.spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	svc, err := s.newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(s.spreadsheetID, loadRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", s.spreadsheetID, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet %s", s.spreadsheetID)
	}

	header := normalizeHeader(cellStrings(resp.Values[0]))
	if len(header) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no columns", s.spreadsheetID)
	}

	rows := make([]Row, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, normalizeRecord(header, cellStrings(raw)))
	}
	s.columns = header
	return rows, nil
}

// Columns returns the header column names from the last Load call.
func (s *SheetsSource) Columns() []string {
	return s.columns
}

func cellStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = cellString(c)
	}
	return out
}

// cellString renders a sheet cell as a plain string. The values API returns
// strings for most cells but numbers and bools for typed ones.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
