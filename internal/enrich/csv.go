package enrich

import (
	"encoding/csv"
	"io"
)

// Header returns the stable output column ordering.
func Header() []string {
	return []string{"Entity", "Extracted Information"}
}

// WriteCSV writes records as a CSV with the stable Header() ordering: one
// row per record, input order preserved, no index column.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Entity, r.Extracted}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
