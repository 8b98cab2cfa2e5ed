// Package app wires a data source, search client, and extractor into one
// enrichment run: load rows, enrich, export CSV.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/datafill/datafill/internal/enrich"
	"github.com/datafill/datafill/internal/search"
	"github.com/datafill/datafill/internal/source"
)

// RunSpec describes one enrichment run.
type RunSpec struct {
	// PrimaryColumn names the input column holding the entity value.
	PrimaryColumn string

	// Template is the query template containing the {entity} placeholder.
	Template enrich.Template

	// OutputPath is the CSV destination. Empty selects a timestamped
	// default filename in the working directory.
	OutputPath string

	// Workers bounds row concurrency. Values <= 0 run sequentially.
	Workers int
}

// DefaultOutputPath returns the timestamped default output filename.
func DefaultOutputPath(now time.Time) string {
	return fmt.Sprintf("enriched_data_%s.csv", now.Format("20060102_150405"))
}

// Run loads every row from src, enriches each one, and writes the output
// CSV. Returns the path written. Row-level failures are absorbed into
// sentinel records; Run fails only on load, template, or export errors.
func Run(
	ctx context.Context,
	logger *zap.Logger,
	src source.DataSource,
	searcher search.Searcher,
	extractor enrich.Extractor,
	spec RunSpec,
) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	runStart := time.Now()
	logger.Info("run start",
		zap.String("column", spec.PrimaryColumn),
		zap.String("template", string(spec.Template)),
		zap.Int("workers", spec.Workers),
	)

	loadStart := time.Now()
	rows, err := src.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load rows: %w", err)
	}
	logger.Info("rows loaded",
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(loadStart).Round(time.Millisecond)),
	)

	engine := enrich.NewEngine(searcher, extractor, logger)
	records, err := engine.Run(ctx, rows, spec.PrimaryColumn, spec.Template, enrich.Options{
		Workers: spec.Workers,
		OnProgress: func(done, total int) {
			logger.Info("row enriched",
				zap.Int("completed", done),
				zap.Int("total", total),
			)
		},
	})
	if err != nil {
		return "", err
	}

	outputPath := spec.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath(time.Now())
	}

	if err := exportCSV(outputPath, records); err != nil {
		return "", err
	}

	logger.Info("run complete",
		zap.Int("records", len(records)),
		zap.String("output", outputPath),
		zap.Duration("elapsed", time.Since(runStart).Round(time.Millisecond)),
	)
	return outputPath, nil
}

func exportCSV(path string, records []enrich.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := enrich.WriteCSV(f, records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
