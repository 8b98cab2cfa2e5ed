// Command datafill enriches a table of entities: for each row it substitutes
// the entity into a query template, searches the web, and extracts the
// requested fact with a language model.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datafill/datafill/internal/app"
	"github.com/datafill/datafill/internal/config"
	"github.com/datafill/datafill/internal/enrich"
	"github.com/datafill/datafill/internal/extract"
	"github.com/datafill/datafill/internal/extract/gemini"
	"github.com/datafill/datafill/internal/extract/groq"
	"github.com/datafill/datafill/internal/redact"
	"github.com/datafill/datafill/internal/search"
	"github.com/datafill/datafill/internal/source"
)

var (
	flagInput         string
	flagSpreadsheetID string
	flagOutput        string
	flagColumn        string
	flagTemplate      string
	flagJob           string
	flagProvider      string
	flagWorkers       int
)

// usageError marks failures that should exit with the usage/config code.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:           "datafill",
	Short:         "Enrich a table of entities with web-searched facts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Enrich rows from a local CSV file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, err := resolveRun(false)
		if err != nil {
			return err
		}
		if run.input == "" {
			return &usageError{err: errors.New("csv requires --input (or a job file with input)")}
		}
		return run.execute(cmd.Context(), source.NewCSVSource(run.input))
	},
}

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Enrich rows from a Google Sheets spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, err := resolveRun(true)
		if err != nil {
			return err
		}
		if run.spreadsheetID == "" {
			return &usageError{err: errors.New("sheet requires --spreadsheet-id (or a job file with spreadsheet_id)")}
		}
		src := source.NewSheetsSource(run.spreadsheetID, run.cfg.SheetsCredentials)
		return run.execute(cmd.Context(), src)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagOutput, "output", "", "output CSV path (default: enriched_data_<timestamp>.csv)")
	pf.StringVar(&flagColumn, "column", "", "input column holding the entity value")
	pf.StringVar(&flagTemplate, "template", "", "query template containing {entity}")
	pf.StringVar(&flagJob, "job", "", "YAML job file; explicit flags override its fields")
	pf.StringVar(&flagProvider, "provider", "", "extraction backend: groq (default) or gemini")
	pf.IntVar(&flagWorkers, "workers", 0, "concurrent rows (default from WORKERS env, 1 = sequential)")

	csvCmd.Flags().StringVar(&flagInput, "input", "", "input CSV file path")
	sheetCmd.Flags().StringVar(&flagSpreadsheetID, "spreadsheet-id", "", "Google Sheets spreadsheet ID")

	rootCmd.AddCommand(csvCmd)
	rootCmd.AddCommand(sheetCmd)
}

type resolvedRun struct {
	cfg           config.Config
	provider      config.Provider
	input         string
	spreadsheetID string
	output        string
	column        string
	template      string
	workers       int
}

// resolveRun merges the job file (if any) under the explicit flags, then
// loads and validates environment configuration for the selected provider.
func resolveRun(useSheets bool) (*resolvedRun, error) {
	job, err := config.LoadJob(flagJob)
	if err != nil {
		return nil, &usageError{err: err}
	}

	pick := func(flagVal, jobVal string) string {
		if flagVal != "" {
			return flagVal
		}
		return jobVal
	}

	providerName := pick(flagProvider, job.Provider)
	provider, err := config.ParseProvider(providerName)
	if err != nil {
		return nil, &usageError{err: err}
	}

	cfg, err := config.Load(provider, useSheets)
	if err != nil {
		return nil, &usageError{err: err}
	}

	workers := flagWorkers
	if workers <= 0 {
		workers = job.Workers
	}
	if workers <= 0 {
		workers = cfg.Workers
	}

	run := &resolvedRun{
		cfg:           cfg,
		provider:      provider,
		input:         pick(flagInput, job.Input),
		spreadsheetID: pick(flagSpreadsheetID, job.SpreadsheetID),
		output:        pick(flagOutput, job.Output),
		column:        pick(flagColumn, job.Column),
		template:      pick(flagTemplate, job.Template),
		workers:       workers,
	}
	if run.column == "" {
		return nil, &usageError{err: errors.New("--column is required (or a job file with column)")}
	}
	if run.template == "" {
		return nil, &usageError{err: errors.New("--template is required (or a job file with template)")}
	}
	if err := enrich.Template(run.template).Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	return run, nil
}

func (r *resolvedRun) execute(ctx context.Context, src source.DataSource) error {
	logger := app.NewLogger(r.cfg.LogLevel, r.cfg.LogFormat)
	defer func() {
		_ = logger.Sync()
	}()

	searcher, err := search.NewClient(search.Config{
		APIKey:     r.cfg.SerpAPIKey,
		BaseURL:    r.cfg.SerpAPIBaseURL,
		MaxResults: r.cfg.MaxResults,
		Timeout:    r.cfg.RequestTimeout,
	})
	if err != nil {
		return &usageError{err: err}
	}

	completer, err := newCompleter(ctx, r)
	if err != nil {
		return &usageError{err: err}
	}
	extractor := extract.New(completer,
		extract.WithContextBudget(r.cfg.ContextCharBudget),
		extract.WithLogger(logger),
	)

	_, err = app.Run(ctx, logger, src, searcher, extractor, app.RunSpec{
		PrimaryColumn: r.column,
		Template:      enrich.Template(r.template),
		OutputPath:    r.output,
		Workers:       r.workers,
	})
	return err
}

func newCompleter(ctx context.Context, r *resolvedRun) (extract.Completer, error) {
	switch r.provider {
	case config.ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{
			APIKey: r.cfg.GeminiAPIKey,
			Model:  r.cfg.GeminiModel,
		})
	default:
		return groq.NewClient(groq.Config{
			APIKey:  r.cfg.GroqAPIKey,
			BaseURL: r.cfg.GroqBaseURL,
			Model:   r.cfg.GroqModel,
			Timeout: r.cfg.RequestTimeout,
		})
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "datafill: %s\n", redact.Secrets(err.Error()))
		var ue *usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
