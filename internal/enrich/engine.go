// Package enrich drives the per-row enrichment batch: query templating,
// search, extraction, and sentinel-record failure isolation.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/datafill/datafill/internal/pipeline"
	"github.com/datafill/datafill/internal/redact"
	"github.com/datafill/datafill/internal/search"
	"github.com/datafill/datafill/internal/source"
)

// Placeholder is the substitution token a query template must contain.
const Placeholder = "{entity}"

// Sentinel outputs emitted in place of an extracted fact. Part of the
// output contract; must stay stable.
const (
	SentinelEmptyEntity = "Empty entity value"
	SentinelRowError    = "Error during processing"
)

// ErrTemplateMissingPlaceholder rejects a batch whose query template lacks
// the {entity} placeholder. Raised before any row is processed.
var ErrTemplateMissingPlaceholder = fmt.Errorf("query template must contain the %s placeholder", Placeholder)

// Template is a user-supplied query string with an {entity} placeholder.
type Template string

func (t Template) Validate() error {
	if !strings.Contains(string(t), Placeholder) {
		return ErrTemplateMissingPlaceholder
	}
	return nil
}

// Expand substitutes the entity into every occurrence of the placeholder.
func (t Template) Expand(entity string) string {
	return strings.ReplaceAll(string(t), Placeholder, entity)
}

// Record is the output unit: one per input row, in input order.
type Record struct {
	Entity    string
	Extracted string
}

// Extractor reads search context and returns the requested fact. It absorbs
// its own failures into sentinel strings and never fails the row.
type Extractor interface {
	Extract(ctx context.Context, results []search.Result, prompt string) string
}

type Options struct {
	// Workers bounds row concurrency. Values <= 0 mean 1 (sequential).
	// Output order is by input index either way.
	Workers int

	// OnProgress, when set, is called after each row completes with the
	// number of completed rows and the total.
	OnProgress func(done, total int)
}

// Engine binds a searcher and an extractor and runs batches over rows.
type Engine struct {
	searcher  search.Searcher
	extractor Extractor
	logger    *zap.Logger
}

func NewEngine(searcher search.Searcher, extractor Extractor, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		searcher:  searcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Run enriches every row in input order and returns exactly one Record per
// row. Row-level failures never abort the batch: they surface as sentinel
// text in the affected record only. Run fails only when the template is
// invalid (before any row is processed) or the context is cancelled.
func (e *Engine) Run(
	ctx context.Context,
	rows []source.Row,
	primaryColumn string,
	template Template,
	opts Options,
) ([]Record, error) {
	if err := template.Validate(); err != nil {
		return nil, err
	}

	return pipeline.Map(ctx, rows, func(rowCtx context.Context, row source.Row) Record {
		return e.processRow(rowCtx, row, primaryColumn, template)
	}, pipeline.Options{
		Workers: opts.Workers,
		OnDone:  opts.OnProgress,
	})
}

// processRow is the failure-isolation boundary: whatever goes wrong inside,
// the row yields a record and the batch continues.
func (e *Engine) processRow(ctx context.Context, row source.Row, primaryColumn string, template Template) (rec Record) {
	entity := row.Value(primaryColumn)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("row processing failed",
				zap.String("entity", entity),
				zap.Any("panic", r),
			)
			rec = Record{Entity: entity, Extracted: SentinelRowError}
		}
	}()

	if entity == "" {
		return Record{Entity: entity, Extracted: SentinelEmptyEntity}
	}

	query := template.Expand(entity)
	results, err := e.searchQuery(ctx, query, entity)
	if err != nil {
		results = nil
	}

	extracted := e.extractor.Extract(ctx, results, query)
	return Record{Entity: entity, Extracted: extracted}
}

// searchQuery absorbs search failures: an error is logged and reported to
// the caller as empty results, which the extractor turns into its
// no-results sentinel.
func (e *Engine) searchQuery(ctx context.Context, query, entity string) ([]search.Result, error) {
	results, err := e.searcher.Search(ctx, query)
	if err == nil {
		return results, nil
	}

	var transient *search.TransientError
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		e.logger.Warn("empty search query", zap.String("entity", entity))
	case errors.As(err, &transient):
		e.logger.Warn("search request failed",
			zap.String("entity", entity),
			zap.String("error", redact.Secrets(err.Error())),
		)
	default:
		e.logger.Warn("search provider rejected query",
			zap.String("entity", entity),
			zap.String("error", redact.Secrets(err.Error())),
		)
	}
	return nil, err
}
