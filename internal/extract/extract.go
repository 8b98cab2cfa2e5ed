// Package extract turns ranked search results into a single extracted fact
// via one language-model completion per call.
package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/datafill/datafill/internal/redact"
	"github.com/datafill/datafill/internal/search"
)

// Sentinel outputs. These appear verbatim in the exported table, so they are
// part of the output contract and must stay stable.
const (
	SentinelNoResults = "No search results found"
	SentinelError     = "Error processing results"
)

// systemPrompt is the fixed extraction instruction sent with every request.
const systemPrompt = `Extract the requested information from the provided search results.
If the information cannot be found, respond with 'Not found'.
Be concise and only return the requested information.`

// defaultContextBudget bounds the concatenated search context, in runes,
// before the model call. Search snippets are short, so the default leaves
// generous headroom while guaranteeing the request stays within model input
// limits.
const defaultContextBudget = 8000

// Completer issues one chat completion and returns the top choice's text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Extractor builds the search context block and drives the model call. Any
// completion failure degrades to SentinelError; it never propagates.
type Extractor struct {
	completer     Completer
	contextBudget int
	logger        *zap.Logger
}

type Option func(*Extractor)

// WithContextBudget overrides the rune budget for the concatenated context.
func WithContextBudget(budget int) Option {
	return func(e *Extractor) {
		if budget > 0 {
			e.contextBudget = budget
		}
	}
}

// WithLogger attaches a logger for absorbed completion failures.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func New(completer Completer, opts ...Option) *Extractor {
	e := &Extractor{
		completer:     completer,
		contextBudget: defaultContextBudget,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the fact requested by prompt, read from results. Empty
// results short-circuit to SentinelNoResults without a model call.
func (e *Extractor) Extract(ctx context.Context, results []search.Result, prompt string) string {
	if len(results) == 0 {
		return SentinelNoResults
	}

	user := "Context:\n" + e.buildContext(results) + "\n\nPrompt: " + prompt
	out, err := e.completer.Complete(ctx, systemPrompt, user)
	if err != nil {
		e.logger.Warn("extraction failed",
			zap.String("error", redact.Secrets(err.Error())),
		)
		return SentinelError
	}
	return strings.TrimSpace(out)
}

// buildContext renders one result per paragraph, blank-line separated,
// preserving ranked order, truncated to the configured budget.
func (e *Extractor) buildContext(results []search.Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Title: ")
		b.WriteString(r.Title)
		b.WriteString("\nSnippet: ")
		b.WriteString(r.Snippet)
		b.WriteString("\n")
	}
	return truncateRunes(b.String(), e.contextBudget)
}

func truncateRunes(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget])
}
