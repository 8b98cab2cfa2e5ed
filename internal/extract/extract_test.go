package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafill/datafill/internal/search"
)

type fakeCompleter struct {
	calls    int
	lastSys  string
	lastUser string
	out      string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSys = system
	f.lastUser = user
	return f.out, f.err
}

func TestExtract_EmptyResultsShortCircuits(t *testing.T) {
	fc := &fakeCompleter{out: "should not be used"}
	e := New(fc)

	got := e.Extract(context.Background(), nil, "Get me the email of Acme")
	assert.Equal(t, SentinelNoResults, got)
	assert.Zero(t, fc.calls, "model must not be called for empty results")
}

func TestExtract_BuildsOrderedContext(t *testing.T) {
	fc := &fakeCompleter{out: "  info@acme.test  "}
	e := New(fc)

	results := []search.Result{
		{Title: "First", Snippet: "one"},
		{Title: "Second", Snippet: "two"},
	}
	got := e.Extract(context.Background(), results, "Get me the email of Acme")
	require.Equal(t, 1, fc.calls)
	assert.Equal(t, "info@acme.test", got, "output is trimmed")

	assert.Contains(t, fc.lastSys, "Extract the requested information")
	assert.Contains(t, fc.lastUser, "Title: First\nSnippet: one")
	assert.Contains(t, fc.lastUser, "Title: Second\nSnippet: two")
	assert.Contains(t, fc.lastUser, "Snippet: one\n\nTitle: Second",
		"results are separated by a blank line")
	assert.Less(t,
		strings.Index(fc.lastUser, "First"),
		strings.Index(fc.lastUser, "Second"),
		"result order must be preserved",
	)
	assert.True(t, strings.HasSuffix(fc.lastUser, "Prompt: Get me the email of Acme"))
}

func TestExtract_CompletionErrorBecomesSentinel(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("api_key=leaked boom")}
	e := New(fc)

	got := e.Extract(context.Background(), []search.Result{{Title: "t"}}, "prompt")
	assert.Equal(t, SentinelError, got)
}

func TestExtract_ContextBudgetTruncates(t *testing.T) {
	fc := &fakeCompleter{out: "ok"}
	e := New(fc, WithContextBudget(50))

	long := strings.Repeat("x", 500)
	_ = e.Extract(context.Background(), []search.Result{{Title: long, Snippet: long}}, "p")

	ctxBlock := strings.TrimPrefix(fc.lastUser, "Context:\n")
	ctxBlock = ctxBlock[:strings.Index(ctxBlock, "\n\nPrompt:")]
	assert.LessOrEqual(t, len([]rune(ctxBlock)), 50)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
	assert.Equal(t, "hél", truncateRunes("héllo", 3), "truncation counts runes, not bytes")
	assert.Equal(t, "abcd", truncateRunes("abcd", 0), "zero budget disables truncation")
}
