package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/datafill/datafill/internal/pipeline"
	"github.com/datafill/datafill/internal/redact"
)

// ErrEmptyQuery reports a query that is empty after trimming. Callers treat
// it as a non-fatal input condition and proceed with empty results.
var ErrEmptyQuery = errors.New("empty search query")

// TransientError marks connectivity/timeout failures from the provider.
type TransientError = pipeline.TransientError

// serpErrorEnvelope is the error body shape returned by the search provider.
// Responses may include additional fields; we intentionally ignore them.
type serpErrorEnvelope struct {
	Error string `json:"error"`
}

// HTTPError is a sanitized summary of a non-2xx search provider response.
//
// Important: never include raw response bodies here (they can leak keys).
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string

	// Message is the provider's error field when the body parses as JSON.
	Message string

	// Snippet is a redacted, truncated hint for non-JSON responses.
	Snippet string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "search api error"
	}
	parts := []string{
		fmt.Sprintf("search api error: op=%s status=%s", strings.TrimSpace(e.Op), strings.TrimSpace(e.Status)),
	}
	if strings.TrimSpace(e.Message) != "" {
		parts = append(parts, "message="+strings.TrimSpace(e.Message))
	}
	if strings.TrimSpace(e.Snippet) != "" {
		parts = append(parts, "body="+strings.TrimSpace(e.Snippet))
	}
	return strings.Join(parts, " ")
}

func newHTTPError(op string, resp *http.Response) error {
	h := &HTTPError{Op: op}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Status = resp.Status
	}

	var body []byte
	if resp != nil && resp.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, 4096))
	}

	var env serpErrorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && strings.TrimSpace(env.Error) != "" {
		h.Message = redact.Secrets(env.Error)
		return h
	}

	h.Snippet = redactAndTruncate(body)
	return h
}

func redactAndTruncate(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	// Keep this small: response bodies can contain sensitive data.
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := redact.Secrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
