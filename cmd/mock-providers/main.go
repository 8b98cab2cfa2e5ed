// Command mock-providers serves local stand-ins for the search and chat
// provider APIs, for development without real keys. Point the pipeline at it
// with SERPAPI_BASE_URL and GROQ_BASE_URL.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/datafill/datafill/internal/mockapi"
)

func main() {
	addr := defaultString("MOCK_PROVIDERS_ADDR", ":8080")
	apiKey := defaultString("MOCK_PROVIDERS_API_KEY", "")
	resultsPath := defaultString("MOCK_PROVIDERS_RESULTS", "")
	completion := defaultString("MOCK_PROVIDERS_COMPLETION", "")

	fs := flag.NewFlagSet("mock-providers", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&apiKey, "api-key", apiKey, "If set, reject requests without this key")
	fs.StringVar(&resultsPath, "results", resultsPath, "JSON file mapping query -> organic results")
	fs.StringVar(&completion, "completion", completion, "Fixed chat completion text")
	_ = fs.Parse(os.Args[1:])

	srv := mockapi.New()
	if apiKey != "" {
		srv.RequireAPIKey(apiKey)
	}
	if completion != "" {
		srv.SetCompletion(completion)
	}
	if resultsPath != "" {
		if err := loadResults(srv, resultsPath); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "load results: %v\n", err)
			os.Exit(1)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "mock-providers listening on %s\n", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func loadResults(srv *mockapi.Server, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var byQuery map[string][]mockapi.Result
	if err := json.Unmarshal(b, &byQuery); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for query, results := range byQuery {
		srv.SetResults(query, results)
	}
	return nil
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
