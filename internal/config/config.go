// Package config resolves process configuration from a .env file and the
// environment. Validation reports every missing required variable at once.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider selects the chat-completion backend for extraction.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderGemini Provider = "gemini"
)

// ParseProvider validates a provider name from a flag or job file.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderGroq, "":
		return ProviderGroq, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown provider %q (want groq or gemini)", s)
	}
}

// MissingVarsError reports every required environment variable that was
// absent, not just the first one encountered.
type MissingVarsError struct {
	Vars []string
}

func (e *MissingVarsError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// Config is the resolved process configuration. Built once at startup.
type Config struct {
	SerpAPIKey     string
	SerpAPIBaseURL string
	MaxResults     int

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	GeminiAPIKey string
	GeminiModel  string

	// SheetsCredentials is the service-account credentials file path.
	// Required only when reading from Google Sheets.
	SheetsCredentials string

	ContextCharBudget int
	Workers           int
	RequestTimeout    time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads .env (best effort, missing file is fine), then resolves every
// variable from the environment. provider and useSheets widen the required
// set: GEMINI_API_KEY for the gemini provider, GOOGLE_SHEETS_CREDENTIALS for
// sheet input.
func Load(provider Provider, useSheets bool) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		SerpAPIKey:        strings.TrimSpace(os.Getenv("SERPAPI_KEY")),
		SerpAPIBaseURL:    strings.TrimSpace(os.Getenv("SERPAPI_BASE_URL")),
		GroqAPIKey:        strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		GroqBaseURL:       strings.TrimSpace(os.Getenv("GROQ_BASE_URL")),
		GroqModel:         strings.TrimSpace(os.Getenv("GROQ_MODEL")),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:       strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		SheetsCredentials: strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS")),
		LogLevel:          strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFormat:         strings.TrimSpace(os.Getenv("LOG_FORMAT")),
	}

	var err error
	if cfg.MaxResults, err = envInt("SEARCH_MAX_RESULTS", 5); err != nil {
		return Config{}, err
	}
	if cfg.ContextCharBudget, err = envInt("CONTEXT_CHAR_BUDGET", 8000); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = envInt("WORKERS", 1); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}

	missing := map[string]string{
		"SERPAPI_KEY": cfg.SerpAPIKey,
	}
	switch provider {
	case ProviderGemini:
		missing["GEMINI_API_KEY"] = cfg.GeminiAPIKey
	default:
		missing["GROQ_API_KEY"] = cfg.GroqAPIKey
	}
	if useSheets {
		missing["GOOGLE_SHEETS_CREDENTIALS"] = cfg.SheetsCredentials
	}

	var absent []string
	for name, value := range missing {
		if value == "" {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		sort.Strings(absent)
		return Config{}, &MissingVarsError{Vars: absent}
	}

	return cfg, nil
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
