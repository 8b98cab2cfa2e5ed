package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafill/datafill/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("SERPAPI_KEY", "serp-key")
	t.Setenv("GROQ_API_KEY", "groq-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load(config.ProviderGroq, false)
	require.NoError(t, err)

	assert.Equal(t, "serp-key", cfg.SerpAPIKey)
	assert.Equal(t, "groq-key", cfg.GroqAPIKey)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.Equal(t, 8000, cfg.ContextCharBudget)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SEARCH_MAX_RESULTS", "3")
	t.Setenv("CONTEXT_CHAR_BUDGET", "500")
	t.Setenv("WORKERS", "8")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("GROQ_MODEL", "llama-3.1-8b-instant")

	cfg, err := config.Load(config.ProviderGroq, false)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxResults)
	assert.Equal(t, 500, cfg.ContextCharBudget)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)
}

func TestLoad_ReportsAllMissingVars(t *testing.T) {
	t.Setenv("SERPAPI_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	_, err := config.Load(config.ProviderGroq, false)
	require.Error(t, err)

	var missing *config.MissingVarsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"GROQ_API_KEY", "SERPAPI_KEY"}, missing.Vars)
}

func TestLoad_GeminiProviderRequiresGeminiKey(t *testing.T) {
	t.Setenv("SERPAPI_KEY", "serp-key")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := config.Load(config.ProviderGemini, false)
	var missing *config.MissingVarsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"GEMINI_API_KEY"}, missing.Vars)

	t.Setenv("GEMINI_API_KEY", "gem-key")
	cfg, err := config.Load(config.ProviderGemini, false)
	require.NoError(t, err)
	assert.Equal(t, "gem-key", cfg.GeminiAPIKey)
}

func TestLoad_SheetsCredentialsRequiredOnlyForSheets(t *testing.T) {
	setRequired(t)
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS", "")

	_, err := config.Load(config.ProviderGroq, false)
	require.NoError(t, err)

	_, err = config.Load(config.ProviderGroq, true)
	var missing *config.MissingVarsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"GOOGLE_SHEETS_CREDENTIALS"}, missing.Vars)
}

func TestLoad_InvalidInt(t *testing.T) {
	setRequired(t)
	t.Setenv("WORKERS", "many")

	_, err := config.Load(config.ProviderGroq, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKERS")
}

func TestParseProvider(t *testing.T) {
	p, err := config.ParseProvider("")
	require.NoError(t, err)
	assert.Equal(t, config.ProviderGroq, p)

	p, err = config.ParseProvider(" Gemini ")
	require.NoError(t, err)
	assert.Equal(t, config.ProviderGemini, p)

	_, err = config.ParseProvider("claude")
	assert.Error(t, err)
}

func TestLoadJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	data := `input: companies.csv
output: out.csv
column: company
template: "Find the CEO of {entity}"
provider: groq
workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	job, err := config.LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "companies.csv", job.Input)
	assert.Equal(t, "out.csv", job.Output)
	assert.Equal(t, "company", job.Column)
	assert.Equal(t, "Find the CEO of {entity}", job.Template)
	assert.Equal(t, "groq", job.Provider)
	assert.Equal(t, 4, job.Workers)
}

func TestLoadJob_EmptyPath(t *testing.T) {
	job, err := config.LoadJob("")
	require.NoError(t, err)
	assert.Equal(t, config.Job{}, job)
}

func TestLoadJob_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := config.LoadJob(path)
	assert.Error(t, err)
}
