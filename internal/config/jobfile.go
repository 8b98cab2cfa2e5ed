package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job is an optional YAML job file describing a single enrichment run.
// Explicit command-line flags take precedence over its fields.
//
// Example:
//
//	input: companies.csv
//	output: enriched.csv
//	column: company
//	template: "Find the CEO of {entity}"
//	provider: groq
//	workers: 4
type Job struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
	Column        string `yaml:"column"`
	Template      string `yaml:"template"`
	Provider      string `yaml:"provider"`
	Workers       int    `yaml:"workers"`
}

// LoadJob reads and parses a job file. An empty path yields a zero Job.
func LoadJob(path string) (Job, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Job{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("read job file: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(b, &job); err != nil {
		return Job{}, fmt.Errorf("parse job file YAML: %w", err)
	}

	job.Input = strings.TrimSpace(job.Input)
	job.Output = strings.TrimSpace(job.Output)
	job.SpreadsheetID = strings.TrimSpace(job.SpreadsheetID)
	job.Column = strings.TrimSpace(job.Column)
	job.Template = strings.TrimSpace(job.Template)
	job.Provider = strings.TrimSpace(job.Provider)
	return job, nil
}
