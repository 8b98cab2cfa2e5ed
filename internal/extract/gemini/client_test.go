package gemini

import (
	"context"
	"testing"
)

func TestNewClient(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}

	c, err := NewClient(context.Background(), Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != defaultModel {
		t.Fatalf("expected default model %q, got %q", defaultModel, c.Model())
	}

	c, err = NewClient(context.Background(), Config{APIKey: "test-key", Model: " gemini-2.5-pro "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != "gemini-2.5-pro" {
		t.Fatalf("expected trimmed model override, got %q", c.Model())
	}
}
