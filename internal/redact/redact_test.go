package redact

import "testing"

func TestSecrets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{
			name: "bearer",
			in:   `Get "https://api.groq.com/v1": Bearer gsk_abc123 rejected`,
			want: `Get "https://api.groq.com/v1": Bearer <redacted> rejected`,
		},
		{
			name: "query_param",
			in:   "search failed: https://serpapi.com/search?api_key=secret123&q=acme",
			want: "search failed: https://serpapi.com/search?<redacted_kv>&q=acme",
		},
		{
			name: "env_style",
			in:   "SERPAPI_KEY=abc is invalid",
			want: "<redacted_kv> is invalid",
		},
		{
			name: "plain",
			in:   "connection refused",
			want: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Secrets(tt.in); got != tt.want {
				t.Fatalf("Secrets(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
