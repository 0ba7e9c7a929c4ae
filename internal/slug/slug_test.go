package slug

import (
	"strings"
	"testing"
)

// TestGenerate exercises the slug generator with a range of inputs covering
// typical titles, special characters, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "title with year",
			input: "Hello World 2026",
			want:  "hello-world-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single word",
			input: "GoLang",
			want:  "golang",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Hello, World! How's it going?",
			want:  "hello-world-hows-it-going",
		},
		{
			name:  "ampersand and at sign",
			input: "Rock & Roll @ the Arena",
			want:  "rock-roll-the-arena",
		},
		{
			name:  "parentheses and brackets",
			input: "Version (2.0) [Beta]",
			want:  "version-20-beta",
		},

		// --- Whitespace handling ---
		{
			name:  "leading and trailing spaces",
			input: "   Padded Title   ",
			want:  "padded-title",
		},
		{
			name:  "multiple inner spaces",
			input: "Too    Many     Spaces",
			want:  "too-many-spaces",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!!!???",
			want:  "",
		},
		{
			name:  "existing hyphens preserved",
			input: "pre-existing-hyphens",
			want:  "pre-existing-hyphens",
		},
		{
			name:  "consecutive hyphens collapsed",
			input: "double -- hyphen",
			want:  "double-hyphen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWithSuffix(t *testing.T) {
	got := WithSuffix("hello-world")
	if !strings.HasPrefix(got, "hello-world-") {
		t.Errorf("WithSuffix: got %q, want hello-world- prefix", got)
	}
	if len(got) != len("hello-world-")+8 {
		t.Errorf("WithSuffix: got %q, want 8-char token", got)
	}

	// Two calls must not collide.
	if WithSuffix("a") == WithSuffix("a") {
		t.Error("WithSuffix produced identical tokens on consecutive calls")
	}

	// Empty base gets a bare token so the slug is still usable.
	if got := WithSuffix(""); len(got) != 8 {
		t.Errorf("WithSuffix(\"\") = %q, want bare 8-char token", got)
	}
}
