package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
		{
			name:   "cuts skill list on a rune boundary",
			input:  "Señor Go, Kubernetes",
			limit:  3,
			expect: "Señ...",
		},
		{
			name:   "multi-byte skill at exact limit",
			input:  "Señor",
			limit:  5,
			expect: "Señor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestTruncateForLogKeepsSkillRunesIntact(t *testing.T) {
	t.Parallel()

	skills := "Go, Kubernetes ☸, Postgres 🐘, Développement backend"
	for limit := 1; limit <= utf8.RuneCountInString(skills); limit++ {
		got := TruncateForLog(skills, limit)
		if !utf8.ValidString(got) {
			t.Fatalf("limit %d produced invalid UTF-8: %q", limit, got)
		}
		if !strings.HasPrefix(skills, strings.TrimSuffix(got, "...")) {
			t.Fatalf("limit %d is not a prefix of the skill list: %q", limit, got)
		}
	}
}
