package llm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFallbackTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "short message kept as-is",
			message: "mostrami gli appuntamenti",
			want:    "mostrami gli appuntamenti",
		},
		{
			name:    "whitespace collapsed",
			message: "  cerca   Laura\n Bianchi ",
			want:    "cerca Laura Bianchi",
		},
		{
			name:    "empty message gets a default",
			message: "   ",
			want:    "Nuova conversazione",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FallbackTitle(tc.message); got != tc.want {
				t.Fatalf("FallbackTitle(%q) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}

func TestFallbackTitleTruncatesOnRunes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("è", 100)
	got := FallbackTitle(long)

	if !utf8.ValidString(got) {
		t.Fatalf("truncation broke encoding: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if n := len([]rune(got)); n > 49 {
		t.Fatalf("title too long: %d runes", n)
	}
}
