package repl

import (
	"errors"
	"slices"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain words", "set key value", []string{"set", "key", "value"}},
		{"extra whitespace", "  get \t key  ", []string{"get", "key"}},
		{"empty line", "   ", nil},
		{"double quoted", `set k "hello world"`, []string{"set", "k", "hello world"}},
		{"escapes", `set k "a\nb\t\"c\""`, []string{"set", "k", "a\nb\t\"c\""}},
		{"hex escape byte", `set k "\xff"`, []string{"set", "k", "\xff"}},
		{"single quoted literal", `set k 'a\nb'`, []string{"set", "k", `a\nb`}},
		{"empty quoted", `set k ""`, []string{"set", "k", ""}},
		{"adjacent parts join", `set k pre"mid"'post'`, []string{"set", "k", "premidpost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.line)
			if err != nil {
				t.Fatalf("Split(%q) error = %v", tt.line, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplit_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"unclosed double", `set k "abc`, ErrUnbalancedQuotes},
		{"unclosed single", `set k 'abc`, ErrUnbalancedQuotes},
		{"bad escape", `set k "\q"`, ErrInvalidEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.line)
			if !errors.Is(err, tt.want) {
				t.Errorf("Split(%q) error = %v, want %v", tt.line, err, tt.want)
			}
		})
	}
}
