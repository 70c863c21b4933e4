package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  MENTORAT  ", "EMPLOI  ", "  FORMATION"},
			expected: []string{"MENTORAT", "EMPLOI", "FORMATION"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"MENTORAT", "EMPLOI", "MENTORAT", "AUTRE", "EMPLOI"},
			expected: []string{"MENTORAT", "EMPLOI", "AUTRE"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"MENTORAT", "", "  ", "EMPLOI"},
			expected: []string{"MENTORAT", "EMPLOI"},
		},
		{
			name:     "preserves case",
			input:    []string{"Foo", "foo", "FOO"},
			expected: []string{"Foo", "foo", "FOO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "lowercases and dedupes",
			input:    []string{"A@b.com", "a@B.com", "A@B.COM"},
			expected: []string{"a@b.com"},
		},
		{
			name:     "trims, lowercases, and dedupes",
			input:    []string{"  FOO ", "bar", "Foo", "BAR"},
			expected: []string{"foo", "bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrimLower(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
