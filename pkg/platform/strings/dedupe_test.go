package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnique(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil stays nil", input: nil, expected: nil},
		{name: "empty", input: []string{}, expected: []string{}},
		{name: "trims and drops blanks", input: []string{" rg ", "", "   "}, expected: []string{"rg"}},
		{name: "keeps first occurrence order", input: []string{"cpf", "rg", "cpf", " rg"}, expected: []string{"cpf", "rg"}},
		{name: "case sensitive", input: []string{"RG", "rg"}, expected: []string{"RG", "rg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Unique(tt.input))
		})
	}
}

func TestUniqueFold(t *testing.T) {
	got := UniqueFold([]string{
		"3F2504E0-4F89-11D3-9A0C-0305E82C3301",
		" 3f2504e0-4f89-11d3-9a0c-0305e82c3301 ",
		"",
		"b1c9a7e2-0000-4000-8000-000000000001",
	})
	assert.Equal(t, []string{
		"3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		"b1c9a7e2-0000-4000-8000-000000000001",
	}, got)
}
