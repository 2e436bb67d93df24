package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "no values", input: nil, expected: nil},
		{name: "blank values", input: []string{"", " , ,"}, expected: nil},
		{name: "single value", input: []string{"submitted"}, expected: []string{"submitted"}},
		{
			name:     "comma separated with spaces",
			input:    []string{" submitted ,in_review"},
			expected: []string{"submitted", "in_review"},
		},
		{
			name:     "repeated across values",
			input:    []string{"submitted,in_review", "submitted", "validated"},
			expected: []string{"submitted", "in_review", "validated"},
		},
		{
			name:     "case is preserved",
			input:    []string{"RDC,rdc"},
			expected: []string{"RDC", "rdc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input...))
		})
	}
}

func TestSet(t *testing.T) {
	set := Set([]string{" Graduat", "graduat", "", "Licence_BAC+3 "})

	assert.Len(t, set, 2)
	assert.Contains(t, set, "graduat")
	assert.Contains(t, set, "licence_bac+3")
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold(" rdc", "RDC "))
	assert.False(t, EqualFold("RDC", "Angola"))
	assert.False(t, EqualFold("", " "))
}
