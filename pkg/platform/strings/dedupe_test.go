package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "only separators", input: " , ,, ", expected: nil},
		{name: "single element", input: "broker:9092", expected: []string{"broker:9092"}},
		{name: "trims whitespace", input: "  a  , b ,c", expected: []string{"a", "b", "c"}},
		{name: "removes duplicates preserving order", input: "a,b,a,c,b", expected: []string{"a", "b", "c"}},
		{name: "case sensitive", input: "A,a", expected: []string{"A", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}

func TestSplitListLower(t *testing.T) {
	assert.Equal(t, []string{"backup", "eu"}, SplitListLower("Backup, BACKUP, eu"))
	assert.Nil(t, SplitListLower(""))
}
