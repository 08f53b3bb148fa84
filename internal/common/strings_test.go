package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsInsensitive(t *testing.T) {
	assert.True(t, ContainsInsensitive("Customer Satisfaction", "satisf"))
	assert.True(t, ContainsInsensitive("abc", ""))
	assert.False(t, ContainsInsensitive("Onboarding", "exit"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated text", 6, "trunc…"},
		{"héllo wörld", 4, "hél…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Truncate(tt.input, tt.n))
	}
}

func TestTrimAll(t *testing.T) {
	assert.Equal(t, []string{"Product A", "Product C"}, TrimAll(" Product A ", "", "  ", "Product C"))
	assert.Empty(t, TrimAll())
}
