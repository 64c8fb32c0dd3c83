package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyChecker(t *testing.T) {
	checker, err := NewKeyChecker(48)
	require.NoError(t, err)

	valid := "sk-" + strings.Repeat("a1B2", 12) // 48 alphanumeric chars

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"valid key", valid, true},
		{"wrong prefix", "pk-" + strings.Repeat("a", 48), false},
		{"missing prefix", strings.Repeat("a", 51), false},
		{"too short", "sk-" + strings.Repeat("a", 47), false},
		{"too long", "sk-" + strings.Repeat("a", 49), false},
		{"non-alphanumeric suffix", "sk-" + strings.Repeat("a", 47) + "!", false},
		{"embedded whitespace", "sk-" + strings.Repeat("a", 24) + " " + strings.Repeat("a", 23), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.Valid(tt.key))
		})
	}
}

func TestKeyCheckerConfigurableLength(t *testing.T) {
	checker, err := NewKeyChecker(43)
	require.NoError(t, err)

	assert.True(t, checker.Valid("sk-"+strings.Repeat("x", 43)))
	assert.False(t, checker.Valid("sk-"+strings.Repeat("x", 48)))
	assert.Equal(t, 43, checker.SuffixLen())
}

func TestNewKeyCheckerRejectsNonPositiveLength(t *testing.T) {
	_, err := NewKeyChecker(0)
	assert.Error(t, err)

	_, err = NewKeyChecker(-5)
	assert.Error(t, err)
}
