// Package auth implements the credential syntax check for submitted API keys.
package auth

import (
	"fmt"
	"regexp"
)

// KeyPrefix is the required prefix of a submitted API key.
const KeyPrefix = "sk-"

// KeyChecker validates the structure of client-supplied API keys.
// It checks syntax only; whether the key is actually accepted by the
// completion provider surfaces later, as a job failure.
type KeyChecker struct {
	re        *regexp.Regexp
	suffixLen int
}

// NewKeyChecker builds a checker for keys of the form "sk-" followed by
// suffixLen alphanumeric characters.
func NewKeyChecker(suffixLen int) (*KeyChecker, error) {
	if suffixLen <= 0 {
		return nil, fmt.Errorf("key suffix length must be positive, got %d", suffixLen)
	}
	re, err := regexp.Compile(fmt.Sprintf(`^sk-[A-Za-z0-9]{%d}$`, suffixLen))
	if err != nil {
		return nil, fmt.Errorf("compile key pattern: %w", err)
	}
	return &KeyChecker{re: re, suffixLen: suffixLen}, nil
}

// Valid reports whether the key matches the expected credential syntax.
func (c *KeyChecker) Valid(key string) bool {
	return c.re.MatchString(key)
}

// SuffixLen returns the configured suffix length.
func (c *KeyChecker) SuffixLen() int {
	return c.suffixLen
}
