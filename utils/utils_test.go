package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewShortcode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewShortcode()
		assert.Regexp(t, pattern, code)
		assert.False(t, seen[code], "shortcodes must not repeat")
		seen[code] = true
	}
}
