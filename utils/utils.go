package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewShortcode returns an 8-character uppercase code used to reference
// videos, quizzes and checklists inside step descriptions.
func NewShortcode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:8]
}
