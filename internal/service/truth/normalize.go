package truth

import (
	"fmt"
	"strings"

	"github.com/sandevgo/sentinel/internal/core"
)

// Normalize is the comparison form of a value: trimmed, inner whitespace
// collapsed to single spaces, lower case.
func Normalize(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

// Same reports whether two values are the same truth under Normalize.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func NewConflict(key, oldValue, newValue string) *core.Conflict {
	return &core.Conflict{
		Key:      key,
		OldValue: oldValue,
		NewValue: newValue,
		Question: fmt.Sprintf("Which is correct for %s: '%s' or '%s'?", key, oldValue, newValue),
	}
}
