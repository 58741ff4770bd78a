package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate_Disabled(t *testing.T) {
	text := "Backend is blocked. Launch Friday."

	out, err := NewTruncator(0).Truncate(text)
	require.NoError(t, err)
	assert.Equal(t, text, out)

	var nilTruncator *Truncator
	out, err = nilTruncator.Truncate(text)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two…", truncateWords("one two three", 2))
	assert.Equal(t, "one two", truncateWords("one two", 2))
}
