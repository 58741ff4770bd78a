package token

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Truncator cuts text down to a token budget. The encoding is loaded lazily
// on first use because tiktoken may need to fetch its BPE ranks.
type Truncator struct {
	maxTokens int

	once    sync.Once
	enc     *tiktoken.Tiktoken
	loadErr error
}

// NewTruncator returns a Truncator; maxTokens <= 0 disables truncation.
func NewTruncator(maxTokens int) *Truncator {
	return &Truncator{maxTokens: maxTokens}
}

func (t *Truncator) encoding() (*tiktoken.Tiktoken, error) {
	t.once.Do(func() {
		t.enc, t.loadErr = tiktoken.GetEncoding(encodingName)
	})
	return t.enc, t.loadErr
}

// Truncate returns text unchanged when it fits, otherwise the first maxTokens
// tokens followed by an ellipsis. When the encoding cannot be loaded it falls
// back to whitespace-separated words and returns the load error alongside.
func (t *Truncator) Truncate(text string) (string, error) {
	if t == nil || t.maxTokens <= 0 {
		return text, nil
	}

	enc, err := t.encoding()
	if err != nil {
		return truncateWords(text, t.maxTokens), err
	}

	ids := enc.Encode(text, nil, nil)
	if len(ids) <= t.maxTokens {
		return text, nil
	}
	return strings.TrimSpace(enc.Decode(ids[:t.maxTokens])) + "…", nil
}

func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ") + "…"
}
