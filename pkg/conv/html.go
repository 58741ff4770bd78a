package conv

import (
	"fmt"
	"io"
	"strings"

	"github.com/inbucket/html2text"
)

var textOptions = html2text.Options{
	OmitLinks:    true,
	PrettyTables: true,
}

// HTMLToText flattens pasted or fetched HTML (status pages, exported chat
// threads, meeting notes) into plain text suitable for analysis.
func HTMLToText(s string) (string, error) {
	out, err := html2text.FromString(s, textOptions)
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func HTMLReaderToText(r io.Reader) (string, error) {
	out, err := html2text.FromReader(r, textOptions)
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}
	return strings.TrimSpace(out), nil
}
