package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/pkg/conv"
	"github.com/sandevgo/sentinel/pkg/log"
	"github.com/sandevgo/sentinel/pkg/retry"
)

const (
	maxResponseSize     = 1 << 20 // 1MB limit
	defaultFetchTimeout = 15 * time.Second
)

// Fetcher downloads a page of team communication (status page, exported
// thread, meeting notes) and returns it as plain text for analysis.
type Fetcher struct {
	client  *http.Client
	retrier *retry.Retrier
}

func NewFetcherWithTimeout(timeout time.Duration, retryCfg *retry.Config) *Fetcher {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		retrier: retry.NewRetrier(retryCfg),
	}
}

func NewFetcher() *Fetcher {
	return NewFetcherWithTimeout(defaultFetchTimeout, nil)
}

// Fetch retries network errors, 429 and 5xx responses. Other 4xx responses
// and malformed URLs fail at once.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: unsupported url %q", core.ErrInvalidInput, rawURL)
	}

	var text string
	attempt := 0
	err = f.retrier.Do(ctx, func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", core.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Int("attempt", attempt).Msg("fetch failed")
			return fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			httpErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return httpErr
			}
			return retry.Permanent(httpErr)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}

		text, err = toText(resp.Header.Get("Content-Type"), string(body))
		if err != nil {
			return retry.Permanent(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	log.FromCtx(ctx).Debug().Str("url", u.Redacted()).Int("chars", len(text)).Msg("fetched")
	return text, nil
}

func toText(contentType, body string) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "text/html" || mediaType == "application/xhtml+xml" || conv.LooksLikeHTML(body) {
		return conv.HTMLToText(body)
	}
	return strings.TrimSpace(body), nil
}
