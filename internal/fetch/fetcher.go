// Package fetch retrieves listing pages with a browser-like request
// identity; the marketplace blocks obvious non-browser clients.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of a listing page is read. Listing pages are a
// few hundred KB; anything past this is not a product page.
const maxBodyBytes = 10 << 20

// Error reports a failed page fetch. StatusCode is 0 for transport
// failures.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher downloads listing pages. One attempt per call, bounded timeout;
// retrying is the caller's decision.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher with the given request identity and timeout.
func New(userAgent string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Page fetches the listing page at rawURL and returns its HTML.
func (f *Fetcher) Page(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	return string(body), nil
}
