package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/pagesum/internal/extract"
)

const (
	// DefaultUserAgent impersonates a common desktop browser; some sites
	// refuse obvious bots outright.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

	// DefaultMaxBytes caps how much of a response body is read.
	DefaultMaxBytes int64 = 10 << 20

	defaultRedirectMaxHops = 5
)

// Page is the extracted content of one fetched URL. It is built from a
// single response and not modified afterwards.
type Page struct {
	SourceURL string
	Title     string
	BodyText  string
}

// Client wraps http.Client and adds a user agent, a per-request timeout and
// a redirect cap.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Zero means a single attempt.
	MaxAttempts int
	// PerRequestTimeout bounds each request. Zero leaves only the caller's context.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
	// MaxBytes limits the body size read. Zero means DefaultMaxBytes.
	MaxBytes int64
	// Extractor turns the body into a Page. Nil means extract.Default.
	Extractor extract.Extractor
}

// FetchPage downloads rawURL and extracts its title and body text.
func (c *Client) FetchPage(ctx context.Context, rawURL string) (Page, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return Page{}, err
	}
	ex := c.Extractor
	if ex == nil {
		ex = extract.Default{}
	}
	doc, err := ex.Extract(body, rawURL)
	if err != nil {
		return Page{}, fmt.Errorf("extract %s: %w", rawURL, err)
	}
	return Page{SourceURL: rawURL, Title: doc.Title, BodyText: doc.Text}, nil
}

// Get issues a GET with context and user-agent and returns the body decoded
// to UTF-8. Only transient failures are retried, and only when MaxAttempts > 1.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		body, err := c.tryOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return nil, lastErr
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

func (c *Client) tryOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > limit {
		raw = raw[:limit]
		log.Warn().Str("url", rawURL).Int64("limit", limit).Msg("response body truncated at size limit")
	}
	r, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return b, nil
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 500
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = defaultRedirectMaxHops
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
