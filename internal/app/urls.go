package app

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"mvdan.cc/xurls/v2"
)

// ScanURLs returns the http(s) URLs found in text, in order of first
// appearance and without duplicates.
func ScanURLs(text string) ([]string, error) {
	re, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return nil, fmt.Errorf("failed to create regexp: %w", err)
	}

	found := re.FindAllString(text, -1)
	urls := make([]string, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, u := range found {
		u = strings.TrimSpace(u)
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls, nil
}

// ReadURLFile scans the file at path for URLs.
func ReadURLFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ScanURLs(string(b))
}

// MergeURLs appends extra to urls, normalizes each one and drops
// duplicates, keeping the first occurrence.
func MergeURLs(urls []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(urls)+len(extra))
	out := make([]string, 0, len(urls)+len(extra))
	for _, u := range append(append([]string{}, urls...), extra...) {
		u = NormalizeURL(u)
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

var trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"}

// NormalizeURL drops the fragment, lowercases the host and removes common
// tracking parameters. Unparseable input is returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	q := u.Query()
	removed := false
	for _, p := range trackingParams {
		if q.Has(p) {
			q.Del(p)
			removed = true
		}
	}
	// Leave the query untouched unless something was removed.
	if removed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
