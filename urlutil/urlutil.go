// Package urlutil holds the URL helpers shared by the conversation flow and
// the link composer.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// IsAbsolute reports whether raw parses as a URL carrying both a scheme and
// a host.
func IsAbsolute(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}

// InjectUTM rewrites a desktop fallback URL so that utm_source and
// utm_campaign are present. Keys that already exist keep their original
// values untouched; the fragment survives the round trip and every query
// value comes out percent-encoded.
func InjectUTM(raw, source, campaign string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse desktop url: %w", err)
	}
	q := u.Query()
	if _, ok := q["utm_source"]; !ok && source != "" {
		q.Set("utm_source", source)
	}
	if _, ok := q["utm_campaign"]; !ok && campaign != "" {
		q.Set("utm_campaign", campaign)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Join appends an already-encoded query string to base using '&' when base
// carries a query component and '?' otherwise.
func Join(base, params string) string {
	if params == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params
}
