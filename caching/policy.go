// Package caching decides, per rendered response, whether downstream
// shared/edge and browser caches may hold it, and emits the matching
// headers. It governs headers only; it never touches stored data.
package caching

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Directive is one response's caching decision.
type Directive struct {
	BrowserTTL time.Duration
	EdgeTTL    time.Duration
	Bypass     bool
}

// Policy carries the configured TTLs for cacheable responses.
type Policy struct {
	BrowserTTL time.Duration
	EdgeTTL    time.Duration
}

// ForResponse decides the Directive for a response. Rate-bearing pages are
// never cacheable: a stale cached page would show a stale rate as if
// current, so correctness wins over performance. Everything else may sit in
// a shared edge cache, with the browser TTL clamped to the edge TTL.
func (p Policy) ForResponse(method string, rateSensitive bool) Directive {
	if method != http.MethodGet || rateSensitive {
		return Directive{Bypass: true}
	}
	browser := p.BrowserTTL
	if browser > p.EdgeTTL {
		browser = p.EdgeTTL
	}
	return Directive{BrowserTTL: browser, EdgeTTL: p.EdgeTTL}
}

// Key computes the shared-cache key for a request URL: the normalized
// absolute URL with the method fixed to GET. Concurrent fills for the same
// key need no coordination; the computation is pure, so any racing response
// is equivalent and last write wins.
func Key(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")
	key := scheme + "://" + host + u.EscapedPath()
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

// Apply writes the headers for a Directive.
func Apply(h http.Header, d Directive) {
	if d.Bypass {
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		return
	}
	h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d",
		int(d.BrowserTTL.Seconds()), int(d.EdgeTTL.Seconds())))
}
