// Package urlutil derives the deterministic cache/archive key for an audit
// target from a raw URL. Two spellings of the same page must normalize to
// the same AnalysisTarget or the result cache degrades to a miss on every
// request.
package urlutil

import (
	"errors"
	"net"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/idna"

	"github.com/pagelens/pagelens/internal/model"
)

var (
	ErrEmptyURL    = errors.New("empty URL")
	ErrMissingHost = errors.New("URL has no host")
)

// Options control optional normalization policies.
type Options struct {
	// DropTrackingParams removes common tracking params (utm_*, gclid, ...).
	DropTrackingParams bool

	// StripTrailingSlash treats /a and /a/ the same (root "/" is kept).
	StripTrailingSlash bool

	// DefaultScheme is assumed for schemeless input; empty requires a scheme.
	DefaultScheme string
}

// DefaultOptions match how the audit service keys its cache.
func DefaultOptions() Options {
	return Options{
		DropTrackingParams: true,
		StripTrailingSlash: true,
		DefaultScheme:      "https",
	}
}

var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {}, "utm_content": {},
	"gclid": {}, "fbclid": {}, "mc_cid": {}, "mc_eid": {},
}

// NormalizeTarget canonicalizes raw into the AnalysisTarget key: lowercased
// scheme and host (IDN hosts to punycode), default ports stripped,
// credentials and fragments dropped, path cleaned and query params sorted.
func NormalizeTarget(raw string, opts Options) (model.AnalysisTarget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if opts.DefaultScheme != "" && !strings.Contains(raw, "://") {
		raw = opts.DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", ErrMissingHost
	}

	u.Scheme = strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") || port == "" {
		u.Host = host
	} else {
		u.Host = net.JoinHostPort(host, port)
	}

	u.User = nil
	u.Fragment = ""

	cleanPath := path.Clean(u.Path)
	if cleanPath == "." {
		cleanPath = "/"
	}
	if opts.StripTrailingSlash && len(cleanPath) > 1 {
		cleanPath = strings.TrimRight(cleanPath, "/")
	}
	u.Path = cleanPath

	q := u.Query()
	if opts.DropTrackingParams {
		for k := range q {
			if _, ok := trackingParams[strings.ToLower(k)]; ok {
				q.Del(k)
			}
		}
	}
	u.RawQuery = sortedEncode(q)

	return model.AnalysisTarget(u.String()), nil
}

// sortedEncode renders query params with sorted keys and values so the key
// is deterministic regardless of input order.
func sortedEncode(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vs := append([]string(nil), q[k]...)
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// SameHost reports whether two already-normalized targets share a hostname.
func SameHost(a, b model.AnalysisTarget) bool {
	ua, errA := url.Parse(a.String())
	ub, errB := url.Parse(b.String())
	if errA != nil || errB != nil {
		return false
	}
	return ua.Hostname() == ub.Hostname()
}
