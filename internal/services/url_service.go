package services

import (
	"net/url"
	"strings"
)

// UTMParams are the five campaign fields attached to a QR code. Empty fields
// are never written into the destination URL.
type UTMParams struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// IsValidURL accepts only absolute http/https URLs. Anything else, including
// javascript: and other schemes, is rejected.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// BuildFinalURL sets each non-empty UTM field as a query parameter on the
// destination, overwriting a same-named existing parameter in place and
// appending new ones after any pre-existing query. Existing parameter order
// is preserved.
func BuildFinalURL(destination string, utm UTMParams) (string, error) {
	u, err := url.Parse(destination)
	if err != nil {
		return "", err
	}

	pairs := parseQueryOrdered(u.RawQuery)
	for _, p := range []struct{ key, val string }{
		{"utm_source", utm.Source},
		{"utm_medium", utm.Medium},
		{"utm_campaign", utm.Campaign},
		{"utm_term", utm.Term},
		{"utm_content", utm.Content},
	} {
		if p.val != "" {
			pairs = setParam(pairs, p.key, p.val)
		}
	}

	u.RawQuery = encodeQueryOrdered(pairs)
	return u.String(), nil
}

type queryPair struct {
	key string
	val string
}

func parseQueryOrdered(rawQuery string) []queryPair {
	var pairs []queryPair
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, val, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			k = key
		}
		v, err := url.QueryUnescape(val)
		if err != nil {
			v = val
		}
		pairs = append(pairs, queryPair{key: k, val: v})
	}
	return pairs
}

// setParam replaces the first occurrence of key in place, drops any later
// duplicates and appends at the end when the key is new.
func setParam(pairs []queryPair, key, val string) []queryPair {
	out := pairs[:0]
	replaced := false
	for _, p := range pairs {
		if p.key == key {
			if replaced {
				continue
			}
			p.val = val
			replaced = true
		}
		out = append(out, p)
	}
	if !replaced {
		out = append(out, queryPair{key: key, val: val})
	}
	return out
}

func encodeQueryOrdered(pairs []queryPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.val))
	}
	return b.String()
}
