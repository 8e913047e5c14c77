package services

import (
	"bytes"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	srcAttrRe   = regexp.MustCompile(`(?i)SRC\s*=\s*["']([^"']+)["']`)
	timestampRe = regexp.MustCompile(`(?i)\[timestamp\]`)
)

// The meta refresh, not a 3xx, is what lets the pixel request fire in the
// browser before navigation.
var trackingPageTmpl = template.Must(template.New("tracking").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Redirecting...</title>
  <meta name="robots" content="noindex">
  <meta http-equiv="refresh" content="1;url={{.FinalURL}}">
</head>
<body>
  <p>Redirecting...</p>
{{- if .PixelURL}}
  <img src="{{.PixelURL}}" width="1" height="1" style="display:none" alt="">
{{- end}}
</body>
</html>`))

type TrackingService struct{}

// ExtractURL pulls the trackable URL out of third-party impression markup.
// It accepts img/iframe/script elements via their SRC attribute, or a bare
// http(s) URL. An empty return means no usable tracking URL.
func (TrackingService) ExtractURL(tag string) string {
	if tag == "" {
		return ""
	}

	if m := srcAttrRe.FindStringSubmatch(tag); m != nil && m[1] != "" {
		return m[1]
	}

	trimmed := strings.TrimSpace(tag)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}

	return ""
}

// CacheBust substitutes every case-insensitive [timestamp] placeholder with
// the current epoch milliseconds. All occurrences share one value.
func (TrackingService) CacheBust(url string) string {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return timestampRe.ReplaceAllString(url, now)
}

// RenderPage builds the interstitial HTML: a 1-second meta refresh to the
// final URL plus, when the tag yields a URL, an invisible 1x1 pixel. A tag
// with no extractable URL degrades to a pixel-less page.
func (s TrackingService) RenderPage(tag, finalURL string) ([]byte, error) {
	pixelURL := s.ExtractURL(tag)
	if pixelURL != "" {
		pixelURL = s.CacheBust(pixelURL)
	}

	var buf bytes.Buffer
	err := trackingPageTmpl.Execute(&buf, struct {
		FinalURL string
		PixelURL string
	}{FinalURL: finalURL, PixelURL: pixelURL})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
