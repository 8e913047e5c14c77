package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaAndroid = "Mozilla/5.0 (Linux; Android 10; SM-G973F) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Mobile Safari/537.36"
	uaIPad    = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	uaChrome  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaFirefox = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

func TestClassifyUserAgent(t *testing.T) {
	cases := []struct {
		name       string
		ua         string
		wantDevice string
		wantBrowse string
	}{
		{"iphone safari", uaIPhone, "mobile", "Safari"},
		{"android chrome", uaAndroid, "mobile", "Chrome"},
		{"ipad safari", uaIPad, "tablet", "Safari"},
		{"desktop chrome", uaChrome, "desktop", "Chrome"},
		{"desktop firefox", uaFirefox, "desktop", "Firefox"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			device, browser := ClassifyUserAgent(tc.ua)
			assert.Equal(t, tc.wantDevice, device)
			assert.Equal(t, tc.wantBrowse, browser)
		})
	}
}

func TestClassifyUserAgentUnknown(t *testing.T) {
	device, browser := ClassifyUserAgent("")
	assert.Equal(t, "desktop", device)
	assert.Equal(t, "Unknown", browser)

	device, browser = ClassifyUserAgent("totally-custom-agent/1.0")
	assert.Equal(t, "desktop", device)
	assert.Equal(t, "Unknown", browser)
}
