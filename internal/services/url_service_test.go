package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidURL(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"https://a.b/c", true},
		{"http://example.com", true},
		{"https://example.com/path?q=1#frag", true},
		{"ftp://x", false},
		{"javascript:alert(1)", false},
		{"mailto:a@b.com", false},
		{"not a url", false},
		{"example.com/no-scheme", false},
		{"http://", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidURL(tc.raw), "IsValidURL(%q)", tc.raw)
	}
}

func TestBuildFinalURLAppendsAfterExistingQuery(t *testing.T) {
	got, err := BuildFinalURL("https://a.com/p?x=1", UTMParams{Source: "ig"})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/p?x=1&utm_source=ig", got)
}

func TestBuildFinalURLOverwritesExistingParam(t *testing.T) {
	got, err := BuildFinalURL("https://a.com/?utm_source=old&x=1", UTMParams{Source: "new"})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/?utm_source=new&x=1", got)
}

func TestBuildFinalURLEmptyFieldsUntouched(t *testing.T) {
	got, err := BuildFinalURL("https://a.com/p", UTMParams{})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/p", got)

	got, err = BuildFinalURL("https://a.com/p?keep=1", UTMParams{Medium: "email"})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/p?keep=1&utm_medium=email", got)
	assert.NotContains(t, got, "utm_source")
}

func TestBuildFinalURLAllFields(t *testing.T) {
	got, err := BuildFinalURL("https://a.com/", UTMParams{
		Source:   "ig",
		Medium:   "social",
		Campaign: "launch",
		Term:     "qr",
		Content:  "poster",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/?utm_source=ig&utm_medium=social&utm_campaign=launch&utm_term=qr&utm_content=poster", got)
}

func TestBuildFinalURLEscapesValues(t *testing.T) {
	got, err := BuildFinalURL("https://a.com/", UTMParams{Campaign: "summer sale"})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/?utm_campaign=summer+sale", got)
}

func TestBuildFinalURLUnparsableDestination(t *testing.T) {
	_, err := BuildFinalURL("://bad", UTMParams{Source: "ig"})
	assert.Error(t, err)
}
