package helpers

import (
	"html"
	"strings"
)

// CleanHTMLText decodes HTML entities and trims surrounding whitespace,
// including non-breaking spaces left behind by entity decoding.
func CleanHTMLText(s string) string {
	decoded := html.UnescapeString(s)
	decoded = strings.ReplaceAll(decoded, " ", " ")
	return strings.TrimSpace(decoded)
}

// ResolveURL joins a possibly relative href against a site root.
func ResolveURL(baseURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimSuffix(baseURL, "/") + href
}
