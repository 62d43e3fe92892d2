// Package url provides URL detection and manipulation for the start page.
package url

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var schemeOrWWW = regexp.MustCompile(`(?i)^(https?://|www\.)`)

var hasHTTPScheme = regexp.MustCompile(`(?i)^https?://`)

// LooksLikeURL reports whether search box input should be navigated to directly.
// It matches an http(s) scheme or a www. prefix, or a dotted token without
// whitespace that does not start with "localhost".
//
//	"github.com"          → true
//	"www.example.org"     → true
//	"localhost:3000/test" → false
//	"openai gpt"          → false
func LooksLikeURL(input string) bool {
	if input == "" {
		return false
	}
	if schemeOrWWW.MatchString(input) {
		return true
	}
	return strings.Contains(input, ".") && !containsSpace(input) && !strings.HasPrefix(input, "localhost")
}

// LooksLikeClipboardURL is the clipboard variant of LooksLikeURL.
// It has no localhost exclusion.
func LooksLikeClipboardURL(input string) bool {
	if input == "" {
		return false
	}
	if schemeOrWWW.MatchString(input) {
		return true
	}
	return strings.Contains(input, ".") && !containsSpace(input)
}

// Normalize adds an https:// prefix when input has no http(s) scheme.
func Normalize(input string) string {
	if input == "" || hasHTTPScheme.MatchString(input) {
		return input
	}
	return "https://" + input
}

// ToDirectURL normalizes input and checks that it parses as an absolute
// http(s) URL with a host. The returned string keeps the input's spelling.
func ToDirectURL(input string) (string, bool) {
	candidate := Normalize(input)
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" || parsed.Hostname() == "" {
		return "", false
	}
	return candidate, true
}

// ExtractDomain extracts the normalized domain (host) from a URL string.
// Normalizes by stripping "www." prefix so youtube.com and www.youtube.com
// resolve to the same value.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
