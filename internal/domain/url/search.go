package url

import (
	"net/url"
	"strings"
)

// FallbackResultTemplate is used when no engine record can be resolved.
const FallbackResultTemplate = "https://www.google.com/search?q=%s"

// termParams are the query parameter names treated as the search term slot.
var termParams = []string{"q", "query", "term"}

// EncodeQueryComponent percent-encodes s like JavaScript's encodeURIComponent:
// everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped, so a space
// becomes %20 rather than +.
func EncodeQueryComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponentByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreservedComponentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// BuildResultURL replaces every "%s" in template with the encoded terms.
//
//	BuildResultURL("https://x/?q=%s&alt=%s", "a b") → "https://x/?q=a%20b&alt=a%20b"
func BuildResultURL(template, terms string) string {
	return strings.ReplaceAll(template, "%s", EncodeQueryComponent(terms))
}

// StripSuggestTarget removes the search term parameters from a suggest URL
// and drops a trailing slash, leaving the base URL the proxy re-adds the term to.
// Unparseable input is returned unchanged.
func StripSuggestTarget(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	if parsed.RawQuery != "" {
		values := parsed.Query()
		for _, p := range termParams {
			values.Del(p)
		}
		parsed.RawQuery = values.Encode()
	}
	return strings.TrimSuffix(parsed.String(), "/")
}
