package validation

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateResultTemplate checks a result URL template: absolute http(s) with
// at least one %s placeholder.
func ValidateResultTemplate(field, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{field + " cannot be empty"}
	}
	if !strings.Contains(value, "%s") {
		return []string{field + " must contain %s placeholder for the search query"}
	}

	candidate := strings.ReplaceAll(value, "%s", "query")
	parsed, err := url.Parse(candidate)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return []string{field + " must be an absolute http(s) URL"}
	}
	return nil
}

// ValidateNickname checks an engine nickname: non-empty, no whitespace.
func ValidateNickname(field, value string) []string {
	if value == "" {
		return []string{field + " cannot be empty"}
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return []string{field + " must not contain whitespace"}
	}
	return nil
}

// ValidateHostname checks a bare hostname as used in allow-lists.
func ValidateHostname(field, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{field + " contains an empty host"}
	}
	if strings.ContainsAny(value, "/:?#@ ") {
		return []string{field + " entry " + value + " must be a bare hostname without scheme, port or path"}
	}
	return nil
}
