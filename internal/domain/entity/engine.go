// Package entity defines the core start page domain types.
package entity

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Engine validation errors.
var (
	ErrInvalidNickname    = errors.New("nickname must be non-empty and contain no whitespace")
	ErrEmptyName          = errors.New("engine name cannot be empty")
	ErrMissingPlaceholder = errors.New("result URL template must contain %s")
	ErrInvalidIconURL     = errors.New("icon URL must be http(s) or embedded image data")
	ErrInvalidSuggestURL  = errors.New("suggest URL must be an http(s) URL")
	ErrDuplicateNickname  = errors.New("nickname is already used by another engine")
)

// QueryPlaceholder is the token substituted with the encoded search terms.
const QueryPlaceholder = "%s"

// Engine is a search engine a query can be dispatched to.
type Engine struct {
	Nickname          string `json:"nickname"`
	Name              string `json:"name"`
	ResultURLTemplate string `json:"url"`
	// SuggestURLTemplate has its search-term parameter stripped.
	// Empty means the engine has no autocomplete.
	SuggestURLTemplate string `json:"suggestUrl,omitempty"`
	// IconURL is an http(s) URL or a data:image URL. Empty renders initials.
	IconURL string `json:"iconUrl,omitempty"`
}

// HasSuggest reports whether the engine can supply autocomplete suggestions.
func (e Engine) HasSuggest() bool {
	return strings.TrimSpace(e.SuggestURLTemplate) != ""
}

// Initials returns the fallback badge text shown when no icon is set.
func (e Engine) Initials() string {
	src := e.Nickname
	if src == "" {
		src = e.Name
	}
	r := []rune(strings.ToUpper(src))
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}

// NormalizeNickname lowercases and trims a nickname.
func NormalizeNickname(nickname string) string {
	return strings.ToLower(strings.TrimSpace(nickname))
}

// Validate checks the engine definition. It does not check uniqueness.
func (e Engine) Validate() error {
	if e.Nickname == "" || strings.IndexFunc(e.Nickname, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidNickname, e.Nickname)
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(e.ResultURLTemplate, QueryPlaceholder) {
		return fmt.Errorf("%w: %q", ErrMissingPlaceholder, e.ResultURLTemplate)
	}
	if e.SuggestURLTemplate != "" && !hasHTTPScheme(e.SuggestURLTemplate) {
		return fmt.Errorf("%w: %q", ErrInvalidSuggestURL, e.SuggestURLTemplate)
	}
	if e.IconURL != "" && !hasHTTPScheme(e.IconURL) && !strings.HasPrefix(e.IconURL, "data:image/") {
		return fmt.Errorf("%w: %q", ErrInvalidIconURL, e.IconURL)
	}
	return nil
}

func hasHTTPScheme(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
