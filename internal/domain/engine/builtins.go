// Package engine holds the search engine registry and its built-in defaults.
package engine

import (
	"strings"

	"github.com/bnema/startpage/internal/domain/entity"
)

// FallbackNickname is tried when a stored default engine is not live.
const FallbackNickname = "g"

const iconService = "https://icons.duckduckgo.com/ip3/"

// Builtins returns the engines that ship with the start page, in display order.
func Builtins() []entity.Engine {
	return []entity.Engine{
		{
			Nickname:           "g",
			Name:               "Google (JA)",
			ResultURLTemplate:  "https://www.google.com/search?q=%s&hl=ja",
			SuggestURLTemplate: "https://suggestqueries.google.com/complete/search?client=firefox&hl=ja&q=",
			IconURL:            iconService + "google.com.ico",
		},
		{
			Nickname:           "gs",
			Name:               "Google (EN)",
			ResultURLTemplate:  "https://www.google.com/search?q=%s&hl=en",
			SuggestURLTemplate: "https://suggestqueries.google.com/complete/search?client=firefox&hl=en&q=",
			IconURL:            iconService + "google.com.ico",
		},
		{
			Nickname:           "y",
			Name:               "YouTube",
			ResultURLTemplate:  "https://www.youtube.com/results?search_query=%s",
			SuggestURLTemplate: "https://suggestqueries.google.com/complete/search?client=firefox&ds=yt&hl=ja&q=",
			IconURL:            iconService + "youtube.com.ico",
		},
		{
			Nickname:           "a",
			Name:               "Amazon (JP)",
			ResultURLTemplate:  "https://www.amazon.co.jp/s?k=%s",
			SuggestURLTemplate: "https://completion.amazon.co.jp/search/complete?search-alias=aps&client=amazon-search-ui&mkt=6&q=",
			IconURL:            iconService + "amazon.co.jp.ico",
		},
		{
			Nickname:           "w",
			Name:               "Wikipedia (JA)",
			ResultURLTemplate:  "https://ja.wikipedia.org/wiki/%s",
			SuggestURLTemplate: "https://ja.wikipedia.org/w/api.php?action=opensearch&format=json&search=",
			IconURL:            iconService + "ja.wikipedia.org.ico",
		},
		{
			Nickname:          "m",
			Name:              "Google Maps",
			ResultURLTemplate: "https://www.google.com/maps/search/%s",
			IconURL:           iconService + "maps.google.com.ico",
		},
		{
			Nickname:          "x",
			Name:              "X",
			ResultURLTemplate: "https://twitter.com/search?q=%s",
			IconURL:           iconService + "x.com.ico",
		},
		{
			Nickname:          "r",
			Name:              "Reddit",
			ResultURLTemplate: "https://www.reddit.com/search/?q=%s",
			IconURL:           iconService + "reddit.com.ico",
		},
		{
			Nickname:          "gi",
			Name:              "Google画像",
			ResultURLTemplate: "https://www.google.com/search?tbm=isch&q=%s",
			IconURL:           iconService + "google.com.ico",
		},
		{
			Nickname:           "b",
			Name:               "Bing",
			ResultURLTemplate:  "https://www.bing.com/search?q=%s",
			SuggestURLTemplate: "https://api.bing.com/osjson.aspx?query=",
			IconURL:            iconService + "bing.com.ico",
		},
		{
			Nickname:           "d",
			Name:               "DuckDuckGo",
			ResultURLTemplate:  "https://duckduckgo.com/?q=%s",
			SuggestURLTemplate: "https://duckduckgo.com/ac/?q=",
			IconURL:            iconService + "duckduckgo.com.ico",
		},
	}
}

// legacySuggestURLs maps suggest values stored as bare nicknames by older
// versions to full suggest URLs.
var legacySuggestURLs = map[string]string{
	"g":  "https://suggestqueries.google.com/complete/search?client=firefox&hl=ja",
	"ge": "https://suggestqueries.google.com/complete/search?client=firefox&hl=en",
	"gs": "https://suggestqueries.google.com/complete/search?client=firefox&hl=en",
	"b":  "https://api.bing.com/osjson.aspx?query=",
	"d":  "https://duckduckgo.com/ac/?q=",
}

// UpgradeSuggestURL rewrites a legacy suggest value to a full URL.
// It returns the value unchanged with ok=true when it is already a URL or
// empty, and ok=false when the value is neither a URL nor a known nickname.
func UpgradeSuggestURL(value string) (upgraded string, ok bool) {
	if value == "" || hasHTTPPrefix(value) {
		return value, true
	}
	if full, found := legacySuggestURLs[value]; found {
		return full, true
	}
	for _, b := range Builtins() {
		if b.Nickname == value && b.SuggestURLTemplate != "" {
			return b.SuggestURLTemplate, true
		}
	}
	return "", false
}

func hasHTTPPrefix(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
