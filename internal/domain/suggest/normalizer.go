// Package suggest maps each engine's autocomplete payload to a flat list of
// suggestion strings.
package suggest

import (
	"github.com/tidwall/gjson"
)

// MaxSuggestions caps every normalized list.
const MaxSuggestions = 10

// Parser extracts suggestions from a decoded payload.
// A nil result means the payload did not have the expected shape, which
// normalizes to an empty list.
type Parser func(payload gjson.Result) []string

// parsers is keyed by engine nickname. Engines not listed use parseGeneric.
var parsers = map[string]Parser{
	"g":  parseOpenSearch,
	"gs": parseOpenSearch,
	"ge": parseOpenSearch,
	"y":  parseOpenSearch,
	"w":  parseOpenSearch,
	"b":  parseOpenSearch,
	"a":  parseOpenSearch,
	"d":  parsePhraseList,
}

// Normalize turns a raw payload into at most MaxSuggestions strings in
// upstream order. It never returns nil, never fails, and never invents a
// suggestion that the upstream did not send.
func Normalize(nickname string, payload []byte) (out []string) {
	defer func() {
		if recover() != nil {
			out = []string{}
		}
	}()

	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return []string{}
	}
	doc := gjson.ParseBytes(payload)

	if p, ok := parsers[nickname]; ok {
		return capped(p(doc))
	}
	return capped(parseGeneric(doc))
}

// parseOpenSearch handles [query, [suggestion, ...], ...].
func parseOpenSearch(doc gjson.Result) []string {
	if !doc.IsArray() {
		return nil
	}
	second := doc.Get("1")
	if !second.IsArray() {
		return nil
	}
	return stringsOf(second.Array())
}

// parsePhraseList handles [{"phrase": "..."}, ...].
func parsePhraseList(doc gjson.Result) []string {
	if !doc.IsArray() {
		return nil
	}
	items := doc.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		if phrase := item.Get("phrase"); phrase.Type == gjson.String && phrase.Str != "" {
			out = append(out, phrase.Str)
		}
	}
	return out
}

// parseGeneric is the best-effort extractor for engines without a table entry.
func parseGeneric(doc gjson.Result) []string {
	switch {
	case doc.IsArray():
		items := doc.Array()
		if allStrings(items) {
			return stringsOf(items)
		}
		if len(items) >= 2 && items[0].Type == gjson.String && items[1].IsArray() {
			return parseOpenSearch(doc)
		}
		if len(items) > 0 && items[0].IsObject() {
			return objectsOf(items)
		}
	case doc.IsObject():
		for _, key := range []string{"suggestions", "results"} {
			if list := doc.Get(key); list.IsArray() {
				items := list.Array()
				if allStrings(items) {
					return stringsOf(items)
				}
				return objectsOf(items)
			}
		}
	}
	return []string{}
}

func allStrings(items []gjson.Result) bool {
	for _, item := range items {
		if item.Type != gjson.String {
			return false
		}
	}
	return true
}

func stringsOf(items []gjson.Result) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == gjson.String && item.Str != "" {
			out = append(out, item.Str)
		}
	}
	return out
}

// objectsOf maps objects carrying a phrase or value field.
func objectsOf(items []gjson.Result) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch {
		case item.Type == gjson.String && item.Str != "":
			out = append(out, item.Str)
		case item.IsObject():
			for _, field := range []string{"phrase", "value"} {
				if v := item.Get(field); v.Type == gjson.String && v.Str != "" {
					out = append(out, v.Str)
					break
				}
			}
		}
	}
	return out
}

func capped(list []string) []string {
	if list == nil {
		return []string{}
	}
	if len(list) > MaxSuggestions {
		return list[:MaxSuggestions]
	}
	return list
}
