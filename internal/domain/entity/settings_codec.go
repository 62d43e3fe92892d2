package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// engineRecord is the stored form of a custom engine. The nickname is the
// map key, not a field.
type engineRecord struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	SuggestURL string `json:"suggestUrl,omitempty"`
	IconURL    string `json:"iconUrl,omitempty"`
}

// EncodeCustomEngines serializes custom engines keyed by nickname.
func EncodeCustomEngines(engines map[string]Engine) (string, error) {
	records := make(map[string]engineRecord, len(engines))
	for nickname, e := range engines {
		records[nickname] = engineRecord{
			Name:       e.Name,
			URL:        e.ResultURLTemplate,
			SuggestURL: e.SuggestURLTemplate,
			IconURL:    e.IconURL,
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode custom engines: %w", err)
	}
	return string(data), nil
}

// DecodeCustomEngines parses the stored custom engine map. Empty input is an
// empty map. Nicknames are normalized.
func DecodeCustomEngines(raw string) (map[string]Engine, error) {
	engines := make(map[string]Engine)
	if strings.TrimSpace(raw) == "" {
		return engines, nil
	}

	var records map[string]engineRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode custom engines: %w", err)
	}
	for nickname, r := range records {
		nick := NormalizeNickname(nickname)
		if nick == "" {
			continue
		}
		engines[nick] = Engine{
			Nickname:           nick,
			Name:               r.Name,
			ResultURLTemplate:  r.URL,
			SuggestURLTemplate: r.SuggestURL,
			IconURL:            r.IconURL,
		}
	}
	return engines, nil
}

// EncodeNicknames serializes a nickname list, never as null.
func EncodeNicknames(nicknames []string) string {
	if nicknames == nil {
		nicknames = []string{}
	}
	data, _ := json.Marshal(nicknames)
	return string(data)
}

// DecodeNicknames parses a stored nickname list.
func DecodeNicknames(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var nicknames []string
	if err := json.Unmarshal([]byte(raw), &nicknames); err != nil {
		return nil, fmt.Errorf("decode nickname list: %w", err)
	}
	out := nicknames[:0]
	for _, n := range nicknames {
		if n = NormalizeNickname(n); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// DecodeColumns parses a stored column count and clamps it.
func DecodeColumns(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultColumns
	}
	return ClampColumns(n)
}

// OpaqueOr returns raw when it is valid JSON, fallback otherwise.
func OpaqueOr(raw string, fallback string) json.RawMessage {
	if strings.TrimSpace(raw) == "" || !json.Valid([]byte(raw)) {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(raw)
}
