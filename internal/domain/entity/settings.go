package entity

import "encoding/json"

// Speed dial grid bounds.
const (
	MinColumns     = 1
	MaxColumns     = 15
	DefaultColumns = 4
)

// Settings is the persisted start page state.
// SpeedDial and Favicons are carried through untouched.
type Settings struct {
	CustomEngines        map[string]Engine
	DeletedBuiltins      []string
	SpeedDial            json.RawMessage
	Columns              int
	Favicons             json.RawMessage
	CurrentEngine        string
	DefaultSearchEngine  string
	DefaultSuggestEngine string
}

// NewSettings returns empty settings with default columns.
func NewSettings() *Settings {
	return &Settings{
		CustomEngines: make(map[string]Engine),
		Columns:       DefaultColumns,
	}
}

// ClampColumns bounds a column count, mapping unset values to the default.
func ClampColumns(n int) int {
	switch {
	case n <= 0:
		return DefaultColumns
	case n > MaxColumns:
		return MaxColumns
	default:
		return n
	}
}
