package port

import (
	"context"

	"github.com/bnema/startpage/internal/domain/entity"
)

// SuggestionSource fetches the raw autocomplete payload for a query.
// The payload is the upstream engine's JSON, untouched.
type SuggestionSource interface {
	FetchSuggestions(ctx context.Context, engine entity.Engine, query string) ([]byte, error)
}
