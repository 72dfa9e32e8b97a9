package ports

import (
	"context"

	"duelcore/internal/domain"
)

// MatchStore persists and loads the authoritative Match aggregate. This is
// the narrow persistence port spec §9 calls for: callers never reach past
// it into a concrete database or storage engine.
type MatchStore interface {
	// SaveMatch persists the full match state, overwriting any prior save.
	SaveMatch(ctx context.Context, match domain.Match) error
	// LoadMatch retrieves a previously saved match by id.
	LoadMatch(ctx context.Context, matchID string) (domain.Match, error)
}
