// Package ports declares the narrow external collaborators the engine
// depends on (spec §6): card definitions, deck contents, tournament
// membership and match persistence. The engine never imports a concrete
// adapter directly; only these interfaces.
package ports

import (
	"context"

	"duelcore/internal/domain"
)

// CardCatalog resolves card definitions by id. Backed by a static data
// file or a remote catalog service; the engine only ever reads through it.
type CardCatalog interface {
	// GetCardDefinition returns the immutable definition for a card id.
	GetCardDefinition(ctx context.Context, cardID string) (domain.CardDefinition, error)
}
