// Package memory provides in-process adapters for the engine's ports,
// used by tests and by any host that does not need persistence across
// restarts. Grounded on the teacher's pattern of small structs implementing
// a ports interface directly against an in-memory map.
package memory

import (
	"context"
	"fmt"
	"sync"

	"duelcore/internal/domain"
)

// CardCatalog is an in-memory ports.CardCatalog backed by a map of
// preloaded definitions.
type CardCatalog struct {
	mu          sync.RWMutex
	definitions map[string]domain.CardDefinition
}

// NewCardCatalog builds a catalog preloaded with the given definitions.
func NewCardCatalog(defs []domain.CardDefinition) *CardCatalog {
	m := make(map[string]domain.CardDefinition, len(defs))
	for _, d := range defs {
		m[d.CardID] = d
	}
	return &CardCatalog{definitions: m}
}

// GetCardDefinition implements ports.CardCatalog.
func (c *CardCatalog) GetCardDefinition(ctx context.Context, cardID string) (domain.CardDefinition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[cardID]
	if !ok {
		return domain.CardDefinition{}, fmt.Errorf("card definition %q not found", cardID)
	}
	return def, nil
}
