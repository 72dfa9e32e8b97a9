package memory

import (
	"context"
	"fmt"
	"sync"

	"duelcore/internal/ports"
)

// DeckRepo is an in-memory ports.DeckRepo backed by a map of registered
// decks, keyed by deck id.
type DeckRepo struct {
	mu    sync.RWMutex
	decks map[string]ports.DeckList
}

// NewDeckRepo builds a deck repository preloaded with the given decks.
func NewDeckRepo(decks []ports.DeckList) *DeckRepo {
	m := make(map[string]ports.DeckList, len(decks))
	for _, d := range decks {
		m[d.DeckID] = d
	}
	return &DeckRepo{decks: m}
}

// GetDeck implements ports.DeckRepo.
func (r *DeckRepo) GetDeck(ctx context.Context, deckID string) (ports.DeckList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decks[deckID]
	if !ok {
		return ports.DeckList{}, fmt.Errorf("deck %q not found", deckID)
	}
	return d, nil
}
