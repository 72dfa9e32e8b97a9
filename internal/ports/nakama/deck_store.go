package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"duelcore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const deckCollection = "duelcore_decks"

// StorageDeckRepo resolves a player's registered deck from Nakama storage,
// keyed by deck id in system-owned storage rows (read with an empty user
// id), not under the owning user's own storage rows.
type StorageDeckRepo struct {
	nk runtime.NakamaModule
}

// NewStorageDeckRepo builds a DeckRepo over Nakama storage.
func NewStorageDeckRepo(nk runtime.NakamaModule) *StorageDeckRepo {
	return &StorageDeckRepo{nk: nk}
}

func (r *StorageDeckRepo) GetDeck(ctx context.Context, deckID string) (ports.DeckList, error) {
	objects, err := r.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: deckCollection, Key: deckID, UserID: ""},
	})
	if err != nil {
		return ports.DeckList{}, fmt.Errorf("storage read for deck %q: %w", deckID, err)
	}
	if len(objects) == 0 {
		return ports.DeckList{}, fmt.Errorf("deck %q not registered", deckID)
	}
	var deck ports.DeckList
	if err := json.Unmarshal([]byte(objects[0].Value), &deck); err != nil {
		return ports.DeckList{}, fmt.Errorf("unmarshal deck %q: %w", deckID, err)
	}
	return deck, nil
}

var _ ports.DeckRepo = (*StorageDeckRepo)(nil)
