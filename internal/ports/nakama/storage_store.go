package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"duelcore/internal/domain"
	"duelcore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const matchCollection = "duelcore_matches"

// StorageMatchStore persists Match snapshots through the Nakama storage
// engine, grounded on the teacher's VIP-status read/write pair
// (internal/ports/nakama/rpc.go RpcFindMatch/RpcSetVip): one collection,
// one JSON blob per row, server-only writes.
type StorageMatchStore struct {
	nk runtime.NakamaModule
}

// NewStorageMatchStore builds a MatchStore backed by Nakama's storage API.
func NewStorageMatchStore(nk runtime.NakamaModule) *StorageMatchStore {
	return &StorageMatchStore{nk: nk}
}

func (s *StorageMatchStore) LoadMatch(ctx context.Context, matchID string) (domain.Match, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: matchCollection, Key: matchID, UserID: ""},
	})
	if err != nil {
		return domain.Match{}, fmt.Errorf("storage read for match %q: %w", matchID, err)
	}
	if len(objects) == 0 {
		return domain.Match{}, fmt.Errorf("match %q not found in storage", matchID)
	}
	var match domain.Match
	if err := json.Unmarshal([]byte(objects[0].Value), &match); err != nil {
		return domain.Match{}, fmt.Errorf("unmarshal match %q: %w", matchID, err)
	}
	return recomputeDamageCounters(match), nil
}

// recomputeDamageCounters mirrors memory.MatchStore's invariant: a card's
// damageCounters is never trusted from whatever produced the stored value,
// it is always derived from (maxHP - currentHP) on load.
func recomputeDamageCounters(m domain.Match) domain.Match {
	if m.Game == nil {
		return m
	}
	game := *m.Game
	players := make(map[string]domain.PlayerGameState, len(game.Players))
	for id, p := range game.Players {
		if p.ActiveCard != nil {
			recomputed := p.ActiveCard.Recomputed()
			p.ActiveCard = &recomputed
		}
		for i := range p.BenchCards {
			p.BenchCards[i] = p.BenchCards[i].Recomputed()
		}
		players[id] = p
	}
	game.Players = players
	m.Game = &game
	return m
}

func (s *StorageMatchStore) SaveMatch(ctx context.Context, match domain.Match) error {
	value, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("marshal match %q: %w", match.MatchID, err)
	}
	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      matchCollection,
			Key:             match.MatchID,
			UserID:          "",
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("storage write for match %q: %w", match.MatchID, err)
	}
	return nil
}

var _ ports.MatchStore = (*StorageMatchStore)(nil)
