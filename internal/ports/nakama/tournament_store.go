package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"duelcore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const tournamentCollection = "duelcore_tournaments"

// StorageTournamentRepo resolves tournament rules from Nakama storage. A
// casual match never touches this adapter, mirroring the port's own
// contract.
type StorageTournamentRepo struct {
	nk runtime.NakamaModule
}

// NewStorageTournamentRepo builds a TournamentRepo over Nakama storage.
func NewStorageTournamentRepo(nk runtime.NakamaModule) *StorageTournamentRepo {
	return &StorageTournamentRepo{nk: nk}
}

func (r *StorageTournamentRepo) GetRules(ctx context.Context, tournamentID string) (ports.TournamentRules, error) {
	objects, err := r.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: tournamentCollection, Key: tournamentID, UserID: ""},
	})
	if err != nil {
		return ports.TournamentRules{}, fmt.Errorf("storage read for tournament %q: %w", tournamentID, err)
	}
	if len(objects) == 0 {
		return ports.TournamentRules{}, fmt.Errorf("tournament %q not found", tournamentID)
	}
	var rules ports.TournamentRules
	if err := json.Unmarshal([]byte(objects[0].Value), &rules); err != nil {
		return ports.TournamentRules{}, fmt.Errorf("unmarshal tournament %q: %w", tournamentID, err)
	}
	return rules, nil
}

var _ ports.TournamentRepo = (*StorageTournamentRepo)(nil)
