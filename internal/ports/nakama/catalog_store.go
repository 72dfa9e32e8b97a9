package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"duelcore/internal/domain"
	"duelcore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const catalogCollection = "duelcore_catalog"

// StorageCardCatalog resolves card definitions from Nakama storage rather
// than a static file, so a game-ops team can publish new cards through the
// same storage engine used for match state, the same collection-per-
// concern shape as the teacher's "profiles" collection in rpc.go.
type StorageCardCatalog struct {
	nk runtime.NakamaModule
}

// NewStorageCardCatalog builds a CardCatalog over Nakama storage.
func NewStorageCardCatalog(nk runtime.NakamaModule) *StorageCardCatalog {
	return &StorageCardCatalog{nk: nk}
}

func (c *StorageCardCatalog) GetCardDefinition(ctx context.Context, cardID string) (domain.CardDefinition, error) {
	objects, err := c.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: catalogCollection, Key: cardID, UserID: ""},
	})
	if err != nil {
		return domain.CardDefinition{}, fmt.Errorf("storage read for card %q: %w", cardID, err)
	}
	if len(objects) == 0 {
		return domain.CardDefinition{}, fmt.Errorf("card %q not found in catalog", cardID)
	}
	var def domain.CardDefinition
	if err := json.Unmarshal([]byte(objects[0].Value), &def); err != nil {
		return domain.CardDefinition{}, fmt.Errorf("unmarshal card %q: %w", cardID, err)
	}
	return def, nil
}

var _ ports.CardCatalog = (*StorageCardCatalog)(nil)
