package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"duelcore/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

const effectCollection = "duelcore_effects"

// LoadEffectRegistry lists every published EffectScript in Nakama storage
// and unmarshals it into the map the Dispatcher interprets attacks'
// EffectScript keys against. Grounded on the teacher's
// items.GetUserProgression (internal/ports/nakama equivalent in
// cra88y-block-server's items/storage_operations.go): list a collection's
// keys, then read/unmarshal each object's value.
func LoadEffectRegistry(ctx context.Context, nk runtime.NakamaModule) (map[string]domain.Effect, error) {
	registry := make(map[string]domain.Effect)

	cursor := ""
	for {
		objects, next, err := nk.StorageList(ctx, "", "", effectCollection, 100, cursor)
		if err != nil {
			return nil, fmt.Errorf("list effect registry: %w", err)
		}
		for _, obj := range objects {
			var effect domain.Effect
			if err := json.Unmarshal([]byte(obj.Value), &effect); err != nil {
				return nil, fmt.Errorf("unmarshal effect %q: %w", obj.Key, err)
			}
			registry[obj.Key] = effect
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return registry, nil
}
