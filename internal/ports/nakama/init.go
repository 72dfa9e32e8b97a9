package nakama

import (
	"context"
	"database/sql"

	"duelcore/internal/app"
	"duelcore/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires the storage-backed ports into a Dispatcher and registers
// the match handler and RPCs with the Nakama runtime, the same shape as
// the teacher's InitModule (internal/ports/nakama/init.go) minus the
// Vivox/bot/onboarding registrations this engine has no use for.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	configPath := env["duelcore_config_path"]
	if configPath == "" {
		configPath = "data/engine_config.json"
	}
	if err := config.LoadEngineConfig(configPath); err != nil {
		logger.Warn("InitModule: failed to load engine config from %q, using defaults: %v", configPath, err)
	}
	cfg := config.GetEngineConfig()

	dispatcher := app.NewDispatcher(
		NewStorageCardCatalog(nk),
		NewStorageDeckRepo(nk),
		NewStorageTournamentRepo(nk),
		NewStorageMatchStore(nk),
		cfg.ShuffleSeed,
	)

	if effects, err := LoadEffectRegistry(ctx, nk); err != nil {
		logger.Warn("InitModule: failed to load effect registry, attacks will deal base damage only: %v", err)
	} else {
		dispatcher.Effects = effects
	}

	if err := initializer.RegisterMatch(MatchNameDuel, NewMatchFactory(dispatcher)); err != nil {
		return err
	}
	if err := initializer.RegisterRpc("find_match", RpcFindMatch); err != nil {
		return err
	}

	logger.Info("duelcore Go module loaded.")
	return nil
}
