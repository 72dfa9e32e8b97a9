// Package config loads engine-wide configuration shared by the dispatcher
// and its Nakama-facing adapter.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// EngineConfig controls the deterministic behaviour of a running engine.
type EngineConfig struct {
	// ShuffleSeed seeds every deck shuffle. Coin flips do not use it; they
	// derive from the match id, turn, action id and flip index alone. Zero
	// means "derive from the match id" rather than "use zero".
	ShuffleSeed int64 `json:"shuffle_seed"`
	// TestMode is loaded from the config file; no engine code reads it.
	TestMode bool `json:"test_mode"`
}

var (
	cfg      *EngineConfig
	loadOnce sync.Once
	loadErr  error
)

// defaultConfig is used whenever no config file has been loaded.
func defaultConfig() *EngineConfig {
	return &EngineConfig{ShuffleSeed: 0, TestMode: false}
}

// LoadEngineConfig loads engine configuration from the given path. Safe to
// call multiple times; only the first call's path takes effect.
func LoadEngineConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read engine config: %w", err)
			return
		}

		var c EngineConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal engine config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetEngineConfig returns the loaded configuration, or a safe default if
// LoadEngineConfig was never called or failed.
func GetEngineConfig() *EngineConfig {
	if cfg == nil {
		return defaultConfig()
	}
	return cfg
}

// ResetForTest clears the sync.Once so tests can reload configuration.
// Test-only; production code never calls this.
func ResetForTest() {
	cfg = nil
	loadErr = nil
	loadOnce = sync.Once{}
}
