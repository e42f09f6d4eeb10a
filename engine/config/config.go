package config

import (
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

/**
 * @brief Application configuration loaded from a TOML file.
 */
type Config struct {
	/** @brief Root directory that relative asset paths resolve against. */
	AssetBasePath string `toml:"asset_base_path"`
	/** @brief Number of background workers used for asset loads. */
	WorkerCount int `toml:"worker_count"`
	/** @brief Upper bound on live texture cache entries before a warning is logged. */
	MaxTextureCount int `toml:"max_texture_count"`
	/** @brief Edge size in pixels of the checkerboard placeholder texture. */
	PlaceholderSize int `toml:"placeholder_size"`
	/** @brief Model files to load when running the validator. */
	Models []string `toml:"models"`
	/** @brief Watch the asset directory and evict cached textures on change. */
	WatchAssets bool `toml:"watch_assets"`
}

/**
 * @brief Returns a configuration with sensible defaults applied.
 */
func Default() *Config {
	return &Config{
		AssetBasePath:   "assets",
		WorkerCount:     runtime.NumCPU(),
		MaxTextureCount: 1024,
		PlaceholderSize: 32,
		WatchAssets:     false,
	}
}

/**
 * @brief Loads the configuration from path. Missing fields keep their
 * default values. A missing file is an error.
 */
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU()
	}
	if cfg.PlaceholderSize <= 0 {
		cfg.PlaceholderSize = 32
	}
	return cfg, nil
}
