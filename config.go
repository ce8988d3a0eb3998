package save

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultHexKey is the well-known key retail saves are encrypted with.
// It is tried first before a caller prompts a human for one.
const DefaultHexKey = "62 35 71 68 68 38 73 61 4A 38 55 6C 44 4A 55 7A 54 5A 58 64 32 54 67 36 6D 62 6F 38 57 38 6E 35"

// Config holds service configuration. All fields have working defaults so
// a zero Config is usable.
type Config struct {
	// BackupDir is where pre-write snapshots are kept.
	BackupDir string `env:"DREAMSAVE_BACKUP_DIR" envDefault:"backups"`

	// MaxBackups is the snapshot retention count.
	MaxBackups int `env:"DREAMSAVE_MAX_BACKUPS" envDefault:"10"`

	// SaveDir overrides the platform game-data directory for auto-discovery.
	SaveDir string `env:"DREAMSAVE_SAVE_DIR"`

	// DefaultKey overrides the well-known hex key tried during auto-load.
	DefaultKey string `env:"DREAMSAVE_DEFAULT_KEY"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
