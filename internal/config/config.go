package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Board    BoardConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// StorageConfig names the key the board is saved under.
type StorageConfig struct {
	Key string
}

// BoardConfig holds assignment rules.
type BoardConfig struct {
	// SlotDelete is "keep-entry" or "cascade".
	SlotDelete string `mapstructure:"slot_delete"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PoolWidth     int  `mapstructure:"pool_width"`
	PoolCollapsed bool `mapstructure:"pool_collapsed"`
	ConfirmReset  bool `mapstructure:"confirm_reset"`
}

// LogConfig holds logging settings. The TUI owns the terminal, so logs
// always go to a file.
type LogConfig struct {
	Path  string
	Level string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "pairboard")
}

// DefaultPath is where Save writes and Load reads unless PAIRBOARD_CONFIG is set.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "pairboard", "config.toml")
}

func defaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(dataDir(), "pairboard.db"))
	v.SetDefault("storage.key", "pairboard/assignments/v1")
	v.SetDefault("board.slot_delete", "keep-entry")
	v.SetDefault("ui.pool_width", 24)
	v.SetDefault("ui.pool_collapsed", false)
	v.SetDefault("ui.confirm_reset", true)
	v.SetDefault("log.path", filepath.Join(dataDir(), "pairboard.log"))
	v.SetDefault("log.level", "info")
}

// Load reads configuration from file and env. Env var overrides use prefix PAIRBOARD_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("PAIRBOARD_CONFIG"))
}

// LoadFile is Load with an explicit config file; an empty path searches the
// default location. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PAIRBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.PoolWidth < 12 {
		c.UI.PoolWidth = 12
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("PAIRBOARD_CONFIG")
	if path == "" {
		path = DefaultPath()
	}
	return SaveFile(cfg, path)
}

// SaveFile writes cfg as TOML to path.
func SaveFile(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("storage.key", cfg.Storage.Key)
	v.Set("board.slot_delete", cfg.Board.SlotDelete)
	v.Set("ui.pool_width", cfg.UI.PoolWidth)
	v.Set("ui.pool_collapsed", cfg.UI.PoolCollapsed)
	v.Set("ui.confirm_reset", cfg.UI.ConfirmReset)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
