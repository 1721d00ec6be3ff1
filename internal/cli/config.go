package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Way/highcharts-utils/pkg/errors"
	"github.com/Way/highcharts-utils/pkg/series/gapfix"
)

// Config is the TOML configuration for the CLI and the server.
// Every field has a working default, so a config file is optional.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Cache    CacheConfig    `toml:"cache"`
	Redis    RedisConfig    `toml:"redis"`
	Mongo    MongoConfig    `toml:"mongo"`
	Server   ServerConfig   `toml:"server"`
}

// DefaultsConfig carries default expansion options.
type DefaultsConfig struct {
	Delta  float64 `toml:"delta"`
	Policy string  `toml:"policy"`
}

// CacheConfig selects the local cache behavior.
type CacheConfig struct {
	Dir      string `toml:"dir"`      // empty means the XDG cache dir
	Disabled bool   `toml:"disabled"` // disable caching entirely
}

// RedisConfig enables the Redis cache backend when Addr is set.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig enables dataset persistence for serve when URI is set.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Delta:  gapfix.DefaultDelta,
			Policy: gapfix.PolicyNearestNonGap.String(),
		},
		Mongo:  MongoConfig{Database: appName},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads a TOML config file, layered over the defaults.
// When path is empty the XDG config location is tried; a missing file is
// not an error, an unreadable or invalid one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, nil
}

// defaultConfigPath returns the XDG config location (~/.config/hcutils/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
