package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/threadtree/pkg/pipeline"
	"github.com/matzehuels/threadtree/pkg/server"
)

// Cache backends.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// defaultKeyPrefix scopes the cache keys written by the serve command.
const defaultKeyPrefix = "api:"

// Graph stores for the serve command.
const (
	storeMemory = "memory"
	storeMongo  = "mongo"
)

// Config holds settings read from the TOML config file. Command-line flags
// take precedence over every field.
//
//	order = "post"
//	order_by = "x"
//	interval = "750ms"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	store = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	key_prefix = "api:"
type Config struct {
	Order    string   `toml:"order"`
	OrderBy  string   `toml:"order_by"`
	Interval duration `toml:"interval"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisURL  string `toml:"redis_url"`
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	Store         string `toml:"store"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	// KeyPrefix scopes API cache keys apart from CLI keys in a shared cache.
	KeyPrefix string `toml:"key_prefix"`
}

// duration decodes TOML strings such as "500ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// defaultConfig returns the built-in settings.
func defaultConfig() Config {
	return Config{
		Order:    pipeline.DefaultOrder,
		OrderBy:  pipeline.DefaultOrderBy,
		Interval: duration{defaultInterval},
		Cache:    CacheConfig{Backend: cacheFile},
		Server:   ServerConfig{Addr: server.DefaultAddr, Store: storeMemory, KeyPrefix: defaultKeyPrefix},
	}
}

// configPath returns the default config file location using XDG
// (~/.config/threadtree/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path on top of the defaults. A missing file is only an
// error when explicit is set. Unknown keys are logged and ignored.
func loadConfig(path string, explicit bool, logger *log.Logger) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return defaultConfig(), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("unknown config keys", "file", path, "keys", strings.Join(keys, ", "))
	}
	logger.Debug("loaded config", "file", path)
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case cacheFile, cacheRedis, cacheNone:
	default:
		return fmt.Errorf("invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Server.Store {
	case storeMemory, storeMongo:
	default:
		return fmt.Errorf("invalid store: %q (must be one of: memory, mongo)", c.Server.Store)
	}
	if c.Interval.Duration <= 0 {
		return fmt.Errorf("invalid interval: %s", c.Interval.Duration)
	}
	return nil
}
