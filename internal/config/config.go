package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Log      LogConfig
	Server   ServerConfig
}

// StoreConfig selects where scenarios are persisted.
type StoreConfig struct {
	Backend  string
	FilePath string `mapstructure:"file_path"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	Addr   string
	Prefix string
}

type CatalogConfig struct {
	Variant string
}

type LogConfig struct {
	Level string
	Path  string
}

type ServerConfig struct {
	Addr string
}

// DataDir is where stores and logs live unless configured otherwise.
func DataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "scenariopanel")
}

// DefaultPath is the config file read when neither a path nor SCENARIOPANEL_CONFIG is given.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "scenariopanel", "config.toml")
}

// Load reads configuration from .env, file and env. Env var overrides use prefix SCENARIOPANEL_.
// path, when set, wins over SCENARIOPANEL_CONFIG.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// default values
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.file_path", filepath.Join(DataDir(), "scenarios.json"))
	v.SetDefault("database.path", filepath.Join(DataDir(), "scenarios.db"))
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "scenariopanel:")
	v.SetDefault("catalog.variant", "full")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(DataDir(), "scenariopanel.log"))
	v.SetDefault("server.addr", "127.0.0.1:8087")

	v.SetConfigType("toml")

	cfgPath := path
	if cfgPath == "" {
		cfgPath = os.Getenv("SCENARIOPANEL_CONFIG")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SCENARIOPANEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.FilePath == "" {
		c.Store.FilePath = filepath.Join(DataDir(), "scenarios.json")
	}
	if !ValidBackend(c.Store.Backend) {
		return Config{}, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return c, nil
}

// ValidBackend reports whether name is a known store backend.
func ValidBackend(name string) bool {
	switch name {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
		return true
	}
	return false
}

// ResolvePath returns path, else SCENARIOPANEL_CONFIG, else DefaultPath.
func ResolvePath(path string) string {
	if path == "" {
		path = os.Getenv("SCENARIOPANEL_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	return path
}

// Save writes cfg as TOML to ResolvePath(path).
func Save(cfg Config, path string) error {
	path = ResolvePath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.backend", cfg.Store.Backend)
	v.Set("store.file_path", cfg.Store.FilePath)
	v.Set("database.path", cfg.Database.Path)
	v.Set("redis.addr", cfg.Redis.Addr)
	v.Set("redis.prefix", cfg.Redis.Prefix)
	v.Set("catalog.variant", cfg.Catalog.Variant)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("server.addr", cfg.Server.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
