// Package config loads application settings and plan input files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the settings read.
const EnvPrefix = "CORPUS_PLANNER"

// Settings are process-level options, independent of any single plan.
type Settings struct {
	LogLevel      string         `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string         `mapstructure:"log_format" validate:"oneof=text json"`
	Workers       int            `mapstructure:"workers" validate:"gte=1,lte=64"`
	DefaultMarket string         `mapstructure:"default_market" validate:"required"`
	Server        ServerSettings `mapstructure:"server"`
	Data          DataSettings   `mapstructure:"data"`
}

// ServerSettings configure the HTTP API.
type ServerSettings struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	CacheCleanup time.Duration `mapstructure:"cache_cleanup" validate:"gte=0"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	MaxBodyBytes int           `mapstructure:"max_body_bytes" validate:"gte=0"`
}

// DataSettings replace the embedded market tables with files on disk, keyed by market id.
type DataSettings struct {
	IndexFiles map[string]string `mapstructure:"index_files"`
	PEFiles    map[string]string `mapstructure:"pe_files"`
}

// LoadSettings reads settings from an optional YAML file, then CORPUS_PLANNER_*
// environment variables, over built-in defaults. An empty path skips the file.
func LoadSettings(configPath string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("workers", 4)
	v.SetDefault("default_market", "sensex")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cache_ttl", 10*time.Minute)
	v.SetDefault("server.cache_cleanup", 15*time.Minute)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.max_body_bytes", 1<<20)

	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		defer file.Close()
		if err := v.ReadConfig(file); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := NewValidator().ValidateSettings(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Registry builds the market registry, applying any configured data files.
func (s *Settings) Registry() (*marketdata.Registry, error) {
	registry, err := marketdata.DefaultRegistry()
	if err != nil {
		return nil, err
	}

	for id, path := range s.Data.IndexFiles {
		table, err := marketdata.LoadIndexFile(path)
		if err != nil {
			return nil, err
		}
		if registry, err = registry.WithIndex(id, table); err != nil {
			return nil, fmt.Errorf("index file %s: %w", path, err)
		}
	}

	for id, path := range s.Data.PEFiles {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", path, err)
		}
		table, err := marketdata.LoadPECSV(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		if registry, err = registry.WithPE(id, table); err != nil {
			return nil, fmt.Errorf("pe file %s: %w", path, err)
		}
	}
	return registry, nil
}
