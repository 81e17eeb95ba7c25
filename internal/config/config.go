// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/model"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// EnvPrefix is prepended to every environment override, e.g. ROADRISK_SERVER_PORT
const EnvPrefix = "ROADRISK"

var ErrInvalidConfig = errors.New("invalid configuration")

// AppConfig holds the application configuration
type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Model     model.Params    `mapstructure:"model"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ServerConfig configures the dashboard HTTP host
type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

// Log backends
const (
	LogBackendZerolog = "zerolog"
	LogBackendLogrus  = "logrus"
)

// LogConfig configures the console logger
type LogConfig struct {
	Backend    string `mapstructure:"backend"`
	Level      string `mapstructure:"level"`
	TimeLayout string `mapstructure:"time_layout"`
	Colored    bool   `mapstructure:"colored"`
	JSON       bool   `mapstructure:"json"`
}

// DashboardConfig holds defaults for the page controls
type DashboardConfig struct {
	DefaultTopN int  `mapstructure:"default_top_n"`
	Trendline   bool `mapstructure:"trendline"`
}

// CacheConfig configures the rendered page cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	TTL     string `mapstructure:"ttl"`
}

// TTLDuration parses the cache TTL, accepting units such as "1d" or "90m"
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	d, err := str2duration.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("%w: cache ttl %q: %v", ErrInvalidConfig, c.TTL, err)
	}
	return d, nil
}

func setDefaults(v *viper.Viper) {
	params := model.DefaultParams()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("log.backend", LogBackendZerolog)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.time_layout", "2006-01-02 15:04:05")
	v.SetDefault("log.colored", true)
	v.SetDefault("log.json", false)
	v.SetDefault("dashboard.default_top_n", core.DefaultTopN)
	v.SetDefault("dashboard.trendline", true)
	v.SetDefault("model.n_estimators", params.NEstimators)
	v.SetDefault("model.max_depth", params.MaxDepth)
	v.SetDefault("model.min_samples_split", params.MinSamplesSplit)
	v.SetDefault("model.min_samples_leaf", params.MinSamplesLeaf)
	v.SetDefault("model.max_features", params.MaxFeatures)
	v.SetDefault("model.seed", params.Seed)
	v.SetDefault("model.parallelism", params.Parallelism)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "10m")
}

// Load reads the configuration from defaults, an optional YAML file and
// ROADRISK_* environment variables, in increasing order of precedence.
// A missing file at path is not an error.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at request time
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Log.Backend != LogBackendZerolog && c.Log.Backend != LogBackendLogrus {
		return fmt.Errorf("%w: log backend %q", ErrInvalidConfig, c.Log.Backend)
	}
	if c.Dashboard.DefaultTopN < core.MinTopN || c.Dashboard.DefaultTopN > core.MaxTopN {
		return fmt.Errorf("%w: default top n must be within [%d, %d]",
			ErrInvalidConfig, core.MinTopN, core.MaxTopN)
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Cache.Enabled {
		if _, err := c.Cache.TTLDuration(); err != nil {
			return err
		}
	}
	return nil
}
