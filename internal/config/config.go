// Package config loads the algoviz settings from a YAML file and applies flag and
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/algoviz/pkg/controller"
	"github.com/aretw0/algoviz/pkg/domain"
	"github.com/aretw0/algoviz/pkg/generator"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks the environment variables read by FromEnv. A double underscore
// separates nested keys, e.g. ALGOVIZ_REDIS__ADDR.
const EnvPrefix = "ALGOVIZ_"

// Limits applied by Normalize.
const (
	MaxArraySize = 200
	MaxGridSide  = 100
)

// envIgnored lists ALGOVIZ_* variables read elsewhere, which are not config keys.
var envIgnored = map[string]bool{
	"ALGOVIZ_MAX_INPUT_SIZE": true,
}

// ErrInvalidConfig is returned when a setting cannot be repaired by clamping.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of the CLI and the servers.
type Config struct {
	Mode      string `yaml:"mode" mapstructure:"mode"`
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm"`
	Speed     int    `yaml:"speed" mapstructure:"speed"`

	ArraySize int `yaml:"array_size" mapstructure:"array_size"`
	MinValue  int `yaml:"min_value" mapstructure:"min_value"`
	MaxValue  int `yaml:"max_value" mapstructure:"max_value"`

	GridRows int `yaml:"grid_rows" mapstructure:"grid_rows"`
	GridCols int `yaml:"grid_cols" mapstructure:"grid_cols"`
	// ObstaclePercentage is in 0..100.
	ObstaclePercentage int `yaml:"obstacle_percentage" mapstructure:"obstacle_percentage"`

	// Seed fixes the generator when non-zero.
	Seed     uint64 `yaml:"seed" mapstructure:"seed"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// StoreDir persists subjects as files when no redis address is set.
	StoreDir string `yaml:"store_dir" mapstructure:"store_dir"`

	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Redis  RedisConfig  `yaml:"redis" mapstructure:"redis"`
}

// ServerConfig configures the HTTP and MCP surfaces.
type ServerConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr"`
	MCPPort int    `yaml:"mcp_port" mapstructure:"mcp_port"`
}

// RedisConfig enables the redis subject store when Addr is set.
type RedisConfig struct {
	Addr   string        `yaml:"addr" mapstructure:"addr"`
	Prefix string        `yaml:"prefix" mapstructure:"prefix"`
	TTL    time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mode:               string(domain.ModeSorting),
		Algorithm:          string(domain.AlgorithmBubble),
		Speed:              domain.DefaultSpeed,
		ArraySize:          generator.DefaultSize,
		MinValue:           generator.DefaultMin,
		MaxValue:           generator.DefaultMax,
		GridRows:           generator.DefaultRows,
		GridCols:           generator.DefaultCols,
		ObstaclePercentage: int(generator.DefaultObstacleFraction * 100),
		LogLevel:           "warn",
		Server: ServerConfig{
			Addr:    ":5001",
			MCPPort: 8090,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Apply decodes overrides onto cfg. Keys follow the yaml names; nested sections are
// maps. String values are converted, so flags and environment variables can be passed
// through unchanged.
func (c *Config) Apply(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(overrides); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Normalize clamps numeric settings into range and validates the rest.
func (c *Config) Normalize() error {
	c.Speed = domain.ClampSpeed(c.Speed)
	c.ArraySize = clamp(c.ArraySize, 1, MaxArraySize)
	c.GridRows = clamp(c.GridRows, 1, MaxGridSide)
	c.GridCols = clamp(c.GridCols, 1, MaxGridSide)
	if c.GridRows*c.GridCols < 2 {
		c.GridCols = 2
	}
	c.ObstaclePercentage = clamp(c.ObstaclePercentage, 0, 100)

	if c.MinValue > c.MaxValue {
		return fmt.Errorf("%w: min_value %d exceeds max_value %d", ErrInvalidConfig, c.MinValue, c.MaxValue)
	}
	mode, err := domain.ParseMode(c.Mode)
	if err != nil {
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.Algorithm == "" {
		c.Algorithm = string(defaultAlgorithm(mode))
	}
	if _, err := domain.ParseAlgorithm(mode, c.Algorithm); err != nil {
		return fmt.Errorf("%w: algorithm %q is not a %s algorithm", ErrInvalidConfig, c.Algorithm, mode)
	}
	return nil
}

// UseMode switches the config to mode and drops an algorithm of the other mode, so
// Normalize falls back to the default of mode.
func (c *Config) UseMode(mode domain.Mode) {
	c.Mode = string(mode)
	if domain.Algorithm(c.Algorithm).Mode() != mode {
		c.Algorithm = ""
	}
}

func defaultAlgorithm(mode domain.Mode) domain.Algorithm {
	if mode == domain.ModePathfinding {
		return domain.AlgorithmDijkstra
	}
	return domain.AlgorithmBubble
}

// SubjectSpec returns the generation parameters of the config.
func (c Config) SubjectSpec() controller.SubjectSpec {
	return controller.SubjectSpec{
		Size:             c.ArraySize,
		Min:              c.MinValue,
		Max:              c.MaxValue,
		Rows:             c.GridRows,
		Cols:             c.GridCols,
		ObstacleFraction: float64(c.ObstaclePercentage) / 100,
	}
}

// Params returns the run parameters of the config.
func (c Config) Params() controller.Params {
	return controller.Params{
		Mode:      domain.Mode(c.Mode),
		Algorithm: domain.Algorithm(c.Algorithm),
		Speed:     c.Speed,
	}
}

// FromEnv collects the ALGOVIZ_* variables of environ as overrides.
func FromEnv(environ []string) map[string]any {
	out := map[string]any{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) || envIgnored[key] {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__")
		Set(out, path, value)
	}
	return out
}

// Set stores value at path, creating nested maps as needed.
func Set(m map[string]any, path []string, value any) {
	for _, k := range path[:len(path)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
