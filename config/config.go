package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/plus3/ecscore/ecs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	World   ecs.Config    `toml:"world" yaml:"world"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Stress  StressConfig  `toml:"stress" yaml:"stress"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// StressConfig drives cmd/ecs-stress. Flags override these values.
type StressConfig struct {
	Duration time.Duration `toml:"duration" yaml:"duration"`
	Entities int           `toml:"entities" yaml:"entities"`
	Script   string        `toml:"script" yaml:"script"`
	Lifetime int           `toml:"lifetime" yaml:"lifetime"` // ticks an entity lives before despawning
}

// Load reads the file at path over Default. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		World: ecs.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Stress: StressConfig{
			Duration: 10 * time.Second,
			Entities: 10000,
			Lifetime: 120,
		},
	}
}

func (c *Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Stress.Duration <= 0 {
		return fmt.Errorf("stress: duration must be positive, got %s", c.Stress.Duration)
	}
	if c.Stress.Entities < 0 {
		return fmt.Errorf("stress: entities must not be negative, got %d", c.Stress.Entities)
	}
	if c.Stress.Lifetime <= 0 {
		return fmt.Errorf("stress: lifetime must be positive, got %d", c.Stress.Lifetime)
	}
	return nil
}

// NewLogger builds a zap logger. An unknown level falls back to info.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
