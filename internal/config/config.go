// Package config loads the driver configuration from a yaml or json file
// with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Device  DeviceConfig  `json:"device"`
	HTTP    HTTPConfig    `json:"http"`
	Replay  ReplayConfig  `json:"replay"`
	Logging LoggingConfig `json:"logging"`
}

// DeviceConfig identifies the vacuum toward the transport.
type DeviceConfig struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	SubType  string `json:"sub_type"`
}

type HTTPConfig struct {
	Addr string `json:"addr"`
}

// ReplayConfig points the development transport at a directory of
// recorded statuses and map payloads.
type ReplayConfig struct {
	Dir             string `json:"dir"`
	IntervalSeconds int    `json:"interval_seconds"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c *ReplayConfig) SetDefaults() {
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 10
	}
}

// Load parses the config file, applies env overrides (WEBACK_ prefix,
// "__" as the path separator), defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("WEBACK_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "weback_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Logging.SetDefaults()
	cfg.Replay.SetDefaults()
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Device.Name == "" {
		return nil, fmt.Errorf("device.name is required")
	}
	return &cfg, nil
}
