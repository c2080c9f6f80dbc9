// Package config loads connector configuration from an optional YAML file and
// VOX_-prefixed environment variables, with programmatic defaults.
package config

import (
	"os"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Data        DataConfig        `koanf:"data"`
	Query       QueryConfig       `koanf:"query"`
	HuggingFace HuggingFaceConfig `koanf:"huggingface"`
	Audit       AuditConfig       `koanf:"audit"`
}

type ServerConfig struct {
	Port           int `koanf:"port"`
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

type DataConfig struct {
	Dir string `koanf:"dir"`
}

// QueryConfig holds the shaping thresholds passed into the volume reducer.
type QueryConfig struct {
	DefaultPageSize      int `koanf:"default_page_size"`
	MaxPageSize          int `koanf:"max_page_size"`
	VoiceMaxResults      int `koanf:"voice_max_results"`
	AggregationThreshold int `koanf:"aggregation_threshold"`
}

type HuggingFaceConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

type AuditConfig struct {
	DBPath string `koanf:"db_path"`
}

// Load reads configuration. Precedence, lowest to highest: defaults, the YAML
// file at path (skipped when path is empty or the file does not exist), then
// environment variables (VOX_SERVER__PORT, VOX_DATA__DIR, ...).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"server.port":                8080,
		"server.timeout_seconds":     30,
		"data.dir":                   "./data",
		"query.default_page_size":    10,
		"query.max_page_size":        50,
		"query.voice_max_results":    10,
		"query.aggregation_threshold": 20,
		"huggingface.base_url":       "https://api-inference.huggingface.co/models",
	}
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// Double underscore separates nesting levels so single underscores stay
	// usable inside key names (VOX_QUERY__MAX_PAGE_SIZE -> query.max_page_size).
	if err := k.Load(env.Provider("VOX_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "VOX_")), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
