// Package config loads crossroads settings from a YAML file, CROSSROADS_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/grammar"
	"github.com/aretw0/crossroads/pkg/persistence/middleware"
)

// DefaultFile is read when no explicit path is given and it exists in the working directory.
const DefaultFile = "crossroads.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CROSSROADS_"

type Config struct {
	Dialect     string            `mapstructure:"dialect"`
	LogLevel    string            `mapstructure:"log_level"`
	Mode        string            `mapstructure:"mode"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Transcripts TranscriptsConfig `mapstructure:"transcripts"`
	Sessions    SessionsConfig    `mapstructure:"sessions"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig enables the Redis dialog store when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SessionsConfig controls how headless dialog sessions are persisted.
// Dir selects the file store when Redis is not configured. EncryptionKey is a
// base64 AES-256 key; FallbackKeys still decrypt sessions sealed before a rotation.
// Redact lists patterns masked in stored free-text answers.
type SessionsConfig struct {
	Dir           string   `mapstructure:"dir"`
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`
	Redact        []string `mapstructure:"redact"`
}

// TranscriptsConfig points at a loam repository of agent messages.
type TranscriptsConfig struct {
	Dir string `mapstructure:"dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Dialect:  grammar.Strict.Name,
		LogLevel: "info",
		Mode:     string(domain.ModePlan),
		HTTP:     HTTPConfig{Addr: ":8080"},
		Redis: RedisConfig{
			Prefix: "crossroads:dialog:",
			TTL:    time.Hour,
		},
	}
}

// envKeys maps environment suffixes to config paths.
var envKeys = map[string]string{
	"DIALECT":         "dialect",
	"LOG_LEVEL":       "log_level",
	"MODE":            "mode",
	"HTTP_ADDR":       "http.addr",
	"REDIS_ADDR":      "redis.addr",
	"REDIS_PASSWORD":  "redis.password",
	"REDIS_DB":        "redis.db",
	"REDIS_PREFIX":    "redis.prefix",
	"REDIS_TTL":       "redis.ttl",
	"TRANSCRIPTS_DIR": "transcripts.dir",
	"SESSIONS_DIR":    "sessions.dir",
	"SESSIONS_KEY":    "sessions.encryption_key",
}

// Load reads path (or DefaultFile when path is empty and present), applies
// environment overrides through lookupEnv and validates the result.
func Load(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	raw := map[string]any{}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	if lookupEnv != nil {
		for suffix, key := range envKeys {
			if v, ok := lookupEnv(EnvPrefix + suffix); ok {
				setPath(raw, key, v)
			}
		}
	}

	cfg := Default()
	if err := Decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode converts a loosely typed map (YAML, JSON, MCP arguments) into out.
// Strings are accepted for numbers and durations.
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setPath(m map[string]any, path, value string) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	var errs []error
	if _, err := grammar.ParseDialect(c.Dialect); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseInteractionMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Sessions.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Sessions.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("sessions.encryption_key: %w", err))
		}
	}
	for _, k := range c.Sessions.FallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			errs = append(errs, fmt.Errorf("sessions.fallback_keys: %w", err))
		}
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// DialectValue resolves the configured dialect.
func (c Config) DialectValue() grammar.Dialect {
	d, err := grammar.ParseDialect(c.Dialect)
	if err != nil {
		return grammar.Strict
	}
	return d
}
