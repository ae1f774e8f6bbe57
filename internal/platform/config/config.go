// Package config loads runtime settings for the registration CLI and the mock
// backend: built-in defaults, then an optional YAML file, then CAPREG_*
// environment variables. A .env file in the working directory is read first.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment keys: CAPREG_API_BASE_URL -> api.base_url.
const EnvPrefix = "CAPREG_"

// Config is the full settings tree.
type Config struct {
	API  API  `koanf:"api"`
	Log  Log  `koanf:"log"`
	Mock Mock `koanf:"mock"`
}

// API describes how to reach the admissions backend.
type API struct {
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	Token      string        `koanf:"token"`
	DegreeCode string        `koanf:"degree_code"`
}

type Log struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

// Mock configures the in-process fake backend.
type Mock struct {
	Addr string `koanf:"addr"`
	// DevOTP, when set, is issued instead of a random code. Local runs only.
	DevOTP string `koanf:"dev_otp"`
	// OTPTTL bounds how long an issued code stays valid.
	OTPTTL time.Duration `koanf:"otp_ttl"`
	// Token, when set, must be presented as a bearer token on every request.
	Token string `koanf:"token"`
}

func defaults() map[string]any {
	return map[string]any{
		"api.base_url":    "http://localhost:5000",
		"api.timeout":     "30s",
		"api.token":       "",
		"api.degree_code": "",
		"log.level":       "info",
		"log.format":      "json",
		"mock.addr":       ":5000",
		"mock.dev_otp":    "",
		"mock.otp_ttl":    "10m",
		"mock.token":      "",
	}
}

// Load builds a Config. configPath may be empty; a missing .env is ignored.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps CAPREG_API_BASE_URL to api.base_url: the first segment is the
// section, the rest is the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Validate rejects settings the programs cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	if c.Mock.DevOTP != "" && !isSixDigits(c.Mock.DevOTP) {
		errs = append(errs, errors.New("mock.dev_otp must be 6 digits"))
	}
	if c.Mock.OTPTTL <= 0 {
		errs = append(errs, fmt.Errorf("mock.otp_ttl must be positive, got %s", c.Mock.OTPTTL))
	}

	return errors.Join(errs...)
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
