package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything stockroom needs to reach the products API.
type Config struct {
	APIBase         string        `validate:"required,url"`
	ResourcePath    string        `validate:"required,startswith=/"`
	UpdateMethod    string        `validate:"oneof=PATCH PUT"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	RefreshInterval time.Duration `validate:"gte=0"`
	ToastDuration   time.Duration `validate:"gt=0"`
	LogFile         string        `validate:"required"`
	LogLevel        string        `validate:"oneof=trace debug info warn warning error"`
}

const (
	defaultConfigPath     = "~/.config/stockroom/config.toml"
	defaultLogFile        = "~/.local/state/stockroom/stockroom.log"
	defaultAPIBase        = "http://127.0.0.1:3001"
	defaultResourcePath   = "/products"
	defaultUpdateMethod   = "PATCH"
	defaultRequestTimeout = 5 * time.Second
	defaultToastDuration  = 3 * time.Second
	defaultLogLevel       = "info"

	envPrefix = "stockroom"
)

// fileConfig mirrors config.toml. Durations are strings so "1500ms" and "5s"
// both work.
type fileConfig struct {
	APIBase         string `toml:"api_base"`
	ResourcePath    string `toml:"resource_path"`
	UpdateMethod    string `toml:"update_method"`
	RequestTimeout  string `toml:"request_timeout"`
	RefreshInterval string `toml:"refresh_interval"`
	ToastDuration   string `toml:"toast_duration"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
}

// envOverrides is filled from STOCKROOM_* variables. Unset variables leave
// the file value alone.
type envOverrides struct {
	APIBase         string        `envconfig:"API_BASE"`
	ResourcePath    string        `envconfig:"RESOURCE_PATH"`
	UpdateMethod    string        `envconfig:"UPDATE_METHOD"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL"`
	ToastDuration   time.Duration `envconfig:"TOAST_DURATION"`
	LogFile         string        `envconfig:"LOG_FILE"`
	LogLevel        string        `envconfig:"LOG_LEVEL"`
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		ResourcePath:   defaultResourcePath,
		UpdateMethod:   defaultUpdateMethod,
		RequestTimeout: defaultRequestTimeout,
		ToastDuration:  defaultToastDuration,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load reads the TOML config (falling back to defaults when missing), then a
// .env file in the working directory if present, then STOCKROOM_* variables.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func (c *Config) apply(raw fileConfig) error {
	setString(&c.APIBase, raw.APIBase)
	setString(&c.ResourcePath, raw.ResourcePath)
	setString(&c.UpdateMethod, raw.UpdateMethod)
	setString(&c.LogFile, raw.LogFile)
	setString(&c.LogLevel, raw.LogLevel)

	durations := []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"refresh_interval", raw.RefreshInterval, &c.RefreshInterval},
		{"toast_duration", raw.ToastDuration, &c.ToastDuration},
	}
	for _, d := range durations {
		value := strings.TrimSpace(d.value)
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parse config: %s: %w", d.name, err)
		}
		*d.dest = parsed
	}
	return nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	setString(&c.APIBase, env.APIBase)
	setString(&c.ResourcePath, env.ResourcePath)
	setString(&c.UpdateMethod, env.UpdateMethod)
	setString(&c.LogFile, env.LogFile)
	setString(&c.LogLevel, env.LogLevel)
	if env.RequestTimeout > 0 {
		c.RequestTimeout = env.RequestTimeout
	}
	if env.RefreshInterval > 0 {
		c.RefreshInterval = env.RefreshInterval
	}
	if env.ToastDuration > 0 {
		c.ToastDuration = env.ToastDuration
	}
	return nil
}

func (c *Config) normalize() {
	c.APIBase = strings.TrimRight(c.APIBase, "/")
	if !strings.HasPrefix(c.ResourcePath, "/") {
		c.ResourcePath = "/" + c.ResourcePath
	}
	c.ResourcePath = strings.TrimRight(c.ResourcePath, "/")
	if c.ResourcePath == "" {
		c.ResourcePath = defaultResourcePath
	}
	c.UpdateMethod = strings.ToUpper(c.UpdateMethod)
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFile = mustExpand(c.LogFile)
}

func setString(dest *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dest = trimmed
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
