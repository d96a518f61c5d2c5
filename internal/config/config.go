package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"light-chat/internal/chat"
)

// Default values
const (
	DefaultBackendURL      = "http://127.0.0.1:8000"
	DefaultFallbackMessage = chat.DefaultFallbackMessage
	DefaultTheme           = "auto"
)

// Environment variable names
const (
	EnvBackendURL      = "LIGHT_CHAT_BACKEND_URL"
	EnvTimeout         = "LIGHT_CHAT_TIMEOUT"
	EnvFallbackMessage = "LIGHT_CHAT_FALLBACK_MESSAGE"
	EnvVerbose         = "LIGHT_CHAT_VERBOSE"
	EnvLogFile         = "LIGHT_CHAT_LOG_FILE"
	EnvTheme           = "LIGHT_CHAT_THEME"
)

// Config holds all application configuration
type Config struct {
	// Backend settings
	BackendURL     string        `yaml:"backend_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 means no timeout

	// Chat settings
	FallbackMessage string `yaml:"fallback_message"`

	// Display settings
	Theme string `yaml:"theme"` // glamour style: auto, dark, light, notty
	Plain bool   `yaml:"plain"` // line-mode REPL instead of the full-screen UI

	// Diagnostics
	Verbose bool   `yaml:"verbose"`
	LogFile string `yaml:"log_file"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		BackendURL:      DefaultBackendURL,
		RequestTimeout:  0,
		FallbackMessage: DefaultFallbackMessage,
		Theme:           DefaultTheme,
		Plain:           false,
		Verbose:         false,
		LogFile:         expandHome("~/.light-chat/light-chat.log"),
	}
}

// DefaultPath is where the optional YAML config file lives
func DefaultPath() string {
	return expandHome("~/.light-chat/config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path,
// a .env file in the working directory, then the environment.
// A missing file at either location is not an error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays values present in the YAML file
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	c.LogFile = expandHome(c.LogFile)
	return nil
}

// mergeEnv overlays values set in the environment
func (c *Config) mergeEnv() error {
	if v := GetEnv(EnvBackendURL); v != "" {
		c.BackendURL = v
	}
	if v := GetEnv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.RequestTimeout = d
	}
	if v := GetEnv(EnvFallbackMessage); v != "" {
		c.FallbackMessage = v
	}
	if v := GetEnv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVerbose, err)
		}
		c.Verbose = b
	}
	if v := GetEnv(EnvLogFile); v != "" {
		c.LogFile = expandHome(v)
	}
	if v := GetEnv(EnvTheme); v != "" {
		c.Theme = v
	}
	return nil
}

// Write saves cfg as YAML, creating the parent directory
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL cannot be empty")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("backend URL must include a host")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}
	if strings.TrimSpace(c.FallbackMessage) == "" {
		return fmt.Errorf("fallback message cannot be empty")
	}
	switch c.Theme {
	case "auto", "dark", "light", "notty":
	default:
		return fmt.Errorf("unknown theme %q (want auto, dark, light or notty)", c.Theme)
	}
	return nil
}

// expandHome expands the ~ in file paths to the user's home directory
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := getHomeDir()
		return homeDir + path[1:]
	}
	return path
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	if home := GetEnv("HOME"); home != "" {
		return home
	}
	// Fallback for Windows
	if home := GetEnv("USERPROFILE"); home != "" {
		return home
	}
	return "."
}

// GetEnv is a wrapper around os.Getenv for easier testing
var GetEnv = os.Getenv
