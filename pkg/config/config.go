// Package config loads the retrodesk server configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// StaticDir holds the built client; empty disables static serving.
	StaticDir       string        `yaml:"static_dir"`
	UploadsDir      string        `yaml:"uploads_dir"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigin      string        `yaml:"cors_origin"`
	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

// StorageConfig configures the SQLite store. An empty path runs without a
// database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// EmailConfig configures outgoing mail.
type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// DesktopConfig is the viewport the shell lays icons and windows out for.
type DesktopConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`
	Email    EmailConfig   `yaml:"email"`
	Desktop  DesktopConfig `yaml:"desktop"`
	LogLevel string        `yaml:"log_level"`
}

// ValidationError names the offending setting.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			UploadsDir:      "uploads",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigin:      "*",
		},
		Email: EmailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Desktop: DesktopConfig{
			Width:  1280,
			Height: 800,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults, applies the environment and
// validates. A missing file or an empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := getenv("RETRODESK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("RETRODESK_STATIC"); v != "" {
		c.Server.StaticDir = v
	}
	if v := getenv("RETRODESK_UPLOADS"); v != "" {
		c.Server.UploadsDir = v
	}
	if v := getenv("RETRODESK_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := getenv("RETRODESK_TLS_CERT"); v != "" {
		c.Server.TLSCert = v
	}
	if v := getenv("RETRODESK_TLS_KEY"); v != "" {
		c.Server.TLSKey = v
	}
	if v := getenv("EMAIL_USER"); v != "" {
		c.Email.User = v
	}
	if v := getenv("EMAIL_PASS"); v != "" {
		c.Email.Password = v
	} else if v := getenv("EMAIL_APP_PASSWORD"); v != "" {
		c.Email.Password = v
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return &ValidationError{Path: "server.addr", Err: fmt.Errorf("addr is required")}
	}
	if strings.TrimSpace(c.Server.UploadsDir) == "" {
		return &ValidationError{Path: "server.uploads_dir", Err: fmt.Errorf("uploads_dir is required")}
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return &ValidationError{Path: "server", Err: fmt.Errorf("timeouts must be >= 0")}
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return &ValidationError{Path: "server.tls", Err: fmt.Errorf("tls_cert and tls_key must be set together")}
	}
	if c.Email.Port < 0 || c.Email.Port > 65535 {
		return &ValidationError{Path: "email.port", Err: fmt.Errorf("port must be between 0 and 65535")}
	}
	if c.Desktop.Width <= 0 || c.Desktop.Height <= 0 {
		return &ValidationError{Path: "desktop", Err: fmt.Errorf("width and height must be > 0")}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error onto slog levels. An empty
// string is info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warn, error")
}
