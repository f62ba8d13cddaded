package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("expected default addr :5000, got %q", cfg.Server.Addr)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RETRODESK_ADDR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Desktop.Width != 1280 || cfg.Desktop.Height != 800 {
		t.Errorf("expected default viewport, got %+v", cfg.Desktop)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RETRODESK_ADDR", "")
	t.Setenv("RETRODESK_DB", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "retrodesk.yaml")
	data := strings.Join([]string{
		"server:",
		"  addr: \":8080\"",
		"  static_dir: client/build",
		"  read_timeout: 5s",
		"storage:",
		"  path: data/retrodesk.db",
		"log_level: debug",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.StaticDir != "client/build" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected 5s read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("expected untouched default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Path != "data/retrodesk.db" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(path)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Path != "log_level" {
		t.Errorf("expected log_level validation error, got %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*Config) bool
	}{
		{"port", map[string]string{"PORT": "3000"}, func(c *Config) bool { return c.Server.Addr == ":3000" }},
		{"addr wins over port", map[string]string{"PORT": "3000", "RETRODESK_ADDR": "127.0.0.1:9000"},
			func(c *Config) bool { return c.Server.Addr == "127.0.0.1:9000" }},
		{"static", map[string]string{"RETRODESK_STATIC": "build"}, func(c *Config) bool { return c.Server.StaticDir == "build" }},
		{"uploads", map[string]string{"RETRODESK_UPLOADS": "up"}, func(c *Config) bool { return c.Server.UploadsDir == "up" }},
		{"db", map[string]string{"RETRODESK_DB": "x.db"}, func(c *Config) bool { return c.Storage.Path == "x.db" }},
		{"tls", map[string]string{"RETRODESK_TLS_CERT": "c.pem", "RETRODESK_TLS_KEY": "k.pem"},
			func(c *Config) bool { return c.Server.TLSCert == "c.pem" && c.Server.TLSKey == "k.pem" }},
		{"email pass", map[string]string{"EMAIL_USER": "u", "EMAIL_PASS": "p", "EMAIL_APP_PASSWORD": "a"},
			func(c *Config) bool { return c.Email.User == "u" && c.Email.Password == "p" }},
		{"app password fallback", map[string]string{"EMAIL_APP_PASSWORD": "a"},
			func(c *Config) bool { return c.Email.Password == "a" }},
		{"nothing set", nil, func(c *Config) bool { return c.Server.Addr == ":5000" && c.Email.Password == "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ApplyEnv(func(k string) string { return tt.env[k] })
			if !tt.check(cfg) {
				t.Errorf("unexpected config after env %v: %+v", tt.env, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, "server.addr"},
		{"empty uploads", func(c *Config) { c.Server.UploadsDir = "" }, "server.uploads_dir"},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, "server"},
		{"bad email port", func(c *Config) { c.Email.Port = 70000 }, "email.port"},
		{"zero viewport", func(c *Config) { c.Desktop.Width = 0 }, "desktop"},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"cert without key", func(c *Config) { c.Server.TLSCert = "cert.pem" }, "server.tls"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			var ve *ValidationError
			if err := cfg.Validate(); !errors.As(err, &ve) || ve.Path != tt.path {
				t.Errorf("expected validation error at %q, got %v", tt.path, err)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; expected %v", tt.in, got, err, tt.want)
		}
	}
}
