// Package config handles command-line parsing, optional config file loading and validation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// ListenPort is the fixed forwarding port. It is not configurable.
	ListenPort = 8080

	// ConnectTimeout bounds the upstream TCP connect phase. Nothing else is bounded.
	ConnectTimeout = 5 * time.Second
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/edge-gateway/config.toml",
	"configs/config.toml",
}

// reservedAdminPaths are routes the admin listener serves itself.
var reservedAdminPaths = []string{"/healthz", "/status"}

// Config is the top-level application configuration.
//
// Target, Server and Upstream are fixed at startup and never read from a file.
type Config struct {
	Target   string         `toml:"-" yaml:"-"`
	Server   ServerConfig   `toml:"-" yaml:"-"`
	Upstream UpstreamConfig `toml:"-" yaml:"-"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Admin    AdminConfig    `toml:"admin" yaml:"admin"`

	filePath string // resolved config file path (unexported)
}

// ServerConfig holds the forwarding listener address.
type ServerConfig struct {
	Host string
	Port int
}

// UpstreamConfig holds outbound client settings.
type UpstreamConfig struct {
	ConnectTimeout time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// AdminConfig controls the optional admin listener serving health and metrics.
type AdminConfig struct {
	Enabled     bool   `toml:"enabled" yaml:"enabled"`
	Host        string `toml:"host" yaml:"host"`
	Port        int    `toml:"port" yaml:"port"` // 0 means "use default" (9090)
	MetricsPath string `toml:"metrics_path" yaml:"metrics_path"`
}

// Load builds the configuration from the parsed CLI and an optional config file.
// When no explicit path is given (via --config or CONFIG_PATH), it searches
// /etc/edge-gateway/config.toml then configs/config.toml; if neither exists the
// defaults are used. The target URI is taken verbatim and not validated here.
func Load(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = findConfig()
	}

	var cfg Config
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
		cfg.filePath = path
	}

	cfg.Target = cli.Target
	cfg.applyCLI(cli)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied and no target.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		c.Log.Format = cli.LogFormat
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "":
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	if c.Admin.Port < 0 || c.Admin.Port > 65535 {
		return fmt.Errorf("admin.port must be 0–65535; got %d", c.Admin.Port)
	}
	if c.Admin.Enabled && c.Admin.Port == ListenPort {
		return fmt.Errorf("admin.port must differ from the forwarding port %d", ListenPort)
	}

	// Only checked when the admin listener is on.
	if c.Admin.Enabled && c.Admin.MetricsPath != "" {
		p := c.Admin.MetricsPath
		if p[0] != '/' {
			return fmt.Errorf("admin.metrics_path must start with '/'; got %q", p)
		}
		for _, reserved := range reservedAdminPaths {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("admin.metrics_path %q conflicts with reserved route %q", p, reserved)
			}
		}
	}

	return nil
}

// setDefaults fills zero-valued fields and pins the values that are never configurable.
func (c *Config) setDefaults() {
	c.Server = ServerConfig{Host: "", Port: ListenPort}
	c.Upstream = UpstreamConfig{ConnectTimeout: ConnectTimeout}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Admin.Host == "" {
		c.Admin.Host = "127.0.0.1"
	}
	if c.Admin.Port == 0 {
		c.Admin.Port = 9090
	}
	if c.Admin.MetricsPath == "" {
		c.Admin.MetricsPath = "/metrics"
	}
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the listen address as host:port. An empty host binds all interfaces.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the admin listen address as host:port.
func (c *AdminConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
