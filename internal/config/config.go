package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/geom"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport string          `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Highlight HighlightConfig `yaml:"highlight"`
	Camera    CameraConfig    `yaml:"camera"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AuthConfig holds the bearer token required on HTTP requests. Empty disables auth.
type AuthConfig struct {
	Token string `yaml:"token"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path is an optional log file, truncated when it grows past MaxBytes.
	Path     string `yaml:"path"`
	MaxBytes int64  `yaml:"max_bytes"`
}

type HighlightConfig struct {
	Prefix string         `yaml:"prefix"`
	Colors PriorityColors `yaml:"colors"`
}

// PriorityColors are "#rrggbb" colors per priority.
type PriorityColors struct {
	Low    string `yaml:"low"`
	Medium string `yaml:"medium"`
	High   string `yaml:"high"`
}

// CameraConfig is the initial viewpoint of the scene camera.
type CameraConfig struct {
	Position geom.Vector3 `yaml:"position"`
	Target   geom.Vector3 `yaml:"target"`
}

// Viewpoint returns the configured initial viewpoint.
func (c CameraConfig) Viewpoint() viewpoint.Viewpoint {
	return viewpoint.Viewpoint{Position: c.Position, Target: c.Target}
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	defaults := annotation.DefaultPriorityStyles()
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportStdio,
		DB: DBConfig{
			Path: "bimtodo.db",
		},
		Log: LogConfig{
			Level:    "info",
			MaxBytes: 10 << 20,
		},
		Highlight: HighlightConfig{
			Prefix: annotation.DefaultGroupPrefix,
			Colors: PriorityColors{
				Low:    defaults[annotation.PriorityLow].Hex(),
				Medium: defaults[annotation.PriorityMedium].Hex(),
				High:   defaults[annotation.PriorityHigh].Hex(),
			},
		},
		Camera: CameraConfig{
			Position: geom.Vec3(12, 8, 12),
			Target:   geom.Vec3(0, 0, 0),
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("BIMTODO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("BIMTODO_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("BIMTODO_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BIMTODO_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if transport := os.Getenv("BIMTODO_TRANSPORT"); transport != "" {
		cfg.Transport = transport
	}
	if token := os.Getenv("BIMTODO_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
	if dbPath := os.Getenv("BIMTODO_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BIMTODO_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("BIMTODO_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if prefix := os.Getenv("BIMTODO_HIGHLIGHT_PREFIX"); prefix != "" {
		cfg.Highlight.Prefix = prefix
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed up later.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q: want %s or %s", c.Transport, TransportStdio, TransportHTTP)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := c.Highlight.PriorityStyles(); err != nil {
		return err
	}
	if !c.Camera.Position.IsFinite() || !c.Camera.Target.IsFinite() {
		return fmt.Errorf("invalid camera viewpoint %s -> %s", c.Camera.Position, c.Camera.Target)
	}
	return nil
}

// PriorityStyles parses the configured colors into highlight styles.
func (h HighlightConfig) PriorityStyles() (map[annotation.Priority]highlight.Style, error) {
	colors := map[annotation.Priority]string{
		annotation.PriorityLow:    h.Colors.Low,
		annotation.PriorityMedium: h.Colors.Medium,
		annotation.PriorityHigh:   h.Colors.High,
	}
	styles := make(map[annotation.Priority]highlight.Style, len(colors))
	for priority, hex := range colors {
		color, err := highlight.ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("highlight color for %s: %w", priority, err)
		}
		styles[priority] = highlight.Style{Color: color}
	}
	return styles, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
