package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pathline-dev/pathline/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pathline.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Snapshot backend names accepted in pathline.json.
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendSQL    = "sql"
	BackendS3     = "s3"
)

// Config represents the complete pathline.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Router contains navigation engine configuration.
	Router RouterConfig `json:"router,omitempty"`

	// Live contains WebSocket session tuning.
	Live LiveConfig `json:"live,omitempty"`

	// Snapshot contains state snapshot persistence configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`
}

// RouterConfig contains navigation engine settings.
type RouterConfig struct {
	// NotFound is the route navigated to when no pattern matches.
	// Empty disables the redirect; unmatched paths update silently.
	NotFound string `json:"notFound,omitempty"`

	// LoginPath is the redirect target for the auth guard.
	LoginPath string `json:"loginPath,omitempty"`
}

// LiveConfig contains WebSocket session tuning.
// Durations are strings in time.ParseDuration syntax, e.g. "30s".
type LiveConfig struct {
	ReadTimeout  string `json:"readTimeout,omitempty"`
	WriteTimeout string `json:"writeTimeout,omitempty"`
	PingInterval string `json:"pingInterval,omitempty"`
}

// SnapshotConfig selects and configures the snapshot persistence backend.
type SnapshotConfig struct {
	// Backend is one of "memory", "disk", "sql", or "s3".
	Backend string `json:"backend,omitempty"`

	// TTL is how long snapshots stay loadable, e.g. "720h".
	TTL string `json:"ttl,omitempty"`

	// Dir is the snapshot directory for the disk backend.
	Dir string `json:"dir,omitempty"`

	// Driver and DSN configure the sql backend.
	Driver string `json:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty"`

	// Bucket and Prefix configure the s3 backend.
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled mounts the /metrics endpoint and attaches the observer.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace (default: "pathline").
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled attaches the tracing observer.
	Enabled bool `json:"enabled,omitempty"`

	// TracerName names the tracer (default: "pathline").
	TracerName string `json:"tracerName,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Router: RouterConfig{
			NotFound:  "/404",
			LoginPath: "/login",
		},
		Live: LiveConfig{
			ReadTimeout:  "60s",
			WriteTimeout: "10s",
			PingInterval: "30s",
		},
		Snapshot: SnapshotConfig{
			Backend: BackendMemory,
			TTL:     "720h",
			Dir:     ".pathline/snapshots",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "pathline",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for pathline.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
// A missing file yields the defaults, not an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = path
		return cfg, nil
	}
	if err != nil {
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C001").
			WithDetail("failed to parse %s: %v", path, err).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
	}
	cfg.configPath = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to the path it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = ConfigFileName
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the given path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	switch c.Snapshot.Backend {
	case "", BackendMemory, BackendDisk, BackendSQL, BackendS3:
	default:
		return errors.New("C002").WithDetail("backend %q", c.Snapshot.Backend)
	}

	if c.Snapshot.Backend == BackendSQL && c.Snapshot.DSN == "" {
		return errors.New("C001").
			WithDetail("snapshot backend sql requires a dsn").
			WithSuggestion(`Set snapshot.dsn, e.g. "postgres://localhost/pathline"`)
	}
	if c.Snapshot.Backend == BackendS3 && c.Snapshot.Bucket == "" {
		return errors.New("C001").
			WithDetail("snapshot backend s3 requires a bucket").
			WithSuggestion("Set snapshot.bucket")
	}

	for _, d := range []string{c.Live.ReadTimeout, c.Live.WriteTimeout, c.Live.PingInterval, c.Snapshot.TTL} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return errors.New("C001").
				WithDetail("invalid duration %q", d).
				WithSuggestion(`Use time.ParseDuration syntax, e.g. "30s" or "1h"`)
		}
	}
	return nil
}

// Address returns the host:port the server binds to.
func (c *Config) Address() string {
	host := c.Server.Host
	if host == "" {
		host = DefaultHost
	}
	port := c.Server.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// Duration parses a duration field, falling back when empty or invalid.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
