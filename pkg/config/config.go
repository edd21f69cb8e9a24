// Package config provides hierarchical configuration management.
// Priority: defaults < system < user < project < env
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all ProcFlow configuration.
type Config struct {
	Version int `yaml:"version"`

	Discovery DiscoveryConfig `yaml:"discovery"`
	Parser    ParserConfig    `yaml:"parser"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DiscoveryConfig controls the discovery pipeline.
type DiscoveryConfig struct {
	// MinFrequency prunes traces below this frequency (0..1).
	MinFrequency float64 `yaml:"min_frequency"`

	// MaxActivities is the enumeration ceiling (0 = default).
	MaxActivities int `yaml:"max_activities"`

	// Parallelism is the worker count for set enumeration (0 = sequential).
	Parallelism int `yaml:"parallelism"`
}

// ParserConfig controls event log parsing.
type ParserConfig struct {
	CaseColumn      string `yaml:"case_column"`
	ActivityColumn  string `yaml:"activity_column"`
	TimestampColumn string `yaml:"timestamp_column"`
	ResourceColumn  string `yaml:"resource_column"`
	TimestampFormat string `yaml:"timestamp_format"`
	Delimiter       string `yaml:"delimiter"`
}

// ServerConfig for the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CacheConfig for the Redis result cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	Database int           `yaml:"database"`
	TTL      time.Duration `yaml:"ttl"`
}

// TelemetryConfig for optional OTLP tracing.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Discovery: DiscoveryConfig{
			MinFrequency:  0,
			MaxActivities: 0,
			Parallelism:   0,
		},
		Parser: ParserConfig{
			CaseColumn:      "case_id",
			ActivityColumn:  "activity_name",
			TimestampColumn: "timestamp",
			ResourceColumn:  "resource",
			TimestampFormat: "2006-01-02 15:04:05.000000",
			Delimiter:       ",",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Cache: CacheConfig{
			Enabled: false,
			Address: "localhost:6379",
			TTL:     24 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	paths  []string
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{config: Default()}
}

// Load loads configuration from all sources in priority order.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = Default()
	for _, path := range m.configPaths() {
		if err := m.loadFile(path); err != nil {
			if !os.IsNotExist(err) {
				return err
			}
			continue
		}
		m.paths = append(m.paths, path)
	}
	m.loadEnv()
	return nil
}

// configPaths returns config file paths in priority order.
func (m *Manager) configPaths() []string {
	var paths []string
	if runtime.GOOS != "windows" {
		paths = append(paths, "/etc/procflow/config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".procflow", "config.yaml"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".procflow.yaml"))
	}
	return paths
}

func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}
	m.merge(&partial)
	return nil
}

// merge merges non-zero values from src into config.
func (m *Manager) merge(src *Config) {
	if src.Discovery.MinFrequency != 0 {
		m.config.Discovery.MinFrequency = src.Discovery.MinFrequency
	}
	if src.Discovery.MaxActivities != 0 {
		m.config.Discovery.MaxActivities = src.Discovery.MaxActivities
	}
	if src.Discovery.Parallelism != 0 {
		m.config.Discovery.Parallelism = src.Discovery.Parallelism
	}

	if src.Parser.CaseColumn != "" {
		m.config.Parser.CaseColumn = src.Parser.CaseColumn
	}
	if src.Parser.ActivityColumn != "" {
		m.config.Parser.ActivityColumn = src.Parser.ActivityColumn
	}
	if src.Parser.TimestampColumn != "" {
		m.config.Parser.TimestampColumn = src.Parser.TimestampColumn
	}
	if src.Parser.ResourceColumn != "" {
		m.config.Parser.ResourceColumn = src.Parser.ResourceColumn
	}
	if src.Parser.TimestampFormat != "" {
		m.config.Parser.TimestampFormat = src.Parser.TimestampFormat
	}
	if src.Parser.Delimiter != "" {
		m.config.Parser.Delimiter = src.Parser.Delimiter
	}

	if src.Server.Host != "" {
		m.config.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		m.config.Server.Port = src.Server.Port
	}

	if src.Cache.Enabled {
		m.config.Cache.Enabled = true
	}
	if src.Cache.Address != "" {
		m.config.Cache.Address = src.Cache.Address
	}
	if src.Cache.Password != "" {
		m.config.Cache.Password = src.Cache.Password
	}
	if src.Cache.Database != 0 {
		m.config.Cache.Database = src.Cache.Database
	}
	if src.Cache.TTL != 0 {
		m.config.Cache.TTL = src.Cache.TTL
	}

	if src.Telemetry.Enabled {
		m.config.Telemetry.Enabled = true
	}
	if src.Telemetry.Endpoint != "" {
		m.config.Telemetry.Endpoint = src.Telemetry.Endpoint
	}
}

// loadEnv overrides configuration from environment variables.
func (m *Manager) loadEnv() {
	if v := os.Getenv("PROCFLOW_MIN_FREQUENCY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m.config.Discovery.MinFrequency = f
		}
	}
	if v := os.Getenv("PROCFLOW_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			m.config.Server.Port = p
		}
	}
	if v := os.Getenv("PROCFLOW_REDIS"); v != "" {
		m.config.Cache.Enabled = true
		m.config.Cache.Address = v
	}
	if v := os.Getenv("PROCFLOW_OTLP_ENDPOINT"); v != "" {
		m.config.Telemetry.Enabled = true
		m.config.Telemetry.Endpoint = v
	}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Paths returns the config files that were loaded.
func (m *Manager) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths
}
