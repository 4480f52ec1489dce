// Package config holds the TOML configuration of the reconciliation server.
// Every section has defaults so an empty or partial file is valid.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gcbaptista/go-reconcile/internal/catalog"
	"github.com/gcbaptista/go-reconcile/model"
)

// Config holds the entire config structure
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Gazetteer  GazetteerConfig  `toml:"gazetteer"`
	Service    ServiceConfig    `toml:"service"`
	Reconcile  ReconcileConfig  `toml:"reconcile"`
	Log        LogConfig        `toml:"log"`
	Properties []PropertyConfig `toml:"properties"` // Replaces the built-in property catalog when set
}

// ServerConfig has HTTP listener options
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
	Mode         string `toml:"mode"` // gin mode: debug, release or test
}

// GazetteerConfig points at the upstream place gazetteer
type GazetteerConfig struct {
	BaseURL           string  `toml:"base_url"`
	SearchPath        string  `toml:"search_path"`
	PlacePath         string  `toml:"place_path"`
	Timeout           string  `toml:"timeout"` // Go duration, e.g. "10s"
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// ServiceConfig is advertised in the service manifest
type ServiceConfig struct {
	Name            string `toml:"name"`
	IdentifierSpace string `toml:"identifier_space"`
	SchemaSpace     string `toml:"schema_space"`
	ViewURL         string `toml:"view_url"` // Must contain {{id}}
	PropertyType    string `toml:"property_type"`
}

// ReconcileConfig tunes batch processing
type ReconcileConfig struct {
	MaxParallelQueries int `toml:"max_parallel_queries"`
}

// LogConfig holds logging options
type LogConfig struct {
	Level string `toml:"level"`
}

// PropertyConfig declares one catalog entry
type PropertyConfig struct {
	ID   string `toml:"id"`
	Key  string `toml:"key"`
	Name string `toml:"name"`
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 3200
	defaultMaxBodyBytes    = 10 << 20
	defaultMode            = "release"
	defaultGazetteerURL    = "http://kimaorg.azurewebsites.net"
	defaultSearchPath      = "/api/Variants/SearchVariants/{query}/100/1"
	defaultPlacePath       = "/api/Places/Place/{id}"
	defaultTimeout         = "15s"
	defaultServiceName     = "KIMA"
	defaultSpace           = "http://rdf.freebase.com/ns/type.object.id"
	defaultViewURL         = "http://kimaorg.azurewebsites.net/Places/Details?id={{id}}"
	defaultPropertyType    = catalog.ProposalType
	defaultMaxParallel     = 8
	defaultLogLevel        = "info"
	defaultBurstMultiplier = 2
)

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// LoadConfig reads a TOML file on top of the defaults. Keys the file does not
// set keep their default value; unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text on top of the defaults
func Parse(data string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills every unset option
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.Server.Mode == "" {
		c.Server.Mode = defaultMode
	}

	if c.Gazetteer.BaseURL == "" {
		c.Gazetteer.BaseURL = defaultGazetteerURL
	}
	if c.Gazetteer.SearchPath == "" {
		c.Gazetteer.SearchPath = defaultSearchPath
	}
	if c.Gazetteer.PlacePath == "" {
		c.Gazetteer.PlacePath = defaultPlacePath
	}
	if c.Gazetteer.Timeout == "" {
		c.Gazetteer.Timeout = defaultTimeout
	}
	// Burst follows the rate unless set explicitly
	if c.Gazetteer.RequestsPerSecond > 0 && c.Gazetteer.Burst == 0 {
		c.Gazetteer.Burst = int(c.Gazetteer.RequestsPerSecond*defaultBurstMultiplier) + 1
	}

	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Service.IdentifierSpace == "" {
		c.Service.IdentifierSpace = defaultSpace
	}
	if c.Service.SchemaSpace == "" {
		c.Service.SchemaSpace = defaultSpace
	}
	if c.Service.ViewURL == "" {
		c.Service.ViewURL = defaultViewURL
	}
	if c.Service.PropertyType == "" {
		c.Service.PropertyType = defaultPropertyType
	}

	if c.Reconcile.MaxParallelQueries == 0 {
		c.Reconcile.MaxParallelQueries = defaultMaxParallel
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// Validate returns every configuration problem found
func (c *Config) Validate() []string {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.Server.MaxBodyBytes < 0 {
		errors = append(errors, "server.max_body_bytes cannot be negative")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errors = append(errors, "server.mode '"+c.Server.Mode+"' must be 'debug', 'release' or 'test'")
	}

	if _, err := url.ParseRequestURI(c.Gazetteer.BaseURL); err != nil {
		errors = append(errors, "gazetteer.base_url '"+c.Gazetteer.BaseURL+"' is not a valid URL")
	}
	if !strings.Contains(c.Gazetteer.SearchPath, "{query}") {
		errors = append(errors, "gazetteer.search_path must contain {query}")
	}
	if !strings.Contains(c.Gazetteer.PlacePath, "{id}") {
		errors = append(errors, "gazetteer.place_path must contain {id}")
	}
	if d, err := time.ParseDuration(c.Gazetteer.Timeout); err != nil || d <= 0 {
		errors = append(errors, "gazetteer.timeout '"+c.Gazetteer.Timeout+"' must be a positive duration")
	}
	if c.Gazetteer.RequestsPerSecond < 0 {
		errors = append(errors, "gazetteer.requests_per_second cannot be negative")
	}
	if c.Gazetteer.Burst < 0 {
		errors = append(errors, "gazetteer.burst cannot be negative")
	}

	if !strings.Contains(c.Service.ViewURL, "{{id}}") {
		errors = append(errors, "service.view_url must contain {{id}}")
	}
	if c.Reconcile.MaxParallelQueries < 1 {
		errors = append(errors, "reconcile.max_parallel_queries must be at least 1")
	}

	seen := make(map[string]bool)
	for i, p := range c.Properties {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Key) == "" || strings.TrimSpace(p.Name) == "" {
			errors = append(errors, fmt.Sprintf("properties[%d] needs id, key and name", i))
		}
		if seen[p.ID] {
			errors = append(errors, "Duplicate property id '"+p.ID+"' found in properties")
		}
		seen[p.ID] = true
	}

	return errors
}

// GazetteerTimeout returns the parsed per-call timeout. Call after Validate.
func (c *Config) GazetteerTimeout() time.Duration {
	d, err := time.ParseDuration(c.Gazetteer.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PropertyDescriptors converts the configured properties. It returns nil when
// none are configured so callers fall back to the built-in catalog.
func (c *Config) PropertyDescriptors() []model.PropertyDescriptor {
	if len(c.Properties) == 0 {
		return nil
	}
	descriptors := make([]model.PropertyDescriptor, len(c.Properties))
	for i, p := range c.Properties {
		descriptors[i] = model.PropertyDescriptor{ID: p.ID, InternalKey: p.Key, DisplayName: p.Name}
	}
	return descriptors
}
