package config

import "time"

// Router type constants
const (
	RouterTypeGin     = "gin"
	RouterTypeGorilla = "gorilla"
)

// Config is the root configuration structure for the listings service
type Config struct {
	RouterType    string              `mapstructure:"router_type" yaml:"router_type"`
	Service       ServiceConfig       `mapstructure:"service" yaml:"service"`
	HTTP          HTTPConfig          `mapstructure:"http" yaml:"http"`
	Management    ManagementConfig    `mapstructure:"management" yaml:"management"`
	Database      DatabaseConfig      `mapstructure:"database" yaml:"database"`
	Web           WebConfig           `mapstructure:"web" yaml:"web"`
	Compression   CompressionConfig   `mapstructure:"compression" yaml:"compression"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// HTTPConfig configures the public page server
type HTTPConfig struct {
	Port           int           `mapstructure:"port" yaml:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	MaxRequestSize int64         `mapstructure:"max_request_size" yaml:"max_request_size"`
}

// ManagementConfig configures the management server
type ManagementConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// DatabaseConfig configures the MongoDB connection
type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	DatabaseName   string        `mapstructure:"database_name" yaml:"database_name"`
	Collection     string        `mapstructure:"collection" yaml:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
}

// WebConfig configures page rendering.
type WebConfig struct {
	MinifyHTML bool `mapstructure:"minify_html" yaml:"minify_html"`
}

// CompressionConfig configures response compression.
type CompressionConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	MinSize int  `mapstructure:"min_size" yaml:"min_size"`
}

// ObservabilityConfig configures logging, metrics, and tracing
type ObservabilityConfig struct {
	LogLevel          string               `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string               `mapstructure:"log_format" yaml:"log_format"` // json, text
	TracingEnabled    bool                 `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	TracingSampleRate float64              `mapstructure:"tracing_sample_rate" yaml:"tracing_sample_rate"`
	TracingEndpoint   string               `mapstructure:"tracing_endpoint" yaml:"tracing_endpoint"`
	RequestLogging    RequestLoggingConfig `mapstructure:"request_logging" yaml:"request_logging"`
}

// RequestLoggingConfig configures HTTP request logging middleware behavior.
type RequestLoggingConfig struct {
	Enabled              bool     `mapstructure:"enabled" yaml:"enabled"`
	LogStart             bool     `mapstructure:"log_start" yaml:"log_start"`
	ExcludedPathPrefixes []string `mapstructure:"excluded_path_prefixes" yaml:"excluded_path_prefixes"`
}

// DefaultConfig returns a configuration with sensible defaults.
// The database URL has no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		RouterType: RouterTypeGin,
		Service: ServiceConfig{
			Name:        "airbnb-listings",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			MaxRequestSize: 1 << 20,
		},
		Management: ManagementConfig{
			Enabled:      true,
			Port:         9090,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DatabaseName:   "Aanand",
			Collection:     "airbnbs",
			ConnectTimeout: 10 * time.Second,
			QueryTimeout:   5 * time.Second,
		},
		Web: WebConfig{
			MinifyHTML: true,
		},
		Compression: CompressionConfig{
			Enabled: true,
			MinSize: 1024,
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogFormat:         "json",
			TracingEnabled:    false,
			TracingSampleRate: 0.1,
			TracingEndpoint:   "localhost:4317",
			RequestLogging: RequestLoggingConfig{
				Enabled:              true,
				ExcludedPathPrefixes: []string{"/public/"},
			},
		},
	}
}
