package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper for configuration management
type ViperLoader struct {
	configFile string
	envPrefix  string
	envFile    string
}

// NewViperLoader creates a new ViperLoader
// configFile: path to a YAML configuration file (optional, can be empty)
// envPrefix: prefix for environment variables (e.g., "APP")
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
		envFile:    ".env",
	}
}

// WithEnvFile sets the dotenv file read before binding the environment.
// An empty path disables dotenv loading.
func (l *ViperLoader) WithEnvFile(path string) *ViperLoader {
	l.envFile = strings.TrimSpace(path)
	return l
}

// Load loads configuration with precedence: ENV > .env > file > defaults
func (l *ViperLoader) Load() (*Config, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}

	if err := l.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadUnvalidated resolves the configuration without validating it.
func (l *ViperLoader) LoadUnvalidated() (*Config, error) {
	return l.load()
}

func (l *ViperLoader) load() (*Config, error) {
	v := viper.New()

	l.setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	// godotenv.Load never overrides variables already present in the process environment.
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", l.envFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.RouterType = strings.ToLower(strings.TrimSpace(cfg.RouterType))
	cfg.Observability.RequestLogging.ExcludedPathPrefixes = normalizeStringSlice(cfg.Observability.RequestLogging.ExcludedPathPrefixes)

	return &cfg, nil
}

// bindEnvVars explicitly binds environment variables for nested structs.
// Prefixed names are listed first so they win over the legacy unprefixed ones.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("router_type", l.prefixedEnv("ROUTER_TYPE"))
	v.BindEnv("service.name", l.prefixedEnv("SERVICE_NAME"))
	v.BindEnv("service.environment", l.prefixedEnv("SERVICE_ENVIRONMENT"), l.prefixedEnv("ENVIRONMENT"))

	// HTTP
	v.BindEnv("http.port", l.prefixedEnv("HTTP_PORT"), "PORT")
	v.BindEnv("http.read_timeout", l.prefixedEnv("HTTP_READ_TIMEOUT"))
	v.BindEnv("http.write_timeout", l.prefixedEnv("HTTP_WRITE_TIMEOUT"))
	v.BindEnv("http.idle_timeout", l.prefixedEnv("HTTP_IDLE_TIMEOUT"))
	v.BindEnv("http.max_request_size", l.prefixedEnv("HTTP_MAX_REQUEST_SIZE"))

	// Management
	v.BindEnv("management.enabled", l.prefixedEnv("MGMT_ENABLED"))
	v.BindEnv("management.port", l.prefixedEnv("MGMT_PORT"))
	v.BindEnv("management.read_timeout", l.prefixedEnv("MGMT_READ_TIMEOUT"))
	v.BindEnv("management.write_timeout", l.prefixedEnv("MGMT_WRITE_TIMEOUT"))

	// Database
	v.BindEnv("database.url", l.prefixedEnv("DB_URL"), "MONGOURI")
	v.BindEnv("database.database_name", l.prefixedEnv("DB_NAME"))
	v.BindEnv("database.collection", l.prefixedEnv("DB_COLLECTION"), "COLLECTION")
	v.BindEnv("database.connect_timeout", l.prefixedEnv("DB_CONNECT_TIMEOUT"))
	v.BindEnv("database.query_timeout", l.prefixedEnv("DB_QUERY_TIMEOUT"))

	// Web
	v.BindEnv("web.minify_html", l.prefixedEnv("WEB_MINIFY_HTML"))
	v.BindEnv("compression.enabled", l.prefixedEnv("COMPRESSION_ENABLED"))
	v.BindEnv("compression.min_size", l.prefixedEnv("COMPRESSION_MIN_SIZE"))

	// Observability
	v.BindEnv("observability.log_level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("observability.log_format", l.prefixedEnv("LOG_FORMAT"))
	v.BindEnv("observability.tracing_enabled", l.prefixedEnv("TRACING_ENABLED"))
	v.BindEnv("observability.tracing_sample_rate", l.prefixedEnv("TRACING_SAMPLE_RATE"))
	v.BindEnv("observability.tracing_endpoint", l.prefixedEnv("TRACING_ENDPOINT"))
	v.BindEnv("observability.request_logging.enabled", l.prefixedEnv("REQUEST_LOGGING_ENABLED"))
	v.BindEnv("observability.request_logging.log_start", l.prefixedEnv("REQUEST_LOGGING_LOG_START"))
	v.BindEnv("observability.request_logging.excluded_path_prefixes", l.prefixedEnv("REQUEST_LOGGING_EXCLUDED_PATH_PREFIXES"))
}

func (l *ViperLoader) prefixedEnv(suffix string) string {
	prefix := strings.TrimSpace(l.envPrefix)
	if prefix == "" {
		prefix = "APP"
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(prefix), suffix)
}

// setDefaults sets default values in Viper from the default config
func (l *ViperLoader) setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("router_type", cfg.RouterType)
	v.SetDefault("service.name", cfg.Service.Name)
	v.SetDefault("service.environment", cfg.Service.Environment)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)
	v.SetDefault("http.max_request_size", cfg.HTTP.MaxRequestSize)

	v.SetDefault("management.enabled", cfg.Management.Enabled)
	v.SetDefault("management.port", cfg.Management.Port)
	v.SetDefault("management.read_timeout", cfg.Management.ReadTimeout)
	v.SetDefault("management.write_timeout", cfg.Management.WriteTimeout)

	v.SetDefault("database.url", cfg.Database.URL)
	v.SetDefault("database.database_name", cfg.Database.DatabaseName)
	v.SetDefault("database.collection", cfg.Database.Collection)
	v.SetDefault("database.connect_timeout", cfg.Database.ConnectTimeout)
	v.SetDefault("database.query_timeout", cfg.Database.QueryTimeout)

	v.SetDefault("web.minify_html", cfg.Web.MinifyHTML)
	v.SetDefault("compression.enabled", cfg.Compression.Enabled)
	v.SetDefault("compression.min_size", cfg.Compression.MinSize)

	v.SetDefault("observability.log_level", cfg.Observability.LogLevel)
	v.SetDefault("observability.log_format", cfg.Observability.LogFormat)
	v.SetDefault("observability.tracing_enabled", cfg.Observability.TracingEnabled)
	v.SetDefault("observability.tracing_sample_rate", cfg.Observability.TracingSampleRate)
	v.SetDefault("observability.tracing_endpoint", cfg.Observability.TracingEndpoint)
	v.SetDefault("observability.request_logging.enabled", cfg.Observability.RequestLogging.Enabled)
	v.SetDefault("observability.request_logging.log_start", cfg.Observability.RequestLogging.LogStart)
	v.SetDefault("observability.request_logging.excluded_path_prefixes", cfg.Observability.RequestLogging.ExcludedPathPrefixes)
}

// Validate validates the configuration and returns every problem found
func (l *ViperLoader) Validate(cfg *Config) error {
	return cfg.Validate()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func normalizeStringSlice(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				normalized = append(normalized, trimmed)
			}
		}
	}
	return normalized
}
