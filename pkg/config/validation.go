package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

const redactedPassword = "xxxxx"

// Validate checks the configuration and joins every problem into one error.
func (c *Config) Validate() error {
	var errs []error

	validRouterTypes := []string{RouterTypeGin, RouterTypeGorilla}
	if !contains(validRouterTypes, strings.ToLower(c.RouterType)) {
		errs = append(errs, fmt.Errorf("invalid router_type: %s (must be one of: %v)", c.RouterType, validRouterTypes))
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.HTTP.MaxRequestSize <= 0 {
		errs = append(errs, errors.New("http.max_request_size must be greater than 0"))
	}
	if c.Management.Enabled {
		if c.Management.Port <= 0 || c.Management.Port > 65535 {
			errs = append(errs, fmt.Errorf("management.port must be between 1 and 65535, got %d", c.Management.Port))
		} else if c.Management.Port == c.HTTP.Port {
			errs = append(errs, errors.New("management.port must differ from http.port"))
		}
	}

	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, errors.New("database.url is required (set APP_DB_URL or MONGOURI)"))
	} else if !strings.HasPrefix(c.Database.URL, "mongodb://") && !strings.HasPrefix(c.Database.URL, "mongodb+srv://") {
		errs = append(errs, errors.New("database.url must use the mongodb:// or mongodb+srv:// scheme"))
	}
	if strings.TrimSpace(c.Database.DatabaseName) == "" {
		errs = append(errs, errors.New("database.database_name is required"))
	}
	if strings.TrimSpace(c.Database.Collection) == "" {
		errs = append(errs, errors.New("database.collection is required"))
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, errors.New("database.query_timeout must be greater than 0"))
	}

	if c.Compression.MinSize < 0 {
		errs = append(errs, errors.New("compression.min_size must not be negative"))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(c.Observability.LogLevel)) {
		errs = append(errs, fmt.Errorf("invalid observability.log_level: %s (must be one of: %v)", c.Observability.LogLevel, validLevels))
	}
	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(c.Observability.LogFormat)) {
		errs = append(errs, fmt.Errorf("invalid observability.log_format: %s (must be one of: %v)", c.Observability.LogFormat, validFormats))
	}
	if c.Observability.TracingEnabled {
		if strings.TrimSpace(c.Observability.TracingEndpoint) == "" {
			errs = append(errs, errors.New("observability.tracing_endpoint is required when tracing is enabled"))
		}
		if c.Observability.TracingSampleRate < 0 || c.Observability.TracingSampleRate > 1 {
			errs = append(errs, errors.New("observability.tracing_sample_rate must be between 0 and 1"))
		}
	}

	return errors.Join(errs...)
}

// Redacted returns a copy with the password of the database URL masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.Observability.RequestLogging.ExcludedPathPrefixes = append([]string(nil), c.Observability.RequestLogging.ExcludedPathPrefixes...)
	out.Database.URL = RedactURL(c.Database.URL)
	return &out
}

// YAML renders the redacted configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}

// RedactURL masks the password of a connection string. Strings that do not parse are
// masked entirely once they carry user information.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		if strings.Contains(raw, "@") {
			return redactedPassword
		}
		return raw
	}
	return u.Redacted()
}
