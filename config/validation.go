package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequirePostgres bool
	RequireSecrets  bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {},
	Test:        {},
	CI:          {RequirePostgres: true},
	Production:  {RequirePostgres: true, RequireSecrets: true},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[GetEnvironment()]

	var errs []string
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.JWTSecret == "" {
		fail("JWT_SECRET", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			fail("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			fail("DB_NAME", "is required for postgres")
		}
		if cfg.DBUser == "" {
			fail("DB_USER", "is required for postgres")
		}
	case "sqlite":
		if reqs.RequirePostgres {
			fail("DB_DRIVER", "sqlite is not allowed in this environment")
		}
		if cfg.SQLitePath == "" {
			fail("SQLITE_PATH", "is required for sqlite")
		}
	default:
		fail("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if reqs.RequireSecrets && cfg.DBPassword == "" {
		fail("db_password", "secret is required")
	}

	p := cfg.Prediction
	if u, err := url.Parse(p.ForecastURL); err != nil || u.Scheme == "" || u.Host == "" {
		fail("GLUCOSE_FORECAST_URL", "must be an absolute URL")
	}
	if p.ForecastTimeout <= 0 {
		fail("GLUCOSE_FORECAST_TIMEOUT", "must be positive")
	}
	if p.MinHistory < 1 {
		fail("GLUCOSE_MIN_HISTORY", "must be at least 1")
	}
	if p.WindowSize < p.MinHistory {
		fail("GLUCOSE_WINDOW_SIZE", "must not be smaller than the minimum history")
	}
	if p.DefaultHorizon <= 0 {
		fail("GLUCOSE_DEFAULT_HORIZON", "must be positive")
	}
	if p.Workers < 1 {
		fail("GLUCOSE_DISPATCH_WORKERS", "must be at least 1")
	}
	if p.QueueSize < 1 {
		fail("GLUCOSE_DISPATCH_QUEUE", "must be at least 1")
	}
	if cfg.DeviceRateLimit.Limit < 1 || cfg.DeviceRateLimit.Window <= 0 {
		fail("GLUCOSE_DEVICE_RATE_LIMIT", "limit and window must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
