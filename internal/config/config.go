// Package config loads the console configuration from a YAML file
// and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"vacuna-catalog/internal/domain/entity"
	pkgconfig "vacuna-catalog/pkg/config"
)

// Config is the complete runtime configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Breaker  BreakerConfig  `yaml:"breaker"`
	Retry    RetryConfig    `yaml:"retry"`
}

// DatabaseConfig describes how to reach PostgreSQL.
// URL takes precedence over the discrete fields.
type DatabaseConfig struct {
	URL         string        `yaml:"url"`
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	User        string        `yaml:"user"`
	Password    string        `yaml:"password"`
	Name        string        `yaml:"name"`
	SSLMode     string        `yaml:"sslmode"`
	PingTimeout time.Duration `yaml:"ping_timeout"`
	Pool        PoolConfig    `yaml:"pool"`
}

// PoolConfig mirrors db.ConnectionConfig.
type PoolConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// BreakerConfig configures the database circuit breaker.
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// RetryConfig configures retries of serializable transactions.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Host:        "localhost",
			Port:        5432,
			User:        "testuser",
			Password:    "testpass",
			Name:        "testdb",
			SSLMode:     "disable",
			PingTimeout: 5 * time.Second,
			Pool: PoolConfig{
				MaxOpenConns:    4,
				MaxIdleConns:    2,
				ConnMaxLifetime: time.Hour,
				ConnMaxIdleTime: 30 * time.Minute,
			},
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      3,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
// The path parameter is expected to come from a trusted source (command-line argument).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path is provided by the operator on the command line
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	db := &c.Database
	pkgconfig.StringVar(&db.URL, "DATABASE_URL")
	pkgconfig.StringVar(&db.Host, "DB_HOST")
	pkgconfig.IntVar(&db.Port, "DB_PORT")
	pkgconfig.StringVar(&db.User, "DB_USER")
	pkgconfig.StringVar(&db.Password, "DB_PASSWORD")
	pkgconfig.StringVar(&db.Name, "DB_NAME")
	pkgconfig.StringVar(&db.SSLMode, "DB_SSLMODE")
	pkgconfig.DurationVar(&db.PingTimeout, "DB_PING_TIMEOUT")
	pkgconfig.IntVar(&db.Pool.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	pkgconfig.IntVar(&db.Pool.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	pkgconfig.DurationVar(&db.Pool.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME")
	pkgconfig.DurationVar(&db.Pool.ConnMaxIdleTime, "DB_CONN_MAX_IDLE_TIME")

	pkgconfig.StringVar(&c.Log.Level, "LOG_LEVEL")
	pkgconfig.StringVar(&c.Log.Format, "LOG_FORMAT")
	pkgconfig.StringVar(&c.Metrics.Addr, "METRICS_ADDR")
	pkgconfig.IntVar(&c.Retry.MaxAttempts, "TX_RETRY_MAX_ATTEMPTS")
}

// Validate checks the configuration. Failures are *entity.ValidationError values
// joined together.
func (c *Config) Validate() error {
	var errs []error
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, &entity.ValidationError{Field: field, Message: err.Error(), Err: entity.ErrInvalidInput})
		}
	}

	db := c.Database
	if db.URL == "" {
		if db.Host == "" {
			add("database.host", errors.New("host is required"))
		}
		if db.Name == "" {
			add("database.name", errors.New("name is required"))
		}
		add("database.port", pkgconfig.ValidateIntRange(db.Port, 1, 65535))
	}
	add("database.ping_timeout", pkgconfig.ValidatePositiveDuration(db.PingTimeout))
	add("database.pool.max_open_conns", pkgconfig.ValidateIntRange(db.Pool.MaxOpenConns, 1, 1000))
	add("database.pool.max_idle_conns", pkgconfig.ValidateIntRange(db.Pool.MaxIdleConns, 0, db.Pool.MaxOpenConns))

	switch c.Log.Format {
	case "json", "text":
	default:
		add("log.format", fmt.Errorf("must be json or text, got %q", c.Log.Format))
	}

	add("breaker.timeout", pkgconfig.ValidatePositiveDuration(c.Breaker.Timeout))
	add("breaker.failure_threshold", pkgconfig.ValidateRatio(c.Breaker.FailureThreshold))
	add("retry.max_attempts", pkgconfig.ValidateIntRange(c.Retry.MaxAttempts, 1, 10))
	add("retry.initial_delay", pkgconfig.ValidatePositiveDuration(c.Retry.InitialDelay))
	if c.Retry.MaxDelay < c.Retry.InitialDelay {
		add("retry.max_delay", fmt.Errorf("must be >= initial_delay (%v)", c.Retry.InitialDelay))
	}

	return errors.Join(errs...)
}

// DSN returns the connection string for the pgx driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
