package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process-level configuration.
type Server struct {
	Addr     string `env:"DOCKET_ADDR" envDefault:":8080"`
	LogLevel string `env:"DOCKET_LOG_LEVEL" envDefault:"info"`

	Database  DatabaseConfig
	Redis     RedisConfig
	Checklist ChecklistConfig
}

// DatabaseConfig configures the PostgreSQL pool. An empty URL selects the
// in-memory stores seeded from the rule-set file.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig configures the template cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// ChecklistConfig configures resolution behavior.
type ChecklistConfig struct {
	// RuleSetFile is a YAML rule set loaded when no database is configured.
	RuleSetFile string `env:"DOCKET_RULESET_FILE" envDefault:"config/ruleset.yaml"`
	// RuleSetWatch reloads RuleSetFile on change. Ignored with a database.
	RuleSetWatch bool `env:"DOCKET_RULESET_WATCH" envDefault:"false"`
	// SubjectsFile optionally seeds subjects and submissions when no database
	// is configured. Empty starts the in-memory stores empty.
	SubjectsFile string `env:"DOCKET_SUBJECTS_FILE"`
	// MalformedRulePolicy is "skip" or "abort".
	MalformedRulePolicy string        `env:"DOCKET_MALFORMED_RULE_POLICY" envDefault:"skip"`
	BatchConcurrency    int           `env:"DOCKET_BATCH_CONCURRENCY" envDefault:"8"`
	MaxBatchSize        int           `env:"DOCKET_MAX_BATCH_SIZE" envDefault:"500"`
	TemplateCacheTTL    time.Duration `env:"DOCKET_TEMPLATE_CACHE_TTL" envDefault:"5m"`
	// CacheFailureThreshold consecutive Redis errors bypass the cache for
	// CacheCooldown between trials.
	CacheFailureThreshold int           `env:"DOCKET_CACHE_FAILURE_THRESHOLD" envDefault:"5"`
	CacheCooldown         time.Duration `env:"DOCKET_CACHE_COOLDOWN" envDefault:"10s"`
	// Timezone is the business timezone used to turn "now" into a date.
	Timezone string `env:"DOCKET_TIMEZONE" envDefault:"America/Sao_Paulo"`
}

// Location resolves the configured business timezone.
func (c ChecklistConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) validate() error {
	if c.Checklist.BatchConcurrency < 1 {
		return fmt.Errorf("DOCKET_BATCH_CONCURRENCY must be at least 1, got %d", c.Checklist.BatchConcurrency)
	}
	if c.Checklist.MaxBatchSize < 1 {
		return fmt.Errorf("DOCKET_MAX_BATCH_SIZE must be at least 1, got %d", c.Checklist.MaxBatchSize)
	}
	if _, err := c.Checklist.Location(); err != nil {
		return err
	}
	return nil
}
