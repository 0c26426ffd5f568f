package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string

	// BusinessTZOffsetMin is the fixed business-timezone offset from UTC in
	// minutes. All rule time-of-day semantics use it; it is immutable after
	// start.
	BusinessTZOffsetMin int

	SweepInterval   time.Duration
	RuleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultTZOffsetMin     = 0
	defaultSweepInterval   = 3 * time.Minute
	defaultRuleTimeout     = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		BusinessTZOffsetMin: getInt(lookup, "BUSINESS_TZ_OFFSET_MIN", defaultTZOffsetMin),
		SweepInterval:       getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		RuleTimeout:         getDuration(lookup, "RULE_TIMEOUT", defaultRuleTimeout),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("aquadesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.SweepInterval.String()
		ruleTimeoutStr     = cfg.RuleTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.IntVar(&cfg.BusinessTZOffsetMin, "tz-offset", cfg.BusinessTZOffsetMin, "Business timezone offset from UTC in minutes")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Cadence of the recurrence sweep")
	fs.StringVar(&ruleTimeoutStr, "rule-timeout", ruleTimeoutStr, "Per-rule processing timeout inside a sweep")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.RuleTimeout, err = time.ParseDuration(ruleTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid rule timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.RuleTimeout <= 0 {
		cfg.RuleTimeout = defaultRuleTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.BusinessTZOffsetMin < -14*60 || cfg.BusinessTZOffsetMin > 14*60 {
		return nil, fmt.Errorf("business timezone offset %d out of range", cfg.BusinessTZOffsetMin)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
