package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the therapy
// scheduler service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	SessionTTL     time.Duration
	BootstrapEmail string
	// BootstrapPassword seeds the first admin account when the accounts
	// table is empty. Required together with BootstrapEmail.
	BootstrapPassword string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; missing required values and
// unparseable values are each aggregated into a single error so operators
// see every problem at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:therapy-scheduler.db",
		SessionTTL: 12 * time.Hour,
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("THERAPY_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "THERAPY_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("THERAPY_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("THERAPY_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "THERAPY_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	cfg.BootstrapEmail = strings.TrimSpace(os.Getenv("THERAPY_BOOTSTRAP_EMAIL"))
	cfg.BootstrapPassword = os.Getenv("THERAPY_BOOTSTRAP_PASSWORD")
	if cfg.BootstrapEmail == "" {
		missing = append(missing, "THERAPY_BOOTSTRAP_EMAIL")
	}
	if cfg.BootstrapPassword == "" {
		missing = append(missing, "THERAPY_BOOTSTRAP_PASSWORD")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
