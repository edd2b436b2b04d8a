package cmd

import (
	"strconv"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/jobs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// PolicyPath is the allocation policy YAML file; empty uses the defaults.
	PolicyPath          string
	WizardRetryAttempts int
	OutboxDrainSchedule string
}

// NewConfig builds the configuration from a lookup function such as
// os.Getenv. Missing values fall back to defaults.
func NewConfig(lookup func(string) string) Config {
	get := func(key, fallback string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return fallback
	}

	attempts, err := strconv.Atoi(get("WIZARD_RETRY_ATTEMPTS", ""))
	if err != nil || attempts < 1 {
		attempts = commands.DefaultWizardAttempts
	}

	return Config{
		HTTPPort:            get("HTTP_PORT", "8080"),
		DBHost:              get("DB_HOST", "localhost"),
		DBPort:              get("DB_PORT", "5432"),
		DBUser:              get("DB_USER", "postgres"),
		DBPassword:          lookup("DB_PASSWORD"),
		DBName:              get("DB_NAME", "canister_transfer"),
		DBSslMode:           get("DB_SSLMODE", "disable"),
		PolicyPath:          lookup("POLICY_PATH"),
		WizardRetryAttempts: attempts,
		OutboxDrainSchedule: get("OUTBOX_DRAIN_SCHEDULE", jobs.DefaultOutboxDrainSchedule),
	}
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSslMode
}
