package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`
	SQLitePath string `yaml:"sqlite_path"`

	// JWT
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTAccessExpiry  time.Duration `yaml:"jwt_access_expiry"`
	JWTRefreshExpiry time.Duration `yaml:"jwt_refresh_expiry"`

	// Federated sign-in (OpenID Connect ID tokens), off while the JWKS URL
	// is empty
	FederatedIssuer   string `yaml:"federated_issuer"`
	FederatedJWKSURL  string `yaml:"federated_jwks_url"`
	FederatedAudience string `yaml:"federated_audience"`

	// Server
	Port        string `yaml:"port"`
	CORSOrigins string `yaml:"cors_origins"`

	// Logging
	LogRetentionDays int `yaml:"log_retention_days"`
}

// Load builds the config from an optional YAML file (CONFIG_FILE) and then
// environment variables, which take precedence.
func Load() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DBDriver:   "postgres",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBName:     "taskboard",
		DBSSLMode:  "disable",
		SQLitePath: "taskboard.db",

		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,

		FederatedIssuer: "https://accounts.google.com",

		Port:        "8080",
		CORSOrigins: "*",

		LogRetentionDays: 30,
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBSSLMode = getEnv("DB_SSLMODE", c.DBSSLMode)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTAccessExpiry = parseDuration(os.Getenv("JWT_ACCESS_EXPIRY"), c.JWTAccessExpiry)
	c.JWTRefreshExpiry = parseDuration(os.Getenv("JWT_REFRESH_EXPIRY"), c.JWTRefreshExpiry)

	c.FederatedIssuer = getEnv("FEDERATED_ISSUER", c.FederatedIssuer)
	c.FederatedJWKSURL = getEnv("FEDERATED_JWKS_URL", c.FederatedJWKSURL)
	c.FederatedAudience = getEnv("FEDERATED_AUDIENCE", c.FederatedAudience)

	c.Port = getEnv("PORT", c.Port)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)

	if v := os.Getenv("LOG_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.LogRetentionDays = n
		}
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres":
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.FederatedJWKSURL != "" && (c.FederatedIssuer == "" || c.FederatedAudience == "") {
		return fmt.Errorf("FEDERATED_ISSUER and FEDERATED_AUDIENCE are required when FEDERATED_JWKS_URL is set")
	}
	return nil
}

func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
