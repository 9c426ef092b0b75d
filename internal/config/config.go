// Package config loads runtime settings from configs/.env and the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the postgres connection string
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}

type Config struct {
	Port          string
	GinMode       string
	StorageDriver string
	DB            DBConfig
	SQLitePath    string
	JWTSecret     string
	JWTTTL        time.Duration
	CORSOrigins   []string
	SeedData      bool
	PingMessage   string

	// actor ids used when a request carries neither a token nor X-User-ID
	MockRequesterID uint
	MockApproverID  uint
	// approver of the second chain step when no active tesorero user exists
	TreasurerUserID uint
}

// Load reads configs/.env when present and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverMemory)),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SQLitePath:  getEnv("SQLITE_PATH", "iglesia360.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:5174")),
		PingMessage: getEnv("PING_MESSAGE", "ping"),
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.SeedData, err = strconv.ParseBool(getEnv("SEED_DATA", "true")); err != nil {
		return nil, fmt.Errorf("invalid SEED_DATA: %w", err)
	}
	if cfg.MockRequesterID, err = getUint("MOCK_REQUESTER_ID", 5); err != nil {
		return nil, err
	}
	if cfg.MockApproverID, err = getUint("MOCK_APPROVER_ID", 2); err != nil {
		return nil, err
	}
	if cfg.TreasurerUserID, err = getUint("TREASURER_USER_ID", 2); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getUint(key string, fallback uint) (uint, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return uint(v), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
