// Package config reads the service configuration from the environment and
// command line flags. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds everything main needs to assemble the service.
type Config struct {
	Port     string
	DiagAddr string

	StoreDriver     string
	StoreTimeout    time.Duration
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	Env      string
	LogLevel string

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	Routes bool // print route docs and exit
	Seed   bool // insert the sample article on startup
}

// Addr is the API listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// LoadDotEnv reads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: %s: %w", path, err)
	}

	return nil
}

// Load builds a Config from getenv and args (without the program name).
func Load(args []string, getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}

		return fallback
	}

	cfg := &Config{
		MongoCollection: env("MONGO_COLLECTION", "bollywoodnews"),
		Env:             env("APP_ENV", "production"),
		LogLevel:        env("LOG_LEVEL", "info"),
		CORSOrigins:     splitList(env("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.StoreTimeout, err = time.ParseDuration(env("STORE_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("config: STORE_TIMEOUT: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(env("RATE_LIMIT_RPS", "10"), 64); err != nil {
		return nil, fmt.Errorf("config: RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(env("RATE_LIMIT_BURST", "20")); err != nil {
		return nil, fmt.Errorf("config: RATE_LIMIT_BURST: %w", err)
	}

	fs := flag.NewFlagSet("bollywood", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", env("PORT", "5000"), "application port")
	fs.StringVar(&cfg.DiagAddr, "diag_addr", env("DIAG_ADDR", ":9999"), "diag address")
	fs.StringVar(&cfg.StoreDriver, "store", env("STORE_DRIVER", DriverMongo), "store driver: mongo or memory")
	fs.StringVar(&cfg.MongoURI, "mongo_uri", env("MONGO_URI", ""), "MongoDB connection string")
	fs.StringVar(&cfg.MongoDatabase, "mongo_db", env("MONGO_DB", "bollywood"), "MongoDB database")
	fs.BoolVar(&cfg.Routes, "routes", false, "Generate router documentation")
	fs.BoolVar(&cfg.Seed, "seed", false, "Insert the sample article on startup")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("config: invalid port %q", c.Port)
	}

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" && !c.Routes {
			return errors.New("config: MONGO_URI is required for the mongo store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}

	if c.StoreTimeout < 0 {
		return errors.New("config: STORE_TIMEOUT must not be negative")
	}
	if c.RateLimitRPS < 0 {
		return errors.New("config: RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return errors.New("config: RATE_LIMIT_BURST must be at least 1")
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
