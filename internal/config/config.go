package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/ansel1/merry"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	TLSCert     string
	TLSKey      string
	DBDriver    string
	DatabaseURL string
	TokenKey    []byte
	RateLimit   float64
	RateBurst   int
	Debug       bool
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Load reads .env files (when present) into the environment and builds a
// Config from it. Existing environment variables win over .env values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, merry.Prepend(err, "load .env")
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{
		ListenAddr:  getenv("LISTEN_ADDR"),
		TLSCert:     getenv("TLS_CERT"),
		TLSKey:      getenv("TLS_KEY"),
		DBDriver:    strings.ToLower(getenv("DB_DRIVER")),
		DatabaseURL: getenv("DATABASE_URL"),
		TokenKey:    []byte(getenv("TOKEN_KEY")),
		RateLimit:   1,
		RateBurst:   3,
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8443"
	}
	if c.DBDriver == "" {
		c.DBDriver = "postgres"
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return Config{}, merry.Errorf("DB_DRIVER %q: want postgres or sqlite", c.DBDriver)
	}
	if c.DatabaseURL == "" && c.DBDriver == "postgres" {
		c.DatabaseURL = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "gaspipe.sqlite"
	}

	if v := getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return Config{}, merry.Errorf("RATE_LIMIT %q: want a positive number", v)
		}
		c.RateLimit = f
	}
	if v := getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, merry.Errorf("RATE_BURST %q: want a positive integer", v)
		}
		c.RateBurst = n
	}
	if v := getenv("LOG_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, merry.Errorf("LOG_DEBUG %q: %w", v, err)
		}
		c.Debug = debug
	}
	return c, nil
}

// RequireToken fails when no JWT signing key is configured.
func (c Config) RequireToken() error {
	if len(c.TokenKey) == 0 {
		return merry.New("TOKEN_KEY environment variable is not set")
	}
	return nil
}
