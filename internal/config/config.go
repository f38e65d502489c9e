package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultKeepAliveURL      = "https://your-app-name.onrender.com/ping"
	defaultKeepAliveInterval = 60 * time.Second
)

type Config struct {
	Port        int
	Env         string
	LogLevel    string
	JWTSecret   string
	DatabaseURL string

	KeepAliveURL      string
	KeepAliveInterval time.Duration
	KeepAliveEnabled  bool

	// LeadsMaxPageLimit caps ?limit= on lead listing. 0 disables the cap.
	LeadsMaxPageLimit int

	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() Config {
	cfg := Config{
		Port:               5000,
		Env:                os.Getenv("APP_ENV"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		KeepAliveURL:       defaultKeepAliveURL,
		KeepAliveInterval:  defaultKeepAliveInterval,
		KeepAliveEnabled:   true,
		LeadsMaxPageLimit:  100,
		CORSAllowedOrigins: []string{"*"},
	}

	if cfg.Env == "" {
		cfg.Env = os.Getenv("NODE_ENV")
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	}

	if v := strings.TrimSpace(os.Getenv("KEEPALIVE_URL")); v != "" {
		cfg.KeepAliveURL = v
	}

	if v := os.Getenv("KEEPALIVE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.KeepAliveInterval = d
		}
	}

	if v := os.Getenv("KEEPALIVE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.KeepAliveEnabled = b
		}
	}

	if v := os.Getenv("LEADS_MAX_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.LeadsMaxPageLimit = n
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSAllowedOrigins = origins
		}
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}
