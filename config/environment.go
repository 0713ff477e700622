package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Environment struct {
	IsDevelopment  bool
	Port           string
	DBDriver       string
	DBURL          string
	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	AllowedOrigins []string
	DataDir        string
	AutoAdvance    time.Duration
	SessionTTL     time.Duration
	MaxSessions    int
	LogMode        string
	LogLevel       string
}

// Load reads the environment. Only JWT_SECRET_KEY and, for postgres, DB_URL
// are required.
func Load() (Environment, error) {
	env := Environment{
		Port:        getenv("PORT", "8080"),
		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBURL:       os.Getenv("DB_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET_KEY"),
		JWTIssuer:   getenv("JWT_ISSUER", "tcm-study-api"),
		JWTAudience: getenv("JWT_AUDIENCE", "tcm-study-web"),
		DataDir:     getenv("DATA_DIR", "./data"),
		LogMode:     getenv("LOG_MODE", "development"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}
	env.IsDevelopment = env.LogMode != "production" && env.LogMode != "prod"

	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			env.AllowedOrigins = append(env.AllowedOrigins, o)
		}
	}

	ms, err := strconv.Atoi(getenv("AUTO_ADVANCE_MS", "1200"))
	if err != nil || ms < 0 {
		return env, fmt.Errorf("config: AUTO_ADVANCE_MS must be a non-negative integer")
	}
	env.AutoAdvance = time.Duration(ms) * time.Millisecond

	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "30m"))
	if err != nil || ttl <= 0 {
		return env, fmt.Errorf("config: SESSION_TTL must be a positive duration")
	}
	env.SessionTTL = ttl

	maxSessions, err := strconv.Atoi(getenv("MAX_SESSIONS", "10000"))
	if err != nil || maxSessions <= 0 {
		return env, fmt.Errorf("config: MAX_SESSIONS must be a positive integer")
	}
	env.MaxSessions = maxSessions

	if env.JWTSecret == "" {
		return env, fmt.Errorf("config: JWT_SECRET_KEY is required")
	}
	switch env.DBDriver {
	case "postgres":
		if env.DBURL == "" {
			return env, fmt.Errorf("config: DB_URL is required for postgres")
		}
	case "sqlite":
		if env.DBURL == "" {
			env.DBURL = "tcm-study.db"
		}
	default:
		return env, fmt.Errorf("config: unsupported DB_DRIVER %q", env.DBDriver)
	}
	return env, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
