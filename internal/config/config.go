// Package config carga la configuración del proceso desde variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Conflict scopes para la detección de superposición de turnos.
const (
	ScopeDog          = "dog"
	ScopeProfessional = "professional"
	ScopeBoth         = "both"
)

const devSessionSecret = "dev-only-session-secret-change-me"

// Config holds all configuration for the application
type Config struct {
	Port string

	DBDriver string // sqlite | postgres
	DBDSN    string

	SessionSecret string
	SessionSecure bool
	DevAuth       bool // acepta X-Debug-User-ID (sólo dev/tests)

	AdminUsername string
	AdminPassword string

	BackupDir      string
	BackupSchedule string // spec de cron; vacío desactiva

	ConflictScope      string
	RejectPastBookings bool
	Location           *time.Location

	LoginRatePerMin int

	LogLevel  string
	LogFormat string
	LogFile   string
	AppName   string
}

// Load lee .env (si existe) y luego el entorno.
// Devuelve error si algún valor es inválido.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               envOr("PORT", "8080"),
		DBDriver:           strings.ToLower(envOr("DB_DRIVER", "sqlite")),
		DBDSN:              envOr("DB_DSN", "file:peluqueria.db"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionSecure:      envBool("SESSION_SECURE"),
		DevAuth:            envBool("DEV_AUTH"),
		AdminUsername:      envOr("ADMIN_USERNAME", "admin"),
		AdminPassword:      envOr("ADMIN_PASSWORD", "admin123"),
		BackupDir:          envOr("BACKUP_DIR", "export"),
		BackupSchedule:     os.Getenv("BACKUP_SCHEDULE"),
		ConflictScope:      strings.ToLower(envOr("CONFLICT_SCOPE", ScopeDog)),
		RejectPastBookings: envBool("REJECT_PAST_BOOKINGS"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		LogFormat:          os.Getenv("LOG_FORMAT"),
		LogFile:            os.Getenv("LOG_FILE"),
		AppName:            envOr("APP_NAME", "peluqueria-canina"),
	}

	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("PORT must be a valid TCP port (got %q)", cfg.Port)
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be sqlite or postgres (got %q)", cfg.DBDriver)
	}

	switch cfg.ConflictScope {
	case ScopeDog, ScopeProfessional, ScopeBoth:
	default:
		return nil, fmt.Errorf("CONFLICT_SCOPE must be dog, professional or both (got %q)", cfg.ConflictScope)
	}

	if cfg.SessionSecret == "" {
		if !cfg.DevAuth {
			return nil, fmt.Errorf("SESSION_SECRET is required")
		}
		cfg.SessionSecret = devSessionSecret
	}

	tz := envOr("TIMEZONE", "America/Argentina/Buenos_Aires")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.LoginRatePerMin = 10
	if v := os.Getenv("LOGIN_RATE_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("LOGIN_RATE_PER_MIN must be a positive integer (got %q)", v)
		}
		cfg.LoginRatePerMin = n
	}

	return cfg, nil
}

// Defaults devuelve la configuración de desarrollo (auth por header, SQLite,
// sin backup programado). La usan los tests y NewRouter cuando no recibe Config.
func Defaults() *Config {
	return &Config{
		Port:            "8080",
		DBDriver:        "sqlite",
		DBDSN:           "file:peluqueria.db",
		SessionSecret:   devSessionSecret,
		DevAuth:         true,
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		BackupDir:       "export",
		ConflictScope:   ScopeDog,
		Location:        time.UTC,
		LoginRatePerMin: 10,
		AppName:         "peluqueria-canina",
	}
}

// Addr devuelve la dirección de escucha para http.Server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}
