package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments (port, DB connection,
//   secrets) and anything security-sensitive
// - default: values common across all environments (timezone, timeouts)
//
// Business settings (hours, durations, TTLs) do NOT live here: they are rows
// in the settings table so the administrator can change them without a deploy.
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Calendar CalendarConfig
	Admin    AdminConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type AppConfig struct {
	// Timezone all wall-clock scheduling rules are evaluated in.
	Timezone string `envconfig:"APP_TIMEZONE" default:"Europe/Paris"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/Paris"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"3600"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

type CalendarConfig struct {
	// FeedURL is the external iCal feed mirrored into the local cache.
	// Empty disables the external calendar entirely.
	FeedURL      string        `envconfig:"CALENDAR_FEED_URL" default:""`
	FetchTimeout time.Duration `envconfig:"CALENDAR_FETCH_TIMEOUT" default:"10s"`
	UserAgent    string        `envconfig:"CALENDAR_USER_AGENT" default:"sensea-booking/1.0"`
}

type AdminConfig struct {
	Login        string `envconfig:"ADMIN_LOGIN" required:"true"`
	PasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
