package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSigningKey        string   `mapstructure:"JWT_SIGNING_KEY"`
	BasicAuthUsername    string   `mapstructure:"BASIC_AUTH_USERNAME"`
	BasicAuthPassword    string   `mapstructure:"BASIC_AUTH_PASSWORD"`
	ReportTimezone       string   `mapstructure:"REPORT_TIMEZONE"`
	OrderExecutedConcept string   `mapstructure:"ORDER_EXECUTED_CONCEPT"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("REPORT_TIMEZONE", "UTC")
	v.SetDefault("ORDER_EXECUTED_CONCEPT", "Order executed")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("BASIC_AUTH_USERNAME")
	v.BindEnv("BASIC_AUTH_PASSWORD")
	v.BindEnv("REPORT_TIMEZONE")
	v.BindEnv("ORDER_EXECUTED_CONCEPT")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — all requests get admin access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure JWT_SIGNING_KEY.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves REPORT_TIMEZONE. Chart days and treatment timelines are
// bucketed by midnight in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

// Validate checks that the configuration is safe to run. Outside development
// mode at least one authentication mechanism must be configured: a JWT signing
// key, HTTP Basic credentials, or both.
func (c *Config) Validate() error {
	if c.IsDev() {
		return nil
	}
	if c.JWTSigningKey == "" && c.BasicAuthUsername == "" {
		return fmt.Errorf(
			"JWT_SIGNING_KEY or BASIC_AUTH_USERNAME/BASIC_AUTH_PASSWORD must be set when ENV=%q. "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if c.BasicAuthUsername != "" && c.BasicAuthPassword == "" {
		return fmt.Errorf("BASIC_AUTH_PASSWORD is required when BASIC_AUTH_USERNAME is set")
	}
	return nil
}
