package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	DBDriver       string        `mapstructure:"DB_DRIVER"`
	DBDSN          string        `mapstructure:"DB_DSN"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	CORSOrigins    []string      `mapstructure:"-"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	TrustProxy     bool          `mapstructure:"TRUST_PROXY"`
	AdminEmail     string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword  string        `mapstructure:"ADMIN_PASSWORD"`
	AdminName      string        `mapstructure:"ADMIN_NAME"`
}

var keys = []string{
	"PORT", "DB_DRIVER", "DB_DSN", "JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL", "CORS_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "TRUST_PROXY", "ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME",
}

// Load reads the process environment, after loading any .env file found in
// the working directory, and checks everything the server needs.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStorage is Load for commands that only open the database.
func LoadStorage() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateStorage(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "6060")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("TOKEN_TTL", "12h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 1)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("ADMIN_NAME", "Administrator")

	// Unmarshal only sees env values for keys viper knows about
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be \"sqlite\" or \"postgres\", got %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.DBDSN == "" {
		return errors.New("DB_DSN is required for postgres")
	}
	return nil
}

func (c *Config) HasAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Level maps LOG_LEVEL onto gommon levels. Unknown values mean INFO.
func (c *Config) Level() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
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
