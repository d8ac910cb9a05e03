// Package config loads the staff directory configuration from a YAML
// file with environment overrides.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/staffdir/staffdir"
)

// App identifies the running instance.
type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// Log configures logger output.
type Log struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// JWT configures token issuance.
type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

// Redis configures the session store.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Auth configures credential handling.
type Auth struct {
	BcryptCost      int `mapstructure:"bcrypt_cost"`
	SessionTTLHours int `mapstructure:"session_ttl_hours"`
}

// Config is the full configuration tree.
type Config struct {
	App   App             `mapstructure:"app"`
	Log   Log             `mapstructure:"log"`
	JWT   JWT             `mapstructure:"jwt"`
	Auth  Auth            `mapstructure:"auth"`
	Redis Redis           `mapstructure:"redis"`
	DB    staffdir.Config `mapstructure:"db"`
}

// Load reads the configuration file at path, after loading a local .env
// file when one exists. Environment variables prefixed STAFFDIR override
// file values, with dots replaced by underscores.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STAFFDIR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeInvalidArgument,
			"failed to read config file", err)
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeInvalidArgument,
			"failed to unmarshal config", err)
	}
	return c, nil
}

// TokenTTL returns the access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	if c.JWT.AccessTokenTTLMin <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWT.AccessTokenTTLMin) * time.Minute
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	if c.Auth.SessionTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}
