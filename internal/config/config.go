// Package config loads runtime settings from .env files and SHOP_-prefixed
// environment variables, environment winning over file values.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SHOP"

// Config is the full runtime configuration of the server.
type Config struct {
	Addr  string `mapstructure:"addr"`
	Env   string `mapstructure:"env"`
	Store string `mapstructure:"store"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     int    `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	DBMaxOpenConns    int           `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int           `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c Config) Release() bool { return c.Env == "release" || c.Env == "production" }

// Load reads .env and .env.local when present, then resolves every setting
// through viper with the SHOP_ prefix (SHOP_ADDR, SHOP_DB_HOST, ...).
func Load() (Config, error) {
	// Missing files are fine; explicit environment always wins.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("env", "development")
	v.SetDefault("store", "postgres")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "storefront")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", 5*time.Minute)

	v.SetDefault("shutdown_timeout", 10*time.Second)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
