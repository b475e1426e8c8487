package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Images   ImagesConfig   `mapstructure:"images"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type CheckoutConfig struct {
	// TxTimeout bounds a single order submission transaction.
	TxTimeout time.Duration `mapstructure:"tx_timeout"`
}

type ImagesConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	MaxInFlight  int64         `mapstructure:"max_in_flight"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.electromart/")
	v.AddConfigPath("/etc/electromart/")

	// Enable environment variable override with ELECTROMART_ prefix
	v.SetEnvPrefix("ELECTROMART")
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.maxOpenConns", 16)
	v.SetDefault("checkout.tx_timeout", 5*time.Second)
	v.SetDefault("images.fetch_timeout", 10*time.Second)
	v.SetDefault("images.max_in_flight", 8)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
