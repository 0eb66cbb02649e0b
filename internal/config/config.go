package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// BaseURL is the externally reachable origin, used to build the
	// magic links sent by email.
	BaseURL     string `mapstructure:"base_url"`
	Environment string `mapstructure:"environment"` // "development" or "production"
}

func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// AuthConfig defines session and magic-link specific configuration.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	OTPExpiration time.Duration `mapstructure:"otp_expiration"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	From     string `mapstructure:"from"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. server.address -> SERVER_ADDRESS,
	// auth.jwt_secret -> AUTH_JWT_SECRET.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("database.dsn", "postgres://localhost:5432/synthesized?sslmode=disable")
	viper.SetDefault("auth.jwt_expiration", "168h") // One week of signed-in sessions.
	viper.SetDefault("auth.otp_expiration", "15m")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.from", "no-reply@synthesized.local")

	err = viper.ReadInConfig()
	// Missing config file is fine; env vars and defaults carry the rest.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
