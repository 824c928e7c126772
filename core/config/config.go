// Package config loads application configuration from environment variables
// (optionally seeded from a .env file) via viper. Load must be called once at
// startup; Get/GetSafe give read access afterwards.
package config

import (
	"fmt"
	"sync"

	"parking-rsvp-api/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string // bcrypt
	TokenTTLHours     int
}

type RSVPConfig struct {
	TokenSecret string
	LinkBaseURL string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	RSVP     RSVPConfig
	AWS      AWSConfig
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads the environment into the package-level config instance.
// A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("SERVER_ENV", constants.EnvDevelopment)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "parking_rsvp")
	v.SetDefault("DB_SSL_MODE", constants.DatabaseSSLMode)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_TOKEN_TTL_HOURS", 24)

	v.SetDefault("RSVP_LINK_BASE_URL", "http://localhost:7070")

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_EXPORT_BUCKET", "parking-rsvp-exports")

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:         v.GetString("AUTH_JWT_SECRET"),
			AdminEmail:        v.GetString("AUTH_ADMIN_EMAIL"),
			AdminPasswordHash: v.GetString("AUTH_ADMIN_PASSWORD_HASH"),
			TokenTTLHours:     v.GetInt("AUTH_TOKEN_TTL_HOURS"),
		},
		RSVP: RSVPConfig{
			TokenSecret: v.GetString("RSVP_TOKEN_SECRET"),
			LinkBaseURL: v.GetString("RSVP_LINK_BASE_URL"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("AWS_EXPORT_BUCKET"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the loaded config. Callers on the request path should prefer
// GetSafe and handle the uninitialized case.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// GetSafe reports whether the config has been loaded.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, false
	}
	return instance, true
}

// SetForTest swaps the config instance, for use from tests only.
func SetForTest(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
