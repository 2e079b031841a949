package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO (or any S3-compatible store).
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds JWT signing settings and the optional first-boot admin seed.
// SeedAdminPassword left empty disables seeding.
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int

	SeedAdminUsername string
	SeedAdminEmail    string
	SeedAdminPassword string
}

// AvatarConfig holds the time-to-live windows for avatar upload and display URLs.
// Upload authorizations are clamped to a 5-15 minute window; display URLs are
// short-lived signed GETs.
type AvatarConfig struct {
	UploadURLTTLSec  int
	DisplayURLTTLSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Avatar   AvatarConfig
}

const (
	minUploadTTLSec = 300
	maxUploadTTLSec = 900
)

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	cfg := &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "ssis-avatars"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLHours: getEnvInt("JWT_TTL_HOURS", 24),

			SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
			SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@ssis.local"),
			SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
		Avatar: AvatarConfig{
			UploadURLTTLSec:  getEnvInt("AVATAR_UPLOAD_URL_TTL_SEC", 600),
			DisplayURLTTLSec: getEnvInt("AVATAR_DISPLAY_URL_TTL_SEC", 300),
		},
	}

	// Keep upload authorizations inside the allowed window even if misconfigured.
	if cfg.Avatar.UploadURLTTLSec < minUploadTTLSec {
		cfg.Avatar.UploadURLTTLSec = minUploadTTLSec
	}
	if cfg.Avatar.UploadURLTTLSec > maxUploadTTLSec {
		cfg.Avatar.UploadURLTTLSec = maxUploadTTLSec
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
