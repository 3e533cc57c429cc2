/*
Package configs is responsible for loading and parsing the application's configuration settings.

Every value comes from an environment variable with a default suited to running
the chat room on a local network: the listen port, CORS origins, static file
and upload locations, history size, storage driver and the optional database.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// StorageDriverLocal stores uploads on the local disk.
	StorageDriverLocal = "local"

	// StorageDriverS3 stores uploads in an S3-compatible bucket.
	StorageDriverS3 = "s3"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int
	LogLevel    string

	// Security Settings
	AllowedOrigins []string

	// Chat Settings
	HistoryLimit int

	// Static and Upload Settings
	PublicDir         string
	MaxUploadSizeMB   int
	StorageDriver     string
	UploadDir         string
	S3BucketName      string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Database Settings
	DatabaseDSN string
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// MaxUploadSize returns the upload request size cap in bytes.
func (c *AppConfig) MaxUploadSize() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// LoadConfig reads and parses the application configuration from environment variables.
// It applies defaults for each item, converts types and validates ranges.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = getEnv("ENVIRONMENT", "development")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")

	port, err := getEnvInt("PORT", 3000)
	if err != nil {
		return nil, err
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", port, 1024, 65535)
	}
	cfg.Port = port

	// --- Security Settings ---
	cfg.AllowedOrigins = []string{}
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	// --- Chat Settings ---
	historyLimit, err := getEnvInt("HISTORY_LIMIT", 100)
	if err != nil {
		return nil, err
	}
	if historyLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", historyLimit)
	}
	cfg.HistoryLimit = historyLimit

	// --- Static and Upload Settings ---
	cfg.PublicDir = getEnv("PUBLIC_DIR", "public")

	maxUpload, err := getEnvInt("MAX_UPLOAD_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	if maxUpload < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive, got %d", maxUpload)
	}
	cfg.MaxUploadSizeMB = maxUpload

	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverLocal))
	switch cfg.StorageDriver {
	case StorageDriverLocal:
		cfg.UploadDir = getEnv("UPLOAD_DIR", "uploads")

	case StorageDriverS3:
		if err := loadS3Settings(cfg); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q (expected %q or %q)", cfg.StorageDriver, StorageDriverLocal, StorageDriverS3)
	}

	// --- Database Settings ---
	// Optional: without it uploads are not indexed.
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")

	return cfg, nil
}

func loadS3Settings(cfg *AppConfig) error {
	required := []struct {
		name string
		dst  *string
	}{
		{"S3_BUCKET_NAME", &cfg.S3BucketName},
		{"S3_ENDPOINT", &cfg.S3Endpoint},
		{"S3_ACCESS_KEY_ID", &cfg.S3AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", &cfg.S3SecretAccessKey},
	}

	for _, item := range required {
		*item.dst = os.Getenv(item.name)
		if *item.dst == "" {
			return fmt.Errorf("%s environment variable is required when STORAGE_DRIVER is %q", item.name, StorageDriverS3)
		}
	}

	cfg.S3Region = getEnv("S3_REGION", "auto")
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
