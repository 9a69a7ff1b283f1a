package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	Port          string
	AllowedOrigin string

	OpenAIAPIKey    string
	OpenAIBaseURL   string
	ClassifyModel   string
	ImageEditModel  string
	OutfitSize      string
	ClassifyTimeout time.Duration
	GenerateTimeout time.Duration

	JobStoreDriver string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32

	StorageDriver  string
	StoragePath    string
	StorageBaseURL string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3PathStyle    bool
	UploadTimeout  time.Duration
	FetchTimeout   time.Duration
	MaxUploadBytes int64

	GeoIPDBPath   string
	DefaultLocale string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "https://aistylemate.ru"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ClassifyModel:   getEnv("CLASSIFY_MODEL", "gpt-4.1-mini"),
		ImageEditModel:  getEnv("IMAGE_EDIT_MODEL", "gpt-image-1"),
		OutfitSize:      getEnv("OUTFIT_SIZE", "1024x1024"),
		ClassifyTimeout: time.Second * time.Duration(getEnvInt("CLASSIFY_TIMEOUT_SECONDS", 60)),
		GenerateTimeout: time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 180)),

		JobStoreDriver: getEnv("JOBSTORE_DRIVER", "redis"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxConns:     int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:     int32(getEnvInt("DB_MIN_CONNS", 1)),

		StorageDriver:  getEnv("STORAGE_DRIVER", "filesystem"),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/outfits/file"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3PathStyle:    getEnvBool("S3_PATH_STYLE", false),
		UploadTimeout:  time.Second * time.Duration(getEnvInt("UPLOAD_TIMEOUT_SECONDS", 30)),
		FetchTimeout:   time.Second * time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 30)),
		MaxUploadBytes: int64(getEnvInt("MAX_FILE_MB", 4)) * 1024 * 1024,

		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "ru"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	switch cfg.JobStoreDriver {
	case "redis", "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres job store")
		}
	default:
		return nil, fmt.Errorf("unknown JOBSTORE_DRIVER %q", cfg.JobStoreDriver)
	}

	switch cfg.StorageDriver {
	case "filesystem":
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
