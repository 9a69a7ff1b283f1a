package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JOBSTORE_DRIVER", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.JobStoreDriver != "redis" {
		t.Fatalf("JobStoreDriver = %q", cfg.JobStoreDriver)
	}
	if cfg.StorageDriver != "filesystem" {
		t.Fatalf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.OutfitSize != "1024x1024" {
		t.Fatalf("OutfitSize = %q", cfg.OutfitSize)
	}
	if cfg.MaxUploadBytes != 4*1024*1024 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.GenerateTimeout != 180*time.Second {
		t.Fatalf("GenerateTimeout = %s", cfg.GenerateTimeout)
	}
	if cfg.DefaultLocale != "ru" {
		t.Fatalf("DefaultLocale = %q", cfg.DefaultLocale)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Fatalf("pool sizing = %d/%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without OPENAI_API_KEY")
	}
}

func TestLoadConfigPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JOBSTORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoadConfigRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JOBSTORE_DRIVER", "cassandra")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown job store driver")
	}

	t.Setenv("JOBSTORE_DRIVER", "memory")
	t.Setenv("STORAGE_DRIVER", "ftp")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}

func TestLoadConfigS3RequiresBucket(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JOBSTORE_DRIVER", "memory")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without S3_BUCKET")
	}
}
