package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Ranker   RankerConfig
	Gemini   GeminiConfig
	Qdrant   QdrantConfig
	Archive  ArchiveConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	LogLevel        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
	KeepUploads bool
}

// RankerConfig holds the vectorizer settings. It is read-only after Load; every
// ranking call builds its own vector space from it.
type RankerConfig struct {
	Lowercase      bool
	SmoothIDF      bool
	SublinearTF    bool
	StopWords      []string
	ExtractTimeout time.Duration
	Concurrency    int
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type ArchiveConfig struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
}

type WorkerConfig struct {
	Concurrency      int
	QueueSize        int
	RetryMaxAttempts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "memory"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "resume_ranker"),
			LogLevel:        getEnv("DB_LOG_LEVEL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "30m"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			KeepUploads: getEnvAsBool("KEEP_UPLOADS", false),
		},
		Ranker: RankerConfig{
			Lowercase:      getEnvAsBool("RANKER_LOWERCASE", true),
			SmoothIDF:      getEnvAsBool("RANKER_SMOOTH_IDF", true),
			SublinearTF:    getEnvAsBool("RANKER_SUBLINEAR_TF", false),
			StopWords:      getEnvAsList("RANKER_STOP_WORDS"),
			ExtractTimeout: getEnvAsDuration("EXTRACT_TIMEOUT", "30s"),
			Concurrency:    getEnvAsInt("EXTRACT_CONCURRENCY", 4),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_candidates"),
		},
		Archive: ArchiveConfig{
			AccountID: getEnv("ARCHIVE_ACCOUNT_ID", ""),
			Bucket:    getEnv("ARCHIVE_BUCKET", ""),
			AccessKey: getEnv("ARCHIVE_ACCESS_KEY", ""),
			SecretKey: getEnv("ARCHIVE_SECRET_KEY", ""),
			Region:    getEnv("ARCHIVE_REGION", "auto"),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvAsInt("WORKER_CONCURRENCY", 2),
			QueueSize:        getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// IndexEnabled reports whether the semantic candidate index can be built.
func (c *Config) IndexEnabled() bool {
	return c.Gemini.APIKey != "" && c.Qdrant.URL != ""
}

func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
