package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.True(t, cfg.Ranker.Lowercase)
	assert.True(t, cfg.Ranker.SmoothIDF)
	assert.False(t, cfg.Ranker.SublinearTF)
	assert.Empty(t, cfg.Ranker.StopWords)
	assert.Equal(t, 30*time.Second, cfg.Ranker.ExtractTimeout)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
	assert.False(t, cfg.IndexEnabled())
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("RANKER_LOWERCASE", "false")
	t.Setenv("RANKER_STOP_WORDS", "and, the, ,of")
	t.Setenv("EXTRACT_TIMEOUT", "5s")
	t.Setenv("EXTRACT_CONCURRENCY", "not-a-number")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("QDRANT_URL", "http://localhost:6334")
	t.Setenv("ARCHIVE_BUCKET", "reports")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Ranker.Lowercase)
	assert.Equal(t, []string{"and", "the", "of"}, cfg.Ranker.StopWords)
	assert.Equal(t, 5*time.Second, cfg.Ranker.ExtractTimeout)
	assert.Equal(t, 4, cfg.Ranker.Concurrency)
	assert.True(t, cfg.IndexEnabled())
	assert.True(t, cfg.ArchiveEnabled())
}

func TestGetEnvAsDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, 2*time.Second, getEnvAsDuration("SOME_TIMEOUT", "2s"))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "n"}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.GetDatabaseDSN())
}

func TestLoad_DatabasePool(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("DB_LOG_LEVEL", "warn")

	cfg := Load()

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
}

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		level string
		env   string
		want  logger.LogLevel
	}{
		{"", "development", logger.Info},
		{"", "production", logger.Silent},
		{"error", "development", logger.Error},
		{" WARN ", "production", logger.Warn},
		{"info", "production", logger.Info},
		{"silent", "development", logger.Silent},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.env, func(t *testing.T) {
			got, err := gormLogLevel(tt.level, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := gormLogLevel("verbose", "development")
	assert.ErrorContains(t, err, "invalid DB_LOG_LEVEL")
}
