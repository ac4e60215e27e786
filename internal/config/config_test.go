package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sareehouse/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "sql", cfg.CollectionStore)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 4, cfg.SimilarLimit)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
	assert.Equal(t, 10, cfg.AuthRateBurst)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("COLLECTION_STORE", "redis")
	t.Setenv("SIMILAR_LIMIT", "6")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.CollectionStore)
	assert.Equal(t, 6, cfg.SimilarLimit)
}

func TestFromViper_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{"unknown driver", map[string]any{"DATABASE_DRIVER": "mysql"}, "DATABASE_DRIVER"},
		{"unknown store", map[string]any{"COLLECTION_STORE": "mongo"}, "COLLECTION_STORE"},
		{"sql store without sql db", map[string]any{"DATABASE_DRIVER": "memory"}, "needs a SQL"},
		{"empty secret", map[string]any{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"negative limit", map[string]any{"SIMILAR_LIMIT": -1}, "SIMILAR_LIMIT"},
		{"rate without burst", map[string]any{"AUTH_RATE_BURST": 0}, "AUTH_RATE_BURST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromViper(newViper(tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SIMILAR_LIMIT=7\nLOG_LEVEL=debug\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	// godotenv never overrides variables that are already set.
	t.Setenv("LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("SIMILAR_LIMIT") })

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.SimilarLimit)
	assert.Equal(t, "warn", cfg.LogLevel)
}
