package config_test

import (
	"testing"
	"time"

	"tickmate/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Cache.StaleTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.RefreshInterval)
	assert.Equal(t, uint(1), cfg.Cache.MaxRetries)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TICKMATE_BASE_URL", "https://tasks.example.com")
	t.Setenv("TICKMATE_PAGE_SIZE", "10")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.com", cfg.BaseURL)
	assert.Equal(t, 10, cfg.PageSize)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("page size below one", func(t *testing.T) {
		t.Setenv("TICKMATE_PAGE_SIZE", "0")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("relative base url", func(t *testing.T) {
		t.Setenv("TICKMATE_BASE_URL", "/api")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
