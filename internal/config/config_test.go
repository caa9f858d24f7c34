package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SALES_PROXY_ACCOUNT_ID", "999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 999, cfg.Sales.ProxyAccountID)
	assert.Equal(t, "sales", cfg.Sales.RoleName)
	assert.Equal(t, 24*time.Hour, cfg.Cache.CartSnapshotTTL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.CatalogSnapshotTTL)
	assert.Equal(t, 12*time.Second, cfg.Geocoding.GeolocationTimeout)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SALES_PROXY_ACCOUNT_ID", "7")
	t.Setenv("CART_SNAPSHOT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Cache.CartSnapshotTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	t.Run("missing proxy account", func(t *testing.T) {
		t.Setenv("SALES_PROXY_ACCOUNT_ID", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SALES_PROXY_ACCOUNT_ID")
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("SALES_PROXY_ACCOUNT_ID", "1")
		t.Setenv("JWT_SECRET", "short")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})
}
