package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty secrets dir and a clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret-at-least-16")
	t.Chdir(dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2, cfg.Feed.ReportThreshold)
	assert.Equal(t, 3, cfg.Feed.OverFetchFactor)
	assert.Equal(t, 20, cfg.Feed.DefaultPageSize)
	assert.Equal(t, 100, cfg.Feed.MaxPageSize)
	assert.Equal(t, 10*time.Minute, cfg.Cache.CatalogTTL)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 120, cfg.RateLimit.Requests)
	assert.Equal(t, 10, cfg.RateLimit.ReportRequests)
	assert.Equal(t, 20, cfg.RateLimit.RecipeRequests)
	assert.Equal(t, time.Hour, cfg.RateLimit.RecipeWindow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/feed.db")
	t.Setenv("FEED_REPORT_THRESHOLD", "5")
	t.Setenv("FEED_OVERFETCH_FACTOR", "4")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RECIPE_REQUESTS", "3")
	t.Setenv("RATE_LIMIT_RECIPE_WINDOW", "10m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/feed.db", cfg.Database.SQLitePath)
	assert.Equal(t, 5, cfg.Feed.ReportThreshold)
	assert.Equal(t, 4, cfg.Feed.OverFetchFactor)
	assert.Equal(t, 30*time.Second, cfg.Cache.CatalogTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.RateLimit.RecipeRequests)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.RecipeWindow)
	assert.Equal(t, 120, cfg.RateLimit.Requests, "global limit is independent")
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
feed:
  default_page_size: 10
  max_page_size: 50
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("FEED_MAX_PAGE_SIZE", "60")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Feed.DefaultPageSize)
	assert.Equal(t, 60, cfg.Feed.MaxPageSize)
}

func TestLoadConfigSecrets(t *testing.T) {
	dir := isolate(t)
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret-file-123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("hunter2"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret-file-123", cfg.Auth.JWTSecret)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadConfigCIIgnoresSecretsDir(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CI", "true")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("file"), 0o600))
	t.Setenv("DB_PASSWORD", "env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)
	assert.Equal(t, "env", cfg.Database.Password)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		isolate(t)
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWTSecret")
	})

	t.Run("page size bounds", func(t *testing.T) {
		isolate(t)
		t.Setenv("FEED_DEFAULT_PAGE_SIZE", "50")
		t.Setenv("FEED_MAX_PAGE_SIZE", "10")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MaxPageSize")
	})

	t.Run("unknown driver", func(t *testing.T) {
		isolate(t)
		t.Setenv("DB_DRIVER", "mysql")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Driver")
	})

	t.Run("production rules", func(t *testing.T) {
		isolate(t)
		t.Setenv("ENV", "production")
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("JWT_SECRET", "development-secret-do-not-deploy")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "production requires postgres")
		assert.Contains(t, err.Error(), "placeholder secret")
		assert.Contains(t, err.Error(), "db_password")
	})

	t.Run("storage needs a bucket", func(t *testing.T) {
		isolate(t)
		t.Setenv("S3_ENABLED", "true")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Bucket")
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
	assert.Equal(t, "0.0.0.0:8080", ServerConfig{Host: "0.0.0.0", Port: 8080}.Addr())
}
