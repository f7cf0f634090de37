package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleConfig = `{
  "app": {"AppPort": "9000", "JWTSecret": "file-secret", "AllowedOrigins": ["https://a.example"]},
  "redis": {"RedisHost": "cache", "RedisPort": 6380},
  "discussions": {
    "RoutePrefix": "forum",
    "Editor": "richeditor",
    "LoadMoreDiscussions": 20,
    "LimitTimeBetweenPosts": false,
    "TimeBetweenPostsMinutes": 2,
    "Categories": {
      "general": {"title": "General", "icon": "chat"},
      "ideas": {"title": "Ideas", "icon": "bulb"}
    }
  }
}`

func TestLoadFrom_File(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "cache", cfg.RedisHost)
	assert.Equal(t, 6380, cfg.RedisPort)
	assert.Equal(t, "forum", cfg.RoutePrefix)
	assert.Equal(t, "discussion", cfg.RoutePrefixPost)
	assert.Equal(t, "richeditor", cfg.Editor)
	assert.Equal(t, 20, cfg.LoadMoreDiscussions)
	assert.Equal(t, 5, cfg.LoadMorePosts)
	assert.False(t, cfg.LimitTimeBetweenPosts)
	assert.Equal(t, 2, cfg.TimeBetweenPostsMinutes)
	assert.Equal(t, Category{Title: "Ideas", Icon: "bulb"}, cfg.Categories["ideas"])
	assert.Len(t, cfg.Categories, 2)
}

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "", cfg.RedisHost)
	assert.Equal(t, "discussions", cfg.RoutePrefix)
	assert.Equal(t, "markdown", cfg.Editor)
	assert.Equal(t, 10, cfg.LoadMoreDiscussions)
	assert.True(t, cfg.LimitTimeBetweenPosts)
	assert.Equal(t, 5, cfg.TimeBetweenPostsMinutes)
	assert.NotNil(t, cfg.Categories)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DISCUSSIONS_LIMIT_TIME_BETWEEN_POSTS", "true")
	t.Setenv("DISCUSSIONS_TIME_BETWEEN_POSTS_MIN", "15")
	t.Setenv("ALLOWED_ORIGINS", "https://x.example, https://y.example")

	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.True(t, cfg.LimitTimeBetweenPosts)
	assert.Equal(t, 15, cfg.TimeBetweenPostsMinutes)
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, cfg.AllowedOrigins)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := LoadFrom(writeConfig(t, `{"app": {"AppPort": "1"}}`))
		require.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, `{"app":`))
		require.Error(t, err)
	})

	t.Run("bad integer env", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("REDIS_PORT", "six")
		_, err := LoadFrom(writeConfig(t, `{}`))
		require.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	cfg := AppConfig{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "forum"}
	assert.Equal(t, "u:p@tcp(db:3306)/forum?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())

	cfg.DatabaseURI = "custom"
	assert.Equal(t, "custom", cfg.DSN())
}

func TestLoadFrom_ExampleFile(t *testing.T) {
	cfg, err := LoadFrom("config.json.example")
	require.NoError(t, err)

	assert.Equal(t, "discussions", cfg.RoutePrefix)
	assert.True(t, cfg.LimitTimeBetweenPosts)
	assert.Len(t, cfg.Categories, 2)
	assert.Equal(t, "logs/gin.log", cfg.GinPath)
}
