package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Category is a configured discussion category.
type Category struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config.json or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for list caching and event fan-out; empty host disables it
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	EventsChannel string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Discussions
	RoutePrefix             string
	RoutePrefixPost         string
	Editor                  string
	LoadMoreDiscussions     int
	LoadMorePosts           int
	LimitTimeBetweenPosts   bool
	TimeBetweenPostsMinutes int
	Categories              map[string]Category
	// limitSet records whether LimitTimeBetweenPosts was set explicitly
	limitSet bool
}

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in config or environment")

var cfg AppConfig
var loaded bool

// Load loads the application configuration once during boot and exits when it is unusable.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	c, err := LoadFrom(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatal(err)
	}
	cfg = c
	loaded = true
	return cfg
}

// LoadFrom applies config file -> defaults -> environment overrides.
// A missing file is not an error; invalid JSON is.
func LoadFrom(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&c)
	if err := applyEnvOverrides(&c); err != nil {
		return c, err
	}
	if c.JWTSecret == "" {
		return c, ErrMissingJWTSecret
	}
	return c, nil
}

func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if f, ok := m[key].(float64); ok {
			return int(f)
		}
		return 0
	}
	getBool := func(m map[string]any, key string) (bool, bool) {
		b, ok := m[key].(bool)
		return b, ok
	}
	getStringSlice := func(m map[string]any, key string) []string {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
		out.EventsChannel = getString(rds, "EventsChannel")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.GinMode = getString(lg, "GinMode")
		out.GinPath = getString(lg, "GinPath")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress, _ = getBool(lg, "Compress")
	}

	if ds, ok := raw["discussions"].(map[string]any); ok {
		out.RoutePrefix = getString(ds, "RoutePrefix")
		out.RoutePrefixPost = getString(ds, "RoutePrefixPost")
		out.Editor = getString(ds, "Editor")
		out.LoadMoreDiscussions = getInt(ds, "LoadMoreDiscussions")
		out.LoadMorePosts = getInt(ds, "LoadMorePosts")
		out.TimeBetweenPostsMinutes = getInt(ds, "TimeBetweenPostsMinutes")
		if b, ok := getBool(ds, "LimitTimeBetweenPosts"); ok {
			out.LimitTimeBetweenPosts = b
			out.limitSet = true
		}
		if cats, ok := ds["Categories"].(map[string]any); ok {
			out.Categories = make(map[string]Category, len(cats))
			for slug, v := range cats {
				m, ok := v.(map[string]any)
				if !ok {
					continue
				}
				out.Categories[slug] = Category{Title: getString(m, "title"), Icon: getString(m, "icon")}
			}
		}
	}
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.EventsChannel == "" {
		c.EventsChannel = "discussions:events"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.RoutePrefix == "" {
		c.RoutePrefix = "discussions"
	}
	if c.RoutePrefixPost == "" {
		c.RoutePrefixPost = "discussion"
	}
	if c.Editor == "" {
		c.Editor = "markdown"
	}
	if c.LoadMoreDiscussions <= 0 {
		c.LoadMoreDiscussions = 10
	}
	if c.LoadMorePosts <= 0 {
		c.LoadMorePosts = 5
	}
	if !c.limitSet {
		c.LimitTimeBetweenPosts = true
	}
	if c.TimeBetweenPostsMinutes <= 0 {
		c.TimeBetweenPostsMinutes = 5
	}
	if c.Categories == nil {
		c.Categories = map[string]Category{}
	}
}

func applyEnvOverrides(c *AppConfig) error {
	if v := os.Getenv("APP_PORT"); v != "" {
		c.AppPort = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("DATABASE_URI"); v != "" {
		c.DatabaseURI = v
	}
	for key, dst := range map[string]*string{
		"DB_HOST":            &c.DBHost,
		"DB_PORT":            &c.DBPort,
		"DB_USER":            &c.DBUser,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_NAME":            &c.DBName,
		"REDIS_HOST":         &c.RedisHost,
		"REDIS_PASSWORD":     &c.RedisPassword,
		"EVENTS_CHANNEL":     &c.EventsChannel,
		"LOG_LEVEL":          &c.LogLevel,
		"LOG_PATH":           &c.LogPath,
		"GIN_MODE":           &c.GinMode,
		"GIN_LOG_PATH":       &c.GinPath,
		"DISCUSSIONS_EDITOR": &c.Editor,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	for key, dst := range map[string]*int{
		"RATE_LIMIT_PER_MINUTE":              &c.RateLimitPerMinute,
		"REDIS_PORT":                         &c.RedisPort,
		"REDIS_DB":                           &c.RedisDB,
		"DISCUSSIONS_LOAD_MORE":              &c.LoadMoreDiscussions,
		"DISCUSSIONS_LOAD_MORE_POSTS":        &c.LoadMorePosts,
		"DISCUSSIONS_TIME_BETWEEN_POSTS_MIN": &c.TimeBetweenPostsMinutes,
	} {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("DISCUSSIONS_LIMIT_TIME_BETWEEN_POSTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DISCUSSIONS_LIMIT_TIME_BETWEEN_POSTS: %w", err)
		}
		c.LimitTimeBetweenPosts = b
	}
	return nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
