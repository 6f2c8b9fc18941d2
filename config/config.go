package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML file.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/swipechef/config.yaml",
}

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	Storage   StorageConfig   `koanf:"storage"`
	Feed      FeedConfig      `koanf:"feed"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Cache     CacheConfig     `koanf:"cache"`
	Logging   LoggingConfig   `koanf:"logging"`

	Environment Environment `koanf:"-"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins" validate:"min=1"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type DatabaseConfig struct {
	Driver        string `koanf:"driver" validate:"oneof=postgres sqlite"`
	Host          string `koanf:"host" validate:"required_if=Driver postgres"`
	Port          int    `koanf:"port" validate:"required_if=Driver postgres"`
	User          string `koanf:"user" validate:"required_if=Driver postgres"`
	Password      string `koanf:"password"`
	Name          string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode       string `koanf:"ssl_mode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	SQLitePath    string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	MigrationsDir string `koanf:"migrations_dir"`
	MaxOpenConns  int    `koanf:"max_open_conns" validate:"min=1"`
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0,max=15"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret" validate:"required,min=16"`
	Issuer    string        `koanf:"issuer"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

type StorageConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Bucket        string        `koanf:"bucket" validate:"required_if=Enabled true"`
	Region        string        `koanf:"region"`
	Endpoint      string        `koanf:"endpoint" validate:"omitempty,url"`
	PublicBaseURL string        `koanf:"public_base_url" validate:"omitempty,url"`
	UsePathStyle  bool          `koanf:"use_path_style"`
	PresignExpiry time.Duration `koanf:"presign_expiry" validate:"gt=0"`
}

// FeedConfig holds the feed selection tunables.
type FeedConfig struct {
	ReportThreshold int `koanf:"report_threshold" validate:"min=1"`
	OverFetchFactor int `koanf:"overfetch_factor" validate:"min=1,max=20"`
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"gtefield=DefaultPageSize"`
}

type RateLimitConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Requests       int           `koanf:"requests" validate:"min=1"`
	Window         time.Duration `koanf:"window" validate:"gt=0"`
	ReportRequests int           `koanf:"report_requests" validate:"min=1"`
	ReportWindow   time.Duration `koanf:"report_window" validate:"gt=0"`
	RecipeRequests int           `koanf:"recipe_requests" validate:"min=1"`
	RecipeWindow   time.Duration `koanf:"recipe_window" validate:"gt=0"`
}

type CacheConfig struct {
	CatalogTTL time.Duration `koanf:"catalog_ttl" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:        "postgres",
			Host:          "localhost",
			Port:          5432,
			User:          "postgres",
			Name:          "swipechef",
			SSLMode:       "disable",
			SQLitePath:    "swipechef.db",
			MigrationsDir: "migrations",
			MaxOpenConns:  25,
		},
		Redis: RedisConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    6379,
		},
		Auth: AuthConfig{
			Issuer:   "swipechef",
			TokenTTL: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Region:        "us-east-1",
			PresignExpiry: 15 * time.Minute,
		},
		Feed: FeedConfig{
			ReportThreshold: 2,
			OverFetchFactor: 3,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			Requests:       120,
			Window:         time.Minute,
			ReportRequests: 10,
			ReportWindow:   time.Hour,
			RecipeRequests: 20,
			RecipeWindow:   time.Hour,
		},
		Cache: CacheConfig{
			CatalogTTL: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig layers struct defaults, an optional YAML file, environment
// variables and finally Docker secrets, then validates the result.
func LoadConfig() (*Config, error) {
	envName := GetEnvironment()
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// CI has no secrets directory; everything arrives through the environment
	if envName != CI {
		if err := loadSecrets(k, secretsDir()); err != nil {
			return nil, err
		}
	}

	if err := splitCommaList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Environment = envName

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":            "server.cors_origins",

	"db_driver":         "database.driver",
	"db_host":           "database.host",
	"db_port":           "database.port",
	"db_user":           "database.user",
	"db_password":       "database.password",
	"db_name":           "database.name",
	"db_ssl_mode":       "database.ssl_mode",
	"sqlite_path":       "database.sqlite_path",
	"migrations_dir":    "database.migrations_dir",
	"db_max_open_conns": "database.max_open_conns",

	"redis_enabled":  "redis.enabled",
	"redis_url":      "redis.url",
	"redis_host":     "redis.host",
	"redis_port":     "redis.port",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",

	"jwt_secret":    "auth.jwt_secret",
	"jwt_issuer":    "auth.issuer",
	"jwt_token_ttl": "auth.token_ttl",

	"s3_enabled":         "storage.enabled",
	"s3_bucket_name":     "storage.bucket",
	"aws_region":         "storage.region",
	"s3_endpoint":        "storage.endpoint",
	"s3_public_base_url": "storage.public_base_url",
	"s3_use_path_style":  "storage.use_path_style",
	"s3_presign_expiry":  "storage.presign_expiry",

	"feed_report_threshold":  "feed.report_threshold",
	"feed_overfetch_factor":  "feed.overfetch_factor",
	"feed_default_page_size": "feed.default_page_size",
	"feed_max_page_size":     "feed.max_page_size",

	"rate_limit_enabled":         "rate_limit.enabled",
	"rate_limit_requests":        "rate_limit.requests",
	"rate_limit_window":          "rate_limit.window",
	"rate_limit_report_requests": "rate_limit.report_requests",
	"rate_limit_report_window":   "rate_limit.report_window",
	"rate_limit_recipe_requests": "rate_limit.recipe_requests",
	"rate_limit_recipe_window":   "rate_limit.recipe_window",

	"catalog_cache_ttl": "cache.catalog_ttl",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known environment variables onto config paths and
// drops everything else.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// secretFiles maps Docker secret file names onto config paths.
var secretFiles = map[string]string{
	"db_user":        "database.user",
	"db_password":    "database.password",
	"jwt_secret":     "auth.jwt_secret",
	"redis_password": "redis.password",
	"redis_url":      "redis.url",
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// loadSecrets overlays any secret files present in dir. Missing files are
// skipped; validation catches anything still empty.
func loadSecrets(k *koanf.Koanf, dir string) error {
	for name, path := range secretFiles {
		value, ok := readSecret(dir, name)
		if !ok {
			continue
		}
		if err := k.Set(path, value); err != nil {
			return fmt.Errorf("failed to apply secret %s: %w", name, err)
		}
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(dir, name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(string(data))
	return value, value != ""
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitCommaList turns "a, b" from the environment into a string slice.
func splitCommaList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
