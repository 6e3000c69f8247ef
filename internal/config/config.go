package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Storage StorageConfig
	Gemini  GeminiConfig
	Auth    AuthConfig
	Sync    SyncConfig
	Upload  UploadConfig
	Display DisplayConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings. URL takes precedence over
// the discrete fields when set (hosted Postgres hands out a single URL).
type DBConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// Configured reports whether enough connection settings are present to open
// the database.
func (d *DBConfig) Configured() bool {
	return d.URL != "" || (d.Host != "" && d.User != "" && d.Name != "")
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StorageConfig holds object storage settings.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	CreateBucket  bool   `mapstructure:"create_bucket"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// GeminiConfig holds settings for the schema generation endpoint.
type GeminiConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// AuthConfig holds hosted-auth token verification settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Audience  string `mapstructure:"audience"`
}

// SyncConfig holds result synchronizer settings.
type SyncConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PageSize     int           `mapstructure:"page_size"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
}

// UploadConfig holds document upload settings.
type UploadConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// DisplayConfig controls how normalized results are rendered.
type DisplayConfig struct {
	Locale   string `mapstructure:"locale"`
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the configured timezone, falling back to UTC.
func (d *DisplayConfig) Location() *time.Location {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional .env file and from environment
// variables with the INGESTDESK_ prefix.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config.Load: ignoring unreadable .env: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("INGESTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	// DB defaults (empty: backend features degrade until configured)
	v.SetDefault("db.url", "")
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "require")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Storage defaults
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "processos")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.create_bucket", false)
	v.SetDefault("storage.max_file_size_mb", 50)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.endpoint", "")
	v.SetDefault("gemini.timeout_secs", 60)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.audience", "authenticated")

	// Sync defaults
	v.SetDefault("sync.poll_interval", "20s")
	v.SetDefault("sync.page_size", 100)
	v.SetDefault("sync.retry_delay", "1s")

	v.SetDefault("upload.concurrency", 4)

	v.SetDefault("display.locale", "pt-BR")
	v.SetDefault("display.timezone", "America/Sao_Paulo")

	// CORS defaults (local frontend dev servers)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")

	v.SetDefault("log.level", "debug")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "INGESTDESK_SERVER_PORT",
		"server.read_timeout":      "INGESTDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "INGESTDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "INGESTDESK_SERVER_ENVIRONMENT",
		"db.url":                   "INGESTDESK_DB_URL",
		"db.host":                  "INGESTDESK_DB_HOST",
		"db.port":                  "INGESTDESK_DB_PORT",
		"db.user":                  "INGESTDESK_DB_USER",
		"db.password":              "INGESTDESK_DB_PASSWORD",
		"db.name":                  "INGESTDESK_DB_NAME",
		"db.sslmode":               "INGESTDESK_DB_SSLMODE",
		"db.max_open":              "INGESTDESK_DB_MAX_OPEN",
		"db.max_idle":              "INGESTDESK_DB_MAX_IDLE",
		"storage.provider":         "INGESTDESK_STORAGE_PROVIDER",
		"storage.region":           "INGESTDESK_STORAGE_REGION",
		"storage.bucket":           "INGESTDESK_STORAGE_BUCKET",
		"storage.endpoint":         "INGESTDESK_STORAGE_ENDPOINT",
		"storage.access_key":       "INGESTDESK_STORAGE_ACCESS_KEY",
		"storage.secret_key":       "INGESTDESK_STORAGE_SECRET_KEY",
		"storage.use_ssl":          "INGESTDESK_STORAGE_USE_SSL",
		"storage.create_bucket":    "INGESTDESK_STORAGE_CREATE_BUCKET",
		"storage.max_file_size_mb": "INGESTDESK_STORAGE_MAX_FILE_SIZE_MB",
		"gemini.api_key":           "INGESTDESK_GEMINI_API_KEY",
		"gemini.model":             "INGESTDESK_GEMINI_MODEL",
		"gemini.endpoint":          "INGESTDESK_GEMINI_ENDPOINT",
		"gemini.timeout_secs":      "INGESTDESK_GEMINI_TIMEOUT_SECS",
		"auth.jwt_secret":          "INGESTDESK_AUTH_JWT_SECRET",
		"auth.audience":            "INGESTDESK_AUTH_AUDIENCE",
		"sync.poll_interval":       "INGESTDESK_SYNC_POLL_INTERVAL",
		"sync.page_size":           "INGESTDESK_SYNC_PAGE_SIZE",
		"sync.retry_delay":         "INGESTDESK_SYNC_RETRY_DELAY",
		"upload.concurrency":       "INGESTDESK_UPLOAD_CONCURRENCY",
		"display.locale":           "INGESTDESK_DISPLAY_LOCALE",
		"display.timezone":         "INGESTDESK_DISPLAY_TIMEZONE",
		"cors.allowed_origins":     "INGESTDESK_CORS_ALLOWED_ORIGINS",
		"log.level":                "INGESTDESK_LOG_LEVEL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platforms like Railway/Render set PORT. Use it unless the prefixed var is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INGESTDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		URL:      v.GetString("db.url"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Storage = StorageConfig{
		Provider:      strings.ToLower(v.GetString("storage.provider")),
		Region:        v.GetString("storage.region"),
		Bucket:        v.GetString("storage.bucket"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		UseSSL:        v.GetBool("storage.use_ssl"),
		CreateBucket:  v.GetBool("storage.create_bucket"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
	}
	cfg.Gemini = GeminiConfig{
		APIKey:      v.GetString("gemini.api_key"),
		Model:       v.GetString("gemini.model"),
		Endpoint:    v.GetString("gemini.endpoint"),
		TimeoutSecs: v.GetInt("gemini.timeout_secs"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Audience:  v.GetString("auth.audience"),
	}
	cfg.Sync = SyncConfig{
		PollInterval: v.GetDuration("sync.poll_interval"),
		PageSize:     v.GetInt("sync.page_size"),
		RetryDelay:   v.GetDuration("sync.retry_delay"),
	}
	if cfg.Sync.PollInterval <= 0 {
		cfg.Sync.PollInterval = 20 * time.Second
	}
	if cfg.Sync.PageSize <= 0 {
		cfg.Sync.PageSize = 100
	}
	cfg.Upload = UploadConfig{
		Concurrency: v.GetInt("upload.concurrency"),
	}
	if cfg.Upload.Concurrency <= 0 {
		cfg.Upload.Concurrency = 4
	}
	cfg.Display = DisplayConfig{
		Locale:   v.GetString("display.locale"),
		Timezone: v.GetString("display.timezone"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
