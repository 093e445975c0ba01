// Package config resolves FarmQuest settings from defaults, an optional
// farmquest.toml file and FARMQUEST_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds every setting the CLI and server read at startup.
type Config struct {
	DBPath           string `toml:"db_path" env:"FARMQUEST_DB"`
	User             string `toml:"user" env:"FARMQUEST_USER"`
	LogUseCases      bool   `toml:"log_use_cases" env:"FARMQUEST_LOG_USE_CASES"`
	MissionCacheSize int    `toml:"mission_cache_size" env:"FARMQUEST_MISSION_CACHE_SIZE"`

	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	Photos PhotoConfig  `toml:"photos"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"FARMQUEST_LOG_LEVEL"`
	Format string `toml:"format" env:"FARMQUEST_LOG_FORMAT"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr" env:"FARMQUEST_ADDR"`
	AllowedOrigins  []string `toml:"allowed_origins" env:"FARMQUEST_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit       float64  `toml:"rate_limit" env:"FARMQUEST_RATE_LIMIT"`
	RateBurst       int      `toml:"rate_burst" env:"FARMQUEST_RATE_BURST"`
	TrustProxy      bool     `toml:"trust_proxy" env:"FARMQUEST_TRUST_PROXY"`
	ShutdownSeconds int      `toml:"shutdown_seconds" env:"FARMQUEST_SHUTDOWN_SECONDS"`
}

// PhotoConfig selects where proof photos go. A bucket switches uploads to
// S3; otherwise photos are copied under Dir.
type PhotoConfig struct {
	Dir         string `toml:"dir" env:"FARMQUEST_PHOTO_DIR"`
	S3Bucket    string `toml:"s3_bucket" env:"FARMQUEST_S3_BUCKET"`
	S3Region    string `toml:"s3_region" env:"FARMQUEST_S3_REGION"`
	S3Endpoint  string `toml:"s3_endpoint" env:"FARMQUEST_S3_ENDPOINT"`
	S3AccessKey string `toml:"s3_access_key" env:"FARMQUEST_S3_ACCESS_KEY"`
	S3SecretKey string `toml:"s3_secret_key" env:"FARMQUEST_S3_SECRET_KEY"`
	PublicURL   string `toml:"public_url" env:"FARMQUEST_PHOTO_PUBLIC_URL"`
}

// Default returns the configuration used when nothing is overridden. Paths
// live under dir, normally ~/.farmquest.
func Default(dir string) Config {
	return Config{
		DBPath:           filepath.Join(dir, "farmquest.db"),
		MissionCacheSize: 256,
		Log:              LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			RateLimit:       5,
			RateBurst:       30,
			ShutdownSeconds: 10,
		},
		Photos: PhotoConfig{Dir: filepath.Join(dir, "photos")},
	}
}

// HomeDir returns ~/.farmquest.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".farmquest"), nil
}

// Load reads .env from the working directory if present, then the config
// file named by FARMQUEST_CONFIG or ~/.farmquest/farmquest.toml, then the
// process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	dir, err := HomeDir()
	if err != nil {
		return Config{}, err
	}
	path := os.Getenv("FARMQUEST_CONFIG")
	if path == "" {
		path = filepath.Join(dir, "farmquest.toml")
	}
	return LoadFrom(dir, path, nil)
}

// LoadFrom layers the TOML file at path (skipped when missing) and the given
// environment over Default(dir). A nil environ reads the process environment.
func LoadFrom(dir, path string, environ map[string]string) (Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.MissionCacheSize <= 0 {
		errs = append(errs, errors.New("mission_cache_size must be positive"))
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		errs = append(errs, errors.New("server rate_limit and rate_burst must be positive"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}

// Logger builds the process logger described by the config.
func (l LogConfig) Logger(w *os.File) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// UsesS3 reports whether proof photos should be uploaded to a bucket.
func (p PhotoConfig) UsesS3() bool { return p.S3Bucket != "" }
