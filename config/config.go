// Package config loads the garagedocs service configuration from YAML
// with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/media"
)

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Render  RenderConfig  `yaml:"render"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Ledger  LedgerConfig  `yaml:"ledger"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	JWTSecret       string        `yaml:"jwt_secret"` // empty disables authentication
}

// RenderConfig configures document rendering.
type RenderConfig struct {
	FontDir      string        `yaml:"font_dir"`
	Letterhead   string        `yaml:"letterhead"` // PDF whose first page is drawn behind every page
	Watermark    string        `yaml:"watermark"`
	PageNumbers  bool          `yaml:"page_numbers"`
	Compression  bool          `yaml:"compression"`
	ImageTimeout time.Duration `yaml:"image_timeout"`
	ImageDir     string        `yaml:"image_dir"` // local logos and stamps; empty allows http(s) sources only
}

// Fetcher returns the image fetcher for these settings.
func (r RenderConfig) Fetcher() *media.Fetcher {
	f := media.NewFetcher(r.ImageTimeout)
	f.BaseDir = r.ImageDir
	return f
}

// DocumentOptions converts the render settings to document options.
func (r RenderConfig) DocumentOptions() []garagedocs.Option {
	opts := []garagedocs.Option{garagedocs.WithCompression(r.Compression)}
	if r.FontDir != "" {
		opts = append(opts, garagedocs.WithFontDir(r.FontDir))
	}
	if r.Letterhead != "" {
		opts = append(opts, garagedocs.WithLetterhead(r.Letterhead))
	}
	if r.Watermark != "" {
		opts = append(opts, garagedocs.WithWatermark(r.Watermark))
	}
	if !r.PageNumbers {
		opts = append(opts, garagedocs.WithPageNumbers(""))
	}
	return opts
}

// StorageConfig configures the S3-compatible object store. Publishing is
// enabled when Bucket is set.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	BaseURL   string `yaml:"base_url"`
	Prefix    string `yaml:"prefix"`
}

// Enabled reports whether a bucket is configured.
func (s StorageConfig) Enabled() bool { return s.Bucket != "" }

// CacheConfig configures the publish cache. An empty Addr selects the
// in-memory cache.
type CacheConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LedgerConfig configures the publish ledger. An empty DatabaseURL
// disables it.
type LedgerConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Migrate     bool   `yaml:"migrate"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    4 << 20,
		},
		Render: RenderConfig{
			PageNumbers:  true,
			Compression:  true,
			ImageTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Endpoint: "s3.amazonaws.com",
			UseSSL:   true,
			Prefix:   "documents",
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty or
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables found by lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ACCESS_KEY":           &c.Storage.AccessKey,
		"SECRET_KEY":           &c.Storage.SecretKey,
		"AWS_REGION":           &c.Storage.Region,
		"BUCKET_NAME":          &c.Storage.Bucket,
		"S3_ENDPOINT":          &c.Storage.Endpoint,
		"S3_BASE_URL":          &c.Storage.BaseURL,
		"REDIS_ADDR":           &c.Cache.Addr,
		"REDIS_PASSWORD":       &c.Cache.Password,
		"DATABASE_URL":         &c.Ledger.DatabaseURL,
		"JWT_SECRET":           &c.Server.JWTSecret,
		"GARAGEDOCS_ADDR":      &c.Server.Addr,
		"GARAGEDOCS_FONT_DIR":  &c.Render.FontDir,
		"GARAGEDOCS_IMAGE_DIR": &c.Render.ImageDir,
	}
	for name, dst := range str {
		if v, ok := lookup(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup("S3_USE_SSL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: S3_USE_SSL: %w", err)
		}
		c.Storage.UseSSL = b
	}
	return nil
}

// Validate reports inconsistent settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if c.Render.ImageTimeout <= 0 {
		errs = append(errs, errors.New("render.image_timeout must be positive"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl is negative"))
	}
	if c.Storage.Enabled() {
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			errs = append(errs, errors.New("storage: bucket set without access and secret keys"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DefaultConfigPath returns garagedocs.yaml or config/garagedocs.yaml,
// whichever exists first.
func DefaultConfigPath() string {
	for _, p := range []string{"garagedocs.yaml", filepath.Join("config", "garagedocs.yaml")} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "garagedocs.yaml"
}
