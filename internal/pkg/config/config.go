// Package config loads service settings from an optional YAML file and
// environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PathEnv names the YAML file to load, if any.
const PathEnv = "IMAGEGEN_CONFIG"

type Config struct {
	Addr            string        `yaml:"addr"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`

	// RequiredEnv lists the keys image generation needs before it can run.
	RequiredEnv []string `yaml:"required_env"`

	PDF  PDFConfig  `yaml:"pdf"`
	Blob BlobConfig `yaml:"blob"`
}

type PDFConfig struct {
	Bin string `yaml:"bin"`
}

type BlobConfig struct {
	Dir           string        `yaml:"dir"`
	PublicBaseURL string        `yaml:"public_base_url"`
	BreakerTrip   float64       `yaml:"breaker_failure_threshold"`
	BreakerMin    uint32        `yaml:"breaker_min_requests"`
	BreakerOpen   time.Duration `yaml:"breaker_open_timeout"`
}

func Default() Config {
	return Config{
		Addr:            ":5000",
		LogLevel:        "info",
		ShutdownTimeout: 15 * time.Second,
		RequestTimeout:  2 * time.Minute,
		MaxBodyBytes:    30 * 1024 * 1024,
		RequiredEnv:     []string{"AZURE_STORAGE_KEY"},
		PDF: PDFConfig{
			Bin: "wkhtmltopdf",
		},
		Blob: BlobConfig{
			Dir:           "static/generated_images",
			PublicBaseURL: "http://localhost:5000/static/generated_images",
			BreakerTrip:   0.6,
			BreakerMin:    5,
			BreakerOpen:   60 * time.Second,
		},
	}
}

// Load starts from Default, applies the YAML file at path (skipped when
// path is empty), then the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Addr = GetEnvString("IMAGEGEN_ADDR", c.Addr)
	c.LogLevel = GetEnvString("LOG_LEVEL", c.LogLevel)
	c.PDF.Bin = GetEnvString("KWKHTMLTOPDF_BIN", c.PDF.Bin)
	c.Blob.Dir = GetEnvString("IMAGEGEN_BLOB_DIR", c.Blob.Dir)
	c.Blob.PublicBaseURL = GetEnvString("IMAGEGEN_PUBLIC_BASE_URL", c.Blob.PublicBaseURL)
	c.RequiredEnv = GetEnvList("IMAGEGEN_REQUIRED_ENV", c.RequiredEnv)

	var errs []error
	var err error
	if c.MaxBodyBytes, err = GetEnvInt64("IMAGEGEN_MAX_BODY_BYTES", c.MaxBodyBytes); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout, err = GetEnvDuration("IMAGEGEN_SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		errs = append(errs, err)
	}
	if c.RequestTimeout, err = GetEnvDuration("IMAGEGEN_REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}
	if c.PDF.Bin == "" {
		errs = append(errs, errors.New("pdf.bin must not be empty"))
	}
	if c.Blob.Dir == "" {
		errs = append(errs, errors.New("blob.dir must not be empty"))
	}
	if u, err := url.Parse(c.Blob.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("blob.public_base_url must be an absolute URL, got %q", c.Blob.PublicBaseURL))
	}
	if c.Blob.BreakerTrip <= 0 || c.Blob.BreakerTrip > 1 {
		errs = append(errs, errors.New("blob.breaker_failure_threshold must be in (0, 1]"))
	}
	if c.Blob.BreakerOpen <= 0 {
		errs = append(errs, errors.New("blob.breaker_open_timeout must be positive"))
	}
	for _, key := range c.RequiredEnv {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, errors.New("required_env must not contain empty keys"))
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
