package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "academicverify.yaml"

// MaxStepDelay bounds the pipeline pacing delay.
const MaxStepDelay = 5 * time.Second

// Config holds all AcademicVerify configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64  `yaml:"max_upload_bytes"`
	TLSCertFile     string `yaml:"tls_cert_file"` // serve HTTPS when both TLS files are set
	TLSKeyFile      string `yaml:"tls_key_file"`
}

// PipelineConfig configures the verification pacing.
type PipelineConfig struct {
	StepDelay string `yaml:"step_delay"` // pause after each step, 0-5s
}

// SessionConfig configures the navigation cookie.
type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	KeyFile    string `yaml:"key_file"`
	KeyHex     string `yaml:"key_hex"` // overrides key_file when set
	MaxAge     int    `yaml:"max_age"` // seconds
	Secure     bool   `yaml:"secure"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string   `yaml:"level"`
	Outputs     []string `yaml:"outputs"`
	Development bool     `yaml:"development"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			ShutdownTimeout: "10s",
			MaxUploadBytes:  10 << 20,
		},
		Pipeline: PipelineConfig{
			StepDelay: "300ms",
		},
		Session: SessionConfig{
			CookieName: "academicverify",
			KeyFile:    "master.key",
			MaxAge:     8 * 60 * 60,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"stderr"},
		},
	}
}

// Load reads path on top of the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ACADEMICVERIFY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ACADEMICVERIFY_STEP_DELAY"); v != "" {
		c.Pipeline.StepDelay = v
	}
	if v := os.Getenv("ACADEMICVERIFY_SESSION_KEY"); v != "" {
		c.Session.KeyHex = v
	}
	if v := os.Getenv("ACADEMICVERIFY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks every field that can be checked without touching disk.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	for name, v := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"pipeline.step_delay":     c.Pipeline.StepDelay,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if d := c.StepDelay(); d > MaxStepDelay {
		return fmt.Errorf("pipeline.step_delay %s exceeds %s", d, MaxStepDelay)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return fmt.Errorf("server.tls_cert_file and server.tls_key_file must be set together")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	return nil
}

// TLSEnabled reports whether the server should listen with TLS.
func (c *Config) TLSEnabled() bool {
	return c.Server.TLSCertFile != "" && c.Server.TLSKeyFile != ""
}

// StepDelay returns the pipeline pacing delay.
func (c *Config) StepDelay() time.Duration {
	return parseDuration(c.Pipeline.StepDelay, 300*time.Millisecond)
}

// ReadTimeout returns the HTTP read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// ShutdownTimeout returns the graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
