// Package config loads the YAML configuration of the vicar command.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/arloliu/vicar/format"
	"github.com/arloliu/vicar/label"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "VICAR_LOG_LEVEL"

// Config is the on-disk configuration.
type Config struct {
	// Host is written to HOST and BHOST of new labels.
	Host string `yaml:"host"`
	// IntFormat is the INTFMT of converted images, HIGH or LOW.
	IntFormat string `yaml:"intfmt"`
	// RealFormat is the REALFMT of converted images, IEEE, RIEEE or VAX.
	RealFormat string `yaml:"realfmt"`
	// Compression wraps files written by the pack command.
	Compression string `yaml:"compression"`
	Log         Log    `yaml:"log"`
}

// Log configures the command logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Host:        "X86-LINUX",
		IntFormat:   "LOW",
		RealFormat:  "RIEEE",
		Compression: "zstd",
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every enumerated setting names a known value.
func (c *Config) Validate() error {
	if _, err := c.HostOption(); err != nil {
		return err
	}
	if _, err := c.CompressionType(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

// HostOption returns the system label option describing the configured host.
func (c *Config) HostOption() (label.SystemOption, error) {
	intFmt, err := format.ParseIntFormat(label.KeywordIntFormat, c.IntFormat)
	if err != nil {
		return nil, err
	}
	realFmt, err := format.ParseRealFormat(label.KeywordRealFormat, c.RealFormat)
	if err != nil {
		return nil, err
	}

	return label.WithHost(strings.ToUpper(c.Host), intFmt, realFmt), nil
}

// CompressionType returns the configured compression.
func (c *Config) CompressionType() (format.CompressionType, error) {
	return format.ParseCompressionType(c.Compression)
}

// NewLogger builds a logger writing to w. EnvLogLevel takes precedence over
// the configured level.
func (c *Config) NewLogger(w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	if strings.EqualFold(c.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	level := c.Log.Level
	if env := os.Getenv(EnvLogLevel); env != "" {
		level = env
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(lvl)

	return logger, nil
}
