package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vicar/format"
	"github.com/arloliu/vicar/label"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vicar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())

	ct, err := cfg.CompressionType()
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, ct)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
host: sun-solr
intfmt: HIGH
realfmt: IEEE
compression: lz4
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sun-solr", cfg.Host)
	require.Equal(t, "json", cfg.Log.Format)

	opt, err := cfg.HostOption()
	require.NoError(t, err)
	sys, err := label.NewSystemLabel(format.TypeFull, format.OrgBSQ, 2, 2, 1, opt)
	require.NoError(t, err)
	require.Equal(t, "SUN-SOLR", sys.Host)
	require.Equal(t, format.IntHigh, sys.IntFormat)
	require.Equal(t, format.RealIEEE, sys.RealFormat)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "compression: gzip\n"))
	require.NoError(t, err)
	require.Equal(t, "gzip", cfg.Compression)
	require.Equal(t, Default().Host, cfg.Host)
	require.Equal(t, Default().Log, cfg.Log)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "bad yaml", text: "host: [unterminated"},
		{name: "bad intfmt", text: "intfmt: MIDDLE"},
		{name: "bad realfmt", text: "realfmt: IBM"},
		{name: "bad compression", text: "compression: brotli"},
		{name: "bad level", text: "log:\n  level: loud"},
		{name: "bad format", text: "log:\n  format: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.text))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "info"

	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.WithField("file", "a.vic").Info("opened")
	require.Contains(t, buf.String(), `"message":"opened"`)
	require.Contains(t, buf.String(), `"file":"a.vic"`)

	t.Setenv(EnvLogLevel, "debug")
	logger, err = cfg.NewLogger(&buf)
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())

	t.Setenv(EnvLogLevel, "loud")
	_, err = cfg.NewLogger(&buf)
	require.Error(t, err)
}
