package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imagegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv blanks every variable Load reads so the host environment does
// not leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IMAGEGEN_ADDR", "LOG_LEVEL", "KWKHTMLTOPDF_BIN", "IMAGEGEN_BLOB_DIR",
		"IMAGEGEN_PUBLIC_BASE_URL", "IMAGEGEN_REQUIRED_ENV", "IMAGEGEN_MAX_BODY_BYTES",
		"IMAGEGEN_SHUTDOWN_TIMEOUT", "IMAGEGEN_REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
addr: ":9000"
log_level: debug
shutdown_timeout: 5s
required_env: [AZURE_STORAGE_KEY, IMAGE_API_KEY]
pdf:
  bin: /usr/local/bin/wkhtmltopdf
blob:
  dir: /var/lib/imagegen
  public_base_url: https://cdn.example.com/images
  breaker_min_requests: 10
`)
	t.Setenv("IMAGEGEN_ADDR", ":7000")
	t.Setenv("IMAGEGEN_REQUEST_TIMEOUT", "45s")

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Addr = ":7000"
	want.LogLevel = "debug"
	want.ShutdownTimeout = 5 * time.Second
	want.RequestTimeout = 45 * time.Second
	want.RequiredEnv = []string{"AZURE_STORAGE_KEY", "IMAGE_API_KEY"}
	want.PDF.Bin = "/usr/local/bin/wkhtmltopdf"
	want.Blob.Dir = "/var/lib/imagegen"
	want.Blob.PublicBaseURL = "https://cdn.example.com/images"
	want.Blob.BreakerMin = 10

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_BinAndListEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("KWKHTMLTOPDF_BIN", "/opt/wk/bin/wkhtmltopdf")
	t.Setenv("IMAGEGEN_REQUIRED_ENV", " A , ,B ")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/wk/bin/wkhtmltopdf", cfg.PDF.Bin)
	assert.Equal(t, []string{"A", "B"}, cfg.RequiredEnv)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "addr: [unterminated"))
		assert.ErrorContains(t, err, "failed to parse YAML")
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("IMAGEGEN_SHUTDOWN_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid duration for IMAGEGEN_SHUTDOWN_TIMEOUT")
	})

	t.Run("bad env int", func(t *testing.T) {
		t.Setenv("IMAGEGEN_MAX_BODY_BYTES", "lots")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid integer for IMAGEGEN_MAX_BODY_BYTES")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "blob:\n  public_base_url: /relative\n  breaker_failure_threshold: 2\n"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "blob.public_base_url must be an absolute URL")
		assert.ErrorContains(t, err, "blob.breaker_failure_threshold")
	})
}
