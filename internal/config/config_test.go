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

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:8000", cfg.ServiceURL)
	assert.Equal(t, "", cfg.RequestTimeout)
	assert.Equal(t, "auto", cfg.Theme)
	assert.Equal(t, 3, cfg.HistorySize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service_url: http://predict.local:9000
request_timeout: 30s
theme: dark
history_size: 5
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://predict.local:9000", cfg.ServiceURL)
	assert.Equal(t, "30s", cfg.RequestTimeout)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, 5, cfg.HistorySize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service_url: [broken"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KCAL_SERVICE_URL", "http://10.0.0.5:8000")
	t.Setenv("KCAL_REQUEST_TIMEOUT", "45s")
	t.Setenv("KCAL_THEME", "light")
	t.Setenv("KCAL_HISTORY_SIZE", "7")
	t.Setenv("KCAL_LOG_LEVEL", "warn")
	t.Setenv("KCAL_LOG_FILE", "/tmp/kcal-test.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000", cfg.ServiceURL)
	assert.Equal(t, "45s", cfg.RequestTimeout)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 7, cfg.HistorySize)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/kcal-test.log", cfg.LogFile)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0644))
	t.Setenv("KCAL_THEME", "light")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
}

func TestEnvOverrideIgnoresJunkHistorySize(t *testing.T) {
	t.Setenv("KCAL_HISTORY_SIZE", "lots")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.HistorySize)
}

func TestGetRequestTimeout(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 0},
		{"30s", 30 * time.Second},
		{"2m", 2 * time.Minute},
		{"bogus", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.RequestTimeout = tt.raw
			assert.Equal(t, tt.want, cfg.GetRequestTimeout())
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("bad theme", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Theme = "solarized"
		require.Error(t, cfg.Validate())
	})

	t.Run("bad history size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.HistorySize = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("bad timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RequestTimeout = "soon"
		require.Error(t, cfg.Validate())
	})

	t.Run("bad service url", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ServiceURL = "not a url"
		require.Error(t, cfg.Validate())
	})
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceURL = "http://predict.local:9000"
	cfg.Theme = "dark"

	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
