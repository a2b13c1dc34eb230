package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brigada.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BRIGADA_CONFIG", "")

	cfg, err := Load(New(), newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	file := writeConfig(t, "api_url: http://file.example/api/v1\ntimeout: 5s\nlog_level: warn\n")

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(New(), newFlags(t, "--config", file))
		require.NoError(t, err)
		assert.Equal(t, "http://file.example/api/v1", cfg.APIURL)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, file, cfg.File)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("BRIGADA_API_URL", "https://env.example/api/v1")
		cfg, err := Load(New(), newFlags(t, "--config", file))
		require.NoError(t, err)
		assert.Equal(t, "https://env.example/api/v1", cfg.APIURL)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("BRIGADA_API_URL", "https://env.example/api/v1")
		cfg, err := Load(New(), newFlags(t, "--config", file, "--api-url", "https://flag.example/api/v1"))
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example/api/v1", cfg.APIURL)
	})

	t.Run("config file from env", func(t *testing.T) {
		t.Setenv("BRIGADA_CONFIG", file)
		cfg, err := Load(New(), nil)
		require.NoError(t, err)
		assert.Equal(t, file, cfg.File)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BRIGADA_CONFIG", "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing explicit file", args: []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}},
		{name: "bad scheme", args: []string{"--api-url", "ftp://example.org"}},
		{name: "empty url", args: []string{"--api-url", " "}},
		{name: "zero timeout", args: []string{"--timeout", "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(), newFlags(t, tt.args...))
			assert.Error(t, err)
		})
	}
}
