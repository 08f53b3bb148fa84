package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/survey-platform/surveyctl/internal/storage"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8080/api", cfg.GetAPIURL())
	assert.Equal(t, 30*time.Second, cfg.API.GetTimeout())
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.False(t, cfg.Storage.Encryption.Enabled)
	assert.Equal(t, "localhost:8080", cfg.GetAPIHostname())
}

func TestLoad_FromFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
api:
  url: https://surveys.example.com/api/
  timeout: PT5S
storage:
  driver: sqlite
  path: /tmp/surveyctl-test
logging:
  level: info
  format: json
`), 0600))

	t.Setenv("SURVEYCTL_STORAGE_DRIVER", "memory")

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "https://surveys.example.com/api", cfg.GetAPIURL())
	assert.Equal(t, 5*time.Second, cfg.API.GetTimeout())
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/surveyctl-test", cfg.Storage.Path)

	opts := cfg.StorageOptions()
	assert.Equal(t, storage.DriverMemory, opts.Driver)
	assert.Equal(t, "surveys.example.com", opts.Namespace)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging:\n  level: chatty\n"), 0600))

	_, err := Load(configFile)
	assert.Error(t, err)
}

func TestSetAPIURL(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetAPIURL("https://api.example.com:8443/api"))
	assert.Equal(t, "api.example.com:8443", cfg.GetAPIHostname())

	err := cfg.SetAPIURL("not a url")
	assert.ErrorIs(t, err, ErrInvalidAPIURL)
	assert.Equal(t, "https://api.example.com:8443/api", cfg.GetAPIURL())
}

func TestAPIConfig_GetTimeout(t *testing.T) {
	tests := []struct {
		timeout  string
		expected time.Duration
	}{
		{"", 30 * time.Second},
		{"10s", 10 * time.Second},
		{"PT1M", time.Minute},
		{"soon", 30 * time.Second},
		{"-5s", 30 * time.Second},
	}

	for _, tt := range tests {
		api := APIConfig{Timeout: tt.timeout}
		assert.Equal(t, tt.expected, api.GetTimeout(), "timeout %q", tt.timeout)
	}
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/var/lib/surveyctl", expandHome("/var/lib/surveyctl"))
	assert.NotContains(t, expandHome("~/.config/surveyctl"), "~")
}
