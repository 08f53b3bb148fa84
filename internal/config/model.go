package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/storage"
)

const defaultRequestTimeout = 30 * time.Second

// Config represents the application configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`

	logger *recentLogHook
}

type APIConfig struct {
	URL     string `mapstructure:"url" default:"http://localhost:8080/api"`
	Timeout string `mapstructure:"timeout" default:"30s"` // Go or ISO 8601 duration
}

// GetTimeout returns the per request timeout, falling back to the default
// when the configured value cannot be parsed.
func (a *APIConfig) GetTimeout() time.Duration {
	if len(a.Timeout) == 0 {
		return defaultRequestTimeout
	}
	timeout, err := common.ParseDuration(a.Timeout)
	if err != nil || timeout <= 0 {
		logrus.WithFields(logrus.Fields{
			"timeout": a.Timeout,
		}).Warnln("Invalid api timeout, using default")
		return defaultRequestTimeout
	}
	return timeout
}

type StorageConfig struct {
	Driver     string           `mapstructure:"driver" default:"file"`
	Path       string           `mapstructure:"path"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

type EncryptionConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Passphrase string `mapstructure:"passphrase"`
	Salt       string `mapstructure:"salt"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" default:"warn"`
	Format string `mapstructure:"format" default:"text"`
}

func (c *Config) GetAPIURL() string {
	return strings.TrimSuffix(c.API.URL, "/")
}

// SetAPIURL overrides the configured backend address, e.g. from --api-url.
func (c *Config) SetAPIURL(apiURL string) error {
	if !common.IsValidBaseURL(apiURL) {
		return fmt.Errorf("%w: %s", ErrInvalidAPIURL, apiURL)
	}
	c.API.URL = apiURL
	return nil
}

// GetAPIHostname returns host[:port] of the backend. Local storage is kept
// per backend so switching --api-url never leaks tokens between servers.
func (c *Config) GetAPIHostname() string {
	u, err := url.Parse(c.GetAPIURL())
	if err != nil || len(u.Host) == 0 {
		return "default"
	}
	return u.Host
}

// StorageOptions translates the storage section into the options the
// storage package understands.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:    storage.Driver(strings.ToLower(c.Storage.Driver)),
		Directory: c.Storage.Path,
		Namespace: c.GetAPIHostname(),
		Encryption: storage.EncryptionOptions{
			Enabled:    c.Storage.Encryption.Enabled,
			Passphrase: c.Storage.Encryption.Passphrase,
			Salt:       c.Storage.Encryption.Salt,
		},
	}
}

// RecentEvents returns the last count warnings and errors logged during this
// run, oldest first.
func (c *Config) RecentEvents(count int) []*LogEntry {
	if c.logger == nil {
		return nil
	}
	return c.logger.GetRecentEvents(count)
}
