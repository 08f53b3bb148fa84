package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var ErrInvalidAPIURL = errors.New("invalid api url")

// DefaultConfigDirectory is where the config file and the local session
// storage live unless overridden.
var DefaultConfigDirectory = filepath.Join("~", ".config", "surveyctl")

func DefaultConfig() *Config {

	v := viper.New()

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("error unmarshaling default config: %v", err)
	}
	config.Storage.Path = expandHome(config.Storage.Path)

	return &config
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if err := setupViperConfig(v, configFile); err != nil {
		return nil, err
	}

	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) error {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	if home := homeConfigDirectory(); len(home) > 0 {
		v.AddConfigPath(home)
	}

	setDefaults(v)

	v.SetEnvPrefix("SURVEYCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	return nil
}

// homeConfigDirectory resolves ~/.config/surveyctl, or returns an empty
// string when there is no usable home directory.
func homeConfigDirectory() string {
	if len(os.Getenv("HOME")) == 0 {
		return ""
	}

	usr, err := user.Current()
	if err != nil {
		logrus.WithError(err).Warnln("Failed to get current user")
		return ""
	}

	return filepath.Join(usr.HomeDir, ".config", "surveyctl")
}

// bindEnvironmentVariables binds all environment variables to viper
func bindEnvironmentVariables(v *viper.Viper) {

	v.BindEnv("api.url", "SURVEYCTL_API_URL")
	v.BindEnv("api.url", "SURVEY_API_URL")
	v.BindEnv("api.timeout", "SURVEYCTL_API_TIMEOUT")

	v.BindEnv("storage.driver", "SURVEYCTL_STORAGE_DRIVER")
	v.BindEnv("storage.path", "SURVEYCTL_STORAGE_PATH")
	v.BindEnv("storage.encryption.enabled", "SURVEYCTL_STORAGE_ENCRYPTION_ENABLED")
	v.BindEnv("storage.encryption.passphrase", "SURVEYCTL_STORAGE_ENCRYPTION_PASSPHRASE")
	v.BindEnv("storage.encryption.salt", "SURVEYCTL_STORAGE_ENCRYPTION_SALT")

	v.BindEnv("logging.level", "SURVEYCTL_LOGGING_LEVEL")
	v.BindEnv("logging.format", "SURVEYCTL_LOGGING_FORMAT")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Storage.Path = expandHome(config.Storage.Path)

	return &config, nil
}

// expandHome replaces a leading ~ with the current user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		logrus.WithError(err).Warnln("Failed to expand home directory")
		return path
	}

	return filepath.Join(usr.HomeDir, strings.TrimPrefix(path, "~"))
}

// setupLogging configures the logging system based on the config
func setupLogging(config *Config, v *viper.Viper) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)
	config.logger = newRecentLogHook(200)
	logrus.AddHook(config.logger)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	if logrusLevel >= logrus.DebugLevel {
		for key, value := range v.AllSettings() {
			if strings.Contains(key, "passphrase") {
				continue
			}
			logrus.Debugf("Config '%s': %v\n", key, value)
		}
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {

	v.SetDefault("api.url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", DefaultConfigDirectory)
	v.SetDefault("storage.encryption.enabled", false)
	v.SetDefault("storage.encryption.salt", "surveyctl")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
}
