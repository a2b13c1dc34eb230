package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyAPIURL   = "api_url"
	KeyDataDir  = "data_dir"
	KeyTimeout  = "timeout"
	KeyLogLevel = "log_level"
	KeyLogJSON  = "log_json"
)

// EnvPrefix is prepended to every key to form its environment variable
const EnvPrefix = "BRIGADA"

// Defaults
const (
	DefaultAPIURL   = "http://localhost:8000/api/v1"
	DefaultTimeout  = 15 * time.Second
	DefaultLogLevel = "info"
)

// Config is the resolved client configuration
type Config struct {
	APIURL   string
	DataDir  string
	Timeout  time.Duration
	LogLevel string
	LogJSON  bool

	// File is the config file that was read, or ""
	File string
}

// flag names differ from keys only by using dashes
var flagKeys = map[string]string{
	"api-url":   KeyAPIURL,
	"data-dir":  KeyDataDir,
	"timeout":   KeyTimeout,
	"log-level": KeyLogLevel,
	"log-json":  KeyLogJSON,
}

// RegisterFlags adds the configuration flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (default: ./brigada.yaml, then the user config dir)")
	fs.String("api-url", DefaultAPIURL, "Base URL of the brigada API")
	fs.String("data-dir", "", "Directory holding the persisted session (default: user config dir)")
	fs.Duration("timeout", DefaultTimeout, "Timeout for a single API request")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.Bool("log-json", false, "Output logs in JSON format")
}

// New returns a viper instance with defaults and environment binding.
// Precedence: flags, BRIGADA_* environment, config file, defaults.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyDataDir, defaultDataDir())
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogJSON, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration. fs may be nil; otherwise flags that
// were set on it take precedence.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	file := os.Getenv(EnvPrefix + "_CONFIG")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			file = f.Value.String()
		}
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("brigada")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "brigada"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit file must exist; the default search is optional
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		APIURL:   strings.TrimSpace(v.GetString(KeyAPIURL)),
		DataDir:  v.GetString(KeyDataDir),
		Timeout:  v.GetDuration(KeyTimeout),
		LogLevel: v.GetString(KeyLogLevel),
		LogJSON:  v.GetBool(KeyLogJSON),
		File:     v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the client can't use
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("%s is required", KeyAPIURL)
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("%s must be an http or https URL, got %q", KeyAPIURL, c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%s is required", KeyDataDir)
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "brigada")
	}
	return ".brigada"
}
