package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIURL is returned by Validate when no API base address is configured
var ErrMissingAPIURL = errors.New("api.url is not configured (set GALLERY_API_URL or api.url in the config file)")

// Config represents the gallery client configuration
type Config struct {
	API struct {
		URL string `mapstructure:"url"` // REST API base address
	} `mapstructure:"api"`

	Cache struct {
		StaleTime              time.Duration `mapstructure:"stale_time"`                // 0 keeps entries fresh until invalidated
		ImageInvalidateOnWrite bool          `mapstructure:"image_invalidate_on_write"` // refetch image list after update/delete
		DBPath                 string        `mapstructure:"db_path"`                   // empty disables snapshot persistence
	} `mapstructure:"cache"`

	Notifications struct {
		Console bool       `mapstructure:"console"`
		NATS    NATSConfig `mapstructure:"nats"`
	} `mapstructure:"notifications"`

	Log struct {
		Level string `mapstructure:"level"`
		Dir   string `mapstructure:"dir"` // empty logs to stderr only
	} `mapstructure:"log"`

	Debug bool `mapstructure:"debug"`

	v *viper.Viper
}

// NATSConfig holds the optional NATS notification publisher settings
type NATSConfig struct {
	URL      string `mapstructure:"url"` // empty disables the NATS sink
	Subject  string `mapstructure:"subject"`
	Stream   string `mapstructure:"stream"` // JetStream stream retaining notifications; empty publishes only
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
}

// secretKeys are masked when settings are listed
var secretKeys = map[string]bool{
	"notifications.nats.password": true,
	"notifications.nats.token":    true,
}

// LoadConfig loads the configuration from an optional .env file, an optional
// config file and GALLERY_ prefixed environment variables, in that order of
// increasing precedence.
func LoadConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	setDefaultConfig(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultConfigPath)
		v.SetConfigName(DefaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	config.API.URL = strings.TrimSpace(config.API.URL)
	config.v = v

	return &config, nil
}

// Validate checks the settings every gallery operation depends on
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return ErrMissingAPIURL
	}
	if c.Cache.StaleTime < 0 {
		return fmt.Errorf("cache.stale_time must not be negative, got %s", c.Cache.StaleTime)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// FileUsed returns the config file that was read, if any
func (c *Config) FileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// Get returns the effective value of a dotted key
func (c *Config) Get(key string) (interface{}, bool) {
	if c.v == nil || !c.v.IsSet(key) {
		return nil, false
	}
	return c.v.Get(key), true
}

// Settings returns every known key with its effective value, secrets masked
func (c *Config) Settings() []Setting {
	if c.v == nil {
		return nil
	}
	keys := c.v.AllKeys()
	sort.Strings(keys)

	out := make([]Setting, 0, len(keys))
	for _, k := range keys {
		val := c.v.Get(k)
		if secretKeys[k] && fmt.Sprint(val) != "" {
			val = "********"
		}
		out = append(out, Setting{Key: k, Value: val})
	}
	return out
}

// Setting is a single key/value pair of the effective configuration
type Setting struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// SaveConfig sets key to value and writes the configuration to the file it
// was read from, or to the global config file when none was read.
func SaveConfig(config *Config, key, value string) (string, error) {
	if config.v == nil {
		return "", errors.New("config was not loaded")
	}

	config.v.Set(key, value)

	path := config.v.ConfigFileUsed()
	if path == "" {
		path = DefaultGlobalConfigFile
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := config.v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// setDefaultConfig sets default configuration values
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("api.url", "")

	v.SetDefault("cache.stale_time", "0s")
	v.SetDefault("cache.image_invalidate_on_write", false)
	v.SetDefault("cache.db_path", "")

	v.SetDefault("notifications.console", true)
	v.SetDefault("notifications.nats.url", "")
	v.SetDefault("notifications.nats.subject", "gallery.notifications")
	v.SetDefault("notifications.nats.stream", "")
	v.SetDefault("notifications.nats.username", "")
	v.SetDefault("notifications.nats.password", "")
	v.SetDefault("notifications.nats.token", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")

	v.SetDefault("debug", false)
}
