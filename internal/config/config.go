// Package config loads formstate settings from defaults, an optional config
// file and FORMSTATE_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (FORMSTATE_STORAGE_BACKEND).
const EnvPrefix = "FORMSTATE"

// Config holds application configuration.
type Config struct {
	Form    FormConfig    `mapstructure:"form"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
}

// FormConfig selects the form definition to run.
type FormConfig struct {
	// Definition is a path to a definition document. Empty uses the
	// embedded profile form.
	Definition string `mapstructure:"definition"`
	// ID overrides the definition id when set.
	ID string `mapstructure:"id"`
}

// StorageConfig describes the durable store behind the persistence bridge.
type StorageConfig struct {
	Backend  string        `mapstructure:"backend"`
	Path     string        `mapstructure:"path"`
	Key      string        `mapstructure:"key"`
	Codec    string        `mapstructure:"codec"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HTTPConfig holds the HTTP adapter settings.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	// Templates is a directory whose templates/page.tmpl and
	// templates/form.tmpl replace the bundled ones. Empty uses the bundle.
	Templates string `mapstructure:"templates"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "file",
			Path:    ".formstate",
			Codec:   "json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Load reads configuration from file and env. An explicit path wins over
// FORMSTATE_CONFIG, which wins over ./formstate.yaml. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("form.definition", defaults.Form.Definition)
	v.SetDefault("form.id", defaults.Form.ID)
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.key", defaults.Storage.Key)
	v.SetDefault("storage.codec", defaults.Storage.Codec)
	v.SetDefault("storage.debounce", defaults.Storage.Debounce)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("http.addr", defaults.HTTP.Addr)
	v.SetDefault("http.templates", defaults.HTTP.Templates)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("formstate")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "memory", "file", "bolt", "sqlite":
	default:
		return fmt.Errorf("%w: storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	switch strings.ToLower(c.Storage.Codec) {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("%w: storage.codec %q", ErrInvalidConfig, c.Storage.Codec)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Storage.Debounce < 0 {
		return fmt.Errorf("%w: storage.debounce must not be negative", ErrInvalidConfig)
	}
	if dir := strings.TrimSpace(c.HTTP.Templates); dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: http.templates %q is not a directory", ErrInvalidConfig, dir)
		}
	}
	return nil
}

// ErrInvalidConfig reports an unsupported setting value.
var ErrInvalidConfig = errors.New("config: invalid value")
