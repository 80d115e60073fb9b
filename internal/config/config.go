package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Completion CompletionConfig `mapstructure:"completion"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// CompletionConfig represents the hosted completion service settings
type CompletionConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"` // Empty means the SDK default endpoint
	SearchModel string `mapstructure:"search_model"`
	ChatModel   string `mapstructure:"chat_model"`
	WebSearch   bool   `mapstructure:"web_search"` // Enable the web_search tool for searches
	Timeout     int    `mapstructure:"timeout"`    // Seconds per outbound call
}

// RequestTimeout returns the outbound call timeout
func (c CompletionConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ErrMissingAPIKey is returned by Validate when no credential is configured
var ErrMissingAPIKey = errors.New("completion api key is not set (SHOPASSIST_COMPLETION_API_KEY, OPENAI_API_KEY or key)")

// Load reads configuration from .env files, an optional YAML file and the environment.
// The result is validated before it is returned.
func Load(cfgFile string) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("SHOPASSIST")
	v.AutomaticEnv()

	// The credential has historically lived in a variable named "key"
	if err := v.BindEnv("completion.api_key", "SHOPASSIST_COMPLETION_API_KEY", "OPENAI_API_KEY", "key"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Completion.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Completion.SearchModel == "" || c.Completion.ChatModel == "" {
		return errors.New("completion models must not be empty")
	}
	if c.Completion.Timeout <= 0 {
		return fmt.Errorf("completion timeout must be positive, got %d", c.Completion.Timeout)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 180)

	// Completion defaults
	v.SetDefault("completion.base_url", "")
	v.SetDefault("completion.search_model", "gpt-5-mini")
	v.SetDefault("completion.chat_model", "gpt-4o")
	v.SetDefault("completion.web_search", true)
	v.SetDefault("completion.timeout", 120)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
