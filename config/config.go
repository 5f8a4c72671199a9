package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Defaults   DefaultsConfig   `mapstructure:"defaults"`
	Session    SessionConfig    `mapstructure:"session"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DictionaryConfig locates the keyword dictionary
type DictionaryConfig struct {
	Path     string        `mapstructure:"path"`
	Format   string        `mapstructure:"format"` // "auto", "yaml" or "csv"
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// MatchingConfig tunes keyword matching
type MatchingConfig struct {
	Threshold         float64       `mapstructure:"threshold"`
	Policy            string        `mapstructure:"policy"` // "best" or "first"
	Tokenized         bool          `mapstructure:"tokenized"`
	MaxUtteranceRunes int           `mapstructure:"max_utterance_runes"`
	TurnTimeout       time.Duration `mapstructure:"turn_timeout"`
	Debug             bool          `mapstructure:"debug"`
}

// DefaultsConfig holds the values used for slots the customer never names
type DefaultsConfig struct {
	Temperature   string `mapstructure:"temperature"`
	Size          string `mapstructure:"size"`
	CaffeineLevel string `mapstructure:"caffeine_level"`
	Quantity      string `mapstructure:"quantity"`
	Amount        string `mapstructure:"amount"`
}

// SessionConfig holds conversation store configuration
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per second
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/orderlens/")
	}

	// ORDERLENS_MATCHING_THRESHOLD overrides matching.threshold
	v.SetEnvPrefix("ORDERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Dictionary defaults
	v.SetDefault("dictionary.path", "data/keywords.yaml")
	v.SetDefault("dictionary.format", "auto")
	v.SetDefault("dictionary.watch", true)
	v.SetDefault("dictionary.debounce", "500ms")

	// Matching defaults
	v.SetDefault("matching.threshold", 0.7)
	v.SetDefault("matching.policy", "best")
	v.SetDefault("matching.tokenized", false)
	v.SetDefault("matching.max_utterance_runes", 200)
	v.SetDefault("matching.turn_timeout", "2s")
	v.SetDefault("matching.debug", false)

	// Slot defaults
	v.SetDefault("defaults.temperature", "아이스")
	v.SetDefault("defaults.size", "벤티")
	v.SetDefault("defaults.caffeine_level", "15%")
	v.SetDefault("defaults.quantity", "1개")
	v.SetDefault("defaults.amount", "보통")

	// Session defaults
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.cleanup_interval", "1m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 10)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Dictionary.Path == "" {
		return fmt.Errorf("dictionary path is required (set ORDERLENS_DICTIONARY_PATH)")
	}

	switch config.Dictionary.Format {
	case "auto", "yaml", "csv":
	default:
		return fmt.Errorf("dictionary format must be 'auto', 'yaml' or 'csv', got: %s", config.Dictionary.Format)
	}

	if config.Matching.Threshold <= 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("matching threshold must be in (0, 1], got: %v", config.Matching.Threshold)
	}

	if config.Matching.Policy != "best" && config.Matching.Policy != "first" {
		return fmt.Errorf("matching policy must be 'best' or 'first', got: %s", config.Matching.Policy)
	}

	if config.Matching.MaxUtteranceRunes <= 0 {
		return fmt.Errorf("max utterance runes must be positive, got: %d", config.Matching.MaxUtteranceRunes)
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got: %v", config.Session.TTL)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit per_ip and burst must be positive")
	}

	return nil
}
