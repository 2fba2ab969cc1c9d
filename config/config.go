package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Parser   ParserConfig
	Reformat ReformatConfig
	Telegram TelegramConfig
	Store    StoreConfig
	Cache    CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// ParserConfig holds grocery line parser configuration
type ParserConfig struct {
	QuantityPolicy   string `mapstructure:"quantity_policy"` // "passthrough", "reject" or "zero"
	StrictCategories bool   `mapstructure:"strict_categories"`
	Debug            bool   `mapstructure:"debug"`
}

// ReformatConfig holds text-generation configuration
type ReformatConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Provider      string        `mapstructure:"provider"` // "openai" or "gemini"
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
}

// TelegramConfig holds Bot API configuration and reply texts
type TelegramConfig struct {
	BotToken         string `mapstructure:"bot_token"`
	BaseURL          string `mapstructure:"base_url"`
	SendReplies      bool   `mapstructure:"send_replies"`
	SendConfirmation bool   `mapstructure:"send_confirmation"`
	ConfirmationText string `mapstructure:"confirmation_text"`
	NoItemsText      string `mapstructure:"no_items_text"`
	FailureText      string `mapstructure:"failure_text"`
}

// StoreConfig holds grocery list persistence configuration
type StoreConfig struct {
	Type            string `mapstructure:"type"` // "memory", "mongo" or "sqlite"
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
	SQLitePath      string `mapstructure:"sqlite_path"`
}

// CacheConfig holds reformat cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grocerybot/")

	// Environment variable settings: GROCERYBOT_TELEGRAM_BOT_TOKEN -> telegram.bot_token
	v.SetEnvPrefix("GROCERYBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
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

// loadEnvFile loads ./.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default so
// AutomaticEnv can find it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")

	// Parser defaults
	v.SetDefault("parser.quantity_policy", "passthrough")
	v.SetDefault("parser.strict_categories", false)
	v.SetDefault("parser.debug", false)

	// Reformat defaults
	v.SetDefault("reformat.enabled", false)
	v.SetDefault("reformat.provider", "openai")
	v.SetDefault("reformat.api_key", "")
	v.SetDefault("reformat.model", "")
	v.SetDefault("reformat.base_url", "")
	v.SetDefault("reformat.timeout", "30s")
	v.SetDefault("reformat.rate_per_second", 3)

	// Telegram defaults
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.send_replies", true)
	v.SetDefault("telegram.send_confirmation", true)
	v.SetDefault("telegram.confirmation_text", "")
	v.SetDefault("telegram.no_items_text", "")
	v.SetDefault("telegram.failure_text", "")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "grocery")
	v.SetDefault("store.mongo_collection", "grocery-list")
	v.SetDefault("store.sqlite_path", "grocery.db")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Parser.QuantityPolicy {
	case "passthrough", "reject", "zero":
	default:
		return fmt.Errorf("parser quantity policy must be 'passthrough', 'reject' or 'zero', got: %s", config.Parser.QuantityPolicy)
	}

	if config.Reformat.Enabled {
		if config.Reformat.Provider != "openai" && config.Reformat.Provider != "gemini" {
			return fmt.Errorf("reformat provider must be 'openai' or 'gemini', got: %s", config.Reformat.Provider)
		}
		if config.Reformat.APIKey == "" {
			return fmt.Errorf("reformat API key is required when reformatting is enabled (set GROCERYBOT_REFORMAT_API_KEY)")
		}
	}

	if (config.Telegram.SendReplies || config.Telegram.SendConfirmation) && config.Telegram.BotToken == "" {
		return fmt.Errorf("Telegram bot token is required to send replies (set GROCERYBOT_TELEGRAM_BOT_TOKEN)")
	}

	switch config.Store.Type {
	case "memory":
	case "mongo":
		if config.Store.MongoURI == "" {
			return fmt.Errorf("Mongo URI is required when store type is 'mongo'")
		}
	case "sqlite":
		if config.Store.SQLitePath == "" {
			return fmt.Errorf("SQLite path is required when store type is 'sqlite'")
		}
	default:
		return fmt.Errorf("store type must be 'memory', 'mongo' or 'sqlite', got: %s", config.Store.Type)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	return nil
}
