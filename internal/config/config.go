package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	Gemini   Gemini   `mapstructure:"gemini"`
	Search   Search   `mapstructure:"search"`
	Store    Store    `mapstructure:"store"`
	Pipeline Pipeline `mapstructure:"pipeline"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// Gemini holds Google Gemini configuration
type Gemini struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	JudgeModel     string `mapstructure:"judge_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	Dimensions     int    `mapstructure:"dimensions"`
	Timeout        string `mapstructure:"timeout"`
}

// Search holds search provider configuration
type Search struct {
	DefaultProvider string   `mapstructure:"default_provider"`
	MaxResults      int      `mapstructure:"max_results"`
	Timeout         string   `mapstructure:"timeout"`
	IncludeDomains  []string `mapstructure:"include_domains"`
	ExcludeDomains  []string `mapstructure:"exclude_domains"`
}

// Store holds the configuration of the tiered vector store
type Store struct {
	Qdrant   Qdrant   `mapstructure:"qdrant"`
	Postgres Postgres `mapstructure:"postgres"`
	Local    Local    `mapstructure:"local"`
}

// Qdrant holds primary-tier connection settings
type Qdrant struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
	Timeout    string `mapstructure:"timeout"`
}

// Postgres holds secondary-tier (pgvector) connection settings
type Postgres struct {
	DSN string `mapstructure:"dsn"`
}

// Local holds the SQLite floor settings
type Local struct {
	Path string `mapstructure:"path"`
}

// Pipeline holds processing configuration
type Pipeline struct {
	Validate         bool `mapstructure:"validate"`
	TopCategoryCount int  `mapstructure:"top_category_count"`
}

var globalConfig *Config

// Load loads the configuration from the config file, environment variables
// and defaults, in that order of precedence.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".cryptobrief")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".cryptobrief")

	viper.SetDefault("gemini.model", "gemini-flash-lite-latest")
	viper.SetDefault("gemini.judge_model", "gemini-flash-lite-latest")
	viper.SetDefault("gemini.embedding_model", "gemini-embedding-001")
	viper.SetDefault("gemini.dimensions", 768)
	viper.SetDefault("gemini.timeout", "30s")

	viper.SetDefault("search.default_provider", "duckduckgo")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout", "15s")

	viper.SetDefault("store.qdrant.collection", "crypto_news")
	viper.SetDefault("store.qdrant.timeout", "15s")
	viper.SetDefault("store.local.path", ".cryptobrief/vectors.db")

	viper.SetDefault("pipeline.validate", false)
	viper.SetDefault("pipeline.top_category_count", 5)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("store.qdrant.url", []string{
		"QDRANT_URL",
	})
	bindEnvKeys("store.qdrant.api_key", []string{
		"QDRANT_API_KEY",
	})
	bindEnvKeys("store.postgres.dsn", []string{
		"POSTGRES_DSN",
		"DATABASE_URL",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"CRYPTOBRIEF_DEBUG",
	})
	bindEnvKeys("search.default_provider", []string{
		"SEARCH_PROVIDER",
		"DEFAULT_SEARCH_PROVIDER",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}
	if config.Store.Local.Path != "" {
		config.Store.Local.Path = expandPath(config.Store.Local.Path)
	}

	durations := map[string]string{
		"gemini.timeout":       config.Gemini.Timeout,
		"search.timeout":       config.Search.Timeout,
		"store.qdrant.timeout": config.Store.Qdrant.Timeout,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}
	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// validateConfig ensures required configuration is present
func validateConfig(config *Config) error {
	var errors []string

	switch config.Search.DefaultProvider {
	case "", "duckduckgo", "mock":
	default:
		errors = append(errors, fmt.Sprintf("Unknown search provider: %s. Supported: duckduckgo, mock", config.Search.DefaultProvider))
	}

	if config.Gemini.Dimensions <= 0 {
		errors = append(errors, "gemini.dimensions must be positive")
	}
	if config.Store.Local.Path == "" {
		errors = append(errors, "store.local.path is required: the local tier is the durability floor")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Convenience getters for commonly used configuration values
func GetApp() App           { return Get().App }
func GetGemini() Gemini     { return Get().Gemini }
func GetSearch() Search     { return Get().Search }
func GetStore() Store       { return Get().Store }
func GetPipeline() Pipeline { return Get().Pipeline }

func GetGeminiAPIKey() string   { return Get().Gemini.APIKey }
func GetSearchProvider() string { return Get().Search.DefaultProvider }
func IsDebugMode() bool         { return Get().App.Debug }

// TimeoutDuration parses the configured timeout, falling back to 15s.
func (q Qdrant) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(q.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
