package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dgnsrekt/murmure-go/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	// HTTP settings
	HTTPPort    int
	BearerToken string

	// TTS settings
	PiperPath    string
	PiperModel   string
	DefaultVoice string

	// Behavior settings
	MaxTextLength   int
	QueueCapacity   int
	DefaultTTL      time.Duration
	ResultRetention time.Duration

	// Analysis settings
	LLMProvider     string
	LLMAPIKey       string
	LLMEndpoint     string
	LLMModel        string
	LLMMaxTokens    int
	LLMTemperature  float64
	LLMTimeout      time.Duration
	TablesFile      string
	MaxSegmentWords int

	// Logging settings
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sane defaults.
// When CONFIG_FILE names a YAML file its keys (lowercase, e.g. http_port)
// are read first; environment variables still win.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPPort:    v.GetInt("http_port"),
		BearerToken: v.GetString("bearer_token"),

		PiperPath:    v.GetString("piper_path"),
		PiperModel:   v.GetString("piper_model"),
		DefaultVoice: v.GetString("default_voice"),

		MaxTextLength:   v.GetInt("max_text_length"),
		QueueCapacity:   v.GetInt("queue_capacity"),
		DefaultTTL:      v.GetDuration("default_ttl"),
		ResultRetention: v.GetDuration("result_retention"),

		LLMProvider:     strings.ToLower(v.GetString("llm_provider")),
		LLMAPIKey:       v.GetString("llm_api_key"),
		LLMEndpoint:     v.GetString("llm_endpoint"),
		LLMModel:        v.GetString("llm_model"),
		LLMMaxTokens:    v.GetInt("llm_max_tokens"),
		LLMTemperature:  v.GetFloat64("llm_temperature"),
		LLMTimeout:      v.GetDuration("llm_timeout"),
		TablesFile:      v.GetString("tables_file"),
		MaxSegmentWords: v.GetInt("max_segment_words"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", 8080)
	v.SetDefault("bearer_token", "")

	v.SetDefault("piper_path", "piper")
	v.SetDefault("piper_model", "")
	v.SetDefault("default_voice", "default")

	v.SetDefault("max_text_length", 20000)
	v.SetDefault("queue_capacity", 100)
	v.SetDefault("default_ttl", 10*time.Minute)
	v.SetDefault("result_retention", 30*time.Minute)

	v.SetDefault("llm_provider", llm.ProviderNone)
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_endpoint", "")
	v.SetDefault("llm_model", "")
	v.SetDefault("llm_max_tokens", 4096)
	v.SetDefault("llm_temperature", 0.3)
	v.SetDefault("llm_timeout", 90*time.Second)
	v.SetDefault("tables_file", "")
	v.SetDefault("max_segment_words", 60)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// AuthDisabled returns true if bearer token authentication is disabled.
func (c *Config) AuthDisabled() bool {
	return c.BearerToken == ""
}

// RemoteEnabled reports whether a completion provider is configured.
func (c *Config) RemoteEnabled() bool {
	return c.LLMProvider != "" && c.LLMProvider != llm.ProviderNone
}

// LLM returns the completion client settings.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider:    c.LLMProvider,
		APIKey:      c.LLMAPIKey,
		Endpoint:    c.LLMEndpoint,
		Model:       c.LLMModel,
		MaxTokens:   c.LLMMaxTokens,
		Temperature: c.LLMTemperature,
		Timeout:     c.LLMTimeout,
	}
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return errors.New("HTTP_PORT must be between 1 and 65535")
	}

	if c.MaxTextLength < 1 {
		return errors.New("MAX_TEXT_LENGTH must be at least 1")
	}

	if c.QueueCapacity < 1 {
		return errors.New("QUEUE_CAPACITY must be at least 1")
	}

	if c.DefaultTTL < 0 {
		return errors.New("DEFAULT_TTL must be non-negative")
	}

	if c.ResultRetention < 0 {
		return errors.New("RESULT_RETENTION must be non-negative")
	}

	if c.MaxSegmentWords < 0 {
		return errors.New("MAX_SEGMENT_WORDS must be non-negative")
	}

	validProviders := map[string]bool{
		"": true, llm.ProviderNone: true, llm.ProviderAnthropic: true, llm.ProviderOpenAI: true,
	}
	if !validProviders[c.LLMProvider] {
		return errors.New("LLM_PROVIDER must be one of: none, anthropic, openai")
	}

	if c.LLMProvider == llm.ProviderAnthropic && c.LLMAPIKey == "" {
		return errors.New("LLM_API_KEY is required for the anthropic provider")
	}

	if c.LLMTimeout < 0 {
		return errors.New("LLM_TIMEOUT must be non-negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		return errors.New("LOG_FORMAT must be one of: text, json")
	}

	return nil
}
