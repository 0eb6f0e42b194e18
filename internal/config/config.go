package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Session   SessionConfig
	Directory DirectoryConfig
	Recorder  RecorderConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llm, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	directory, err := loadDirectoryConfig()
	if err != nil {
		return nil, err
	}

	recorder, err := loadRecorderConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		LLM:       llm,
		Session:   session,
		Directory: directory,
		Recorder:  recorder,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LLMConfig describes the completion-service endpoint and sampling
// parameters.
type LLMConfig struct {
	APIKey         string
	AccessKey      string
	SecretKey      string
	Model          string
	BaseURL        string
	Region         string
	Temperature    *float64
	MaxTokens      *int
	Timeout        time.Duration
	StreamResponse bool
}

// Enabled reports whether the required credentials are present.
func (c LLMConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel constructs the ark chat model from this configuration.
func (c LLMConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("completion credentials missing: provide LLM_API_KEY + LLM_MODEL, or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadLLMConfig() (LLMConfig, error) {
	temperature, err := parseOptionalFloatEnv("LLM_TEMPERATURE")
	if err != nil {
		return LLMConfig{}, err
	}
	if temperature == nil {
		defaultTemp := 0.7
		temperature = &defaultTemp
	}

	maxTokens, err := parseOptionalIntEnv("LLM_MAX_TOKENS")
	if err != nil {
		return LLMConfig{}, err
	}
	if maxTokens == nil {
		defaultMax := 150
		maxTokens = &defaultMax
	}

	timeout, err := parseDurationEnv("LLM_TIMEOUT", 10*time.Second)
	if err != nil {
		return LLMConfig{}, err
	}

	stream, err := parseBoolEnv("LLM_STREAM", true)
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		APIKey:         strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		AccessKey:      strings.TrimSpace(os.Getenv("LLM_ACCESS_KEY")),
		SecretKey:      strings.TrimSpace(os.Getenv("LLM_SECRET_KEY")),
		Model:          strings.TrimSpace(os.Getenv("LLM_MODEL")),
		BaseURL:        getEnvOrDefault("LLM_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:         getEnvOrDefault("LLM_REGION", "cn-beijing"),
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		Timeout:        timeout,
		StreamResponse: stream,
	}, nil
}

// SessionConfig bounds the lifetime of idle conversations.
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	idle, err := parseDurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return SessionConfig{}, err
	}
	if idle <= 0 {
		return SessionConfig{}, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}

	interval, err := parseDurationEnv("SESSION_SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return SessionConfig{}, err
	}
	if interval <= 0 {
		return SessionConfig{}, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}

	return SessionConfig{IdleTimeout: idle, SweepInterval: interval}, nil
}

// DirectoryConfig points at the persistence service's operator lookup.
// When URL is empty the seeded in-memory directory is used.
type DirectoryConfig struct {
	URL     string
	Timeout time.Duration
}

func loadDirectoryConfig() (DirectoryConfig, error) {
	timeout, err := parseDurationEnv("DIRECTORY_TIMEOUT", 5*time.Second)
	if err != nil {
		return DirectoryConfig{}, err
	}
	return DirectoryConfig{
		URL:     strings.TrimSpace(os.Getenv("DIRECTORY_URL")),
		Timeout: timeout,
	}, nil
}

// RecorderConfig points at the persistence service's call-record intake.
// When URL is empty finalized records are only logged.
type RecorderConfig struct {
	URL     string
	Timeout time.Duration
}

func loadRecorderConfig() (RecorderConfig, error) {
	timeout, err := parseDurationEnv("RECORDER_TIMEOUT", 5*time.Second)
	if err != nil {
		return RecorderConfig{}, err
	}
	return RecorderConfig{
		URL:     strings.TrimSpace(os.Getenv("RECORDER_URL")),
		Timeout: timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseDurationEnv accepts Go duration strings ("30m") and falls back to
// interpreting a bare integer as seconds.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if val, err := time.ParseDuration(raw); err == nil {
		return val, nil
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
