package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the storytelling service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin     bool
	CORSAllowedOrigins []string
	// AdminSecret guards the person-level endpoints. Empty disables them.
	AdminSecret string

	LogLevel  string
	LogFormat string

	DatabaseURL string
	LexiconFile string

	ChatSources               []string
	ChatSourceTimeout         time.Duration
	ChatHistoryWindow         int
	ChatFallbackHistoryWindow int
	ChatPersistTimeout        time.Duration
	ChatMaxMessageChars       int
	ChatDefaultLanguage       string
	ChatRedactOutbound        bool
	ChatShortReplyThreshold   int

	HFAPIToken          string
	HFConversationalURL string
	HFTextURL           string
	HTTPSourceURL       string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// BiographyGenerator is "openai" or "none".
	BiographyGenerator      string
	BiographyModel          string
	BiographyTimeout        time.Duration
	BiographyMaxPromptChars int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:            envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:    envOrDefault("APP_METRICS_NAMESPACE", "memoir"),
		AllowAnyOrigin:      false,
		CORSAllowedOrigins:  listFromEnv("APP_CORS_ALLOWED_ORIGINS"),
		AdminSecret:         stringsTrimSpace("APP_ADMIN_SECRET"),
		LogLevel:            strings.ToLower(envOrDefault("APP_LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(envOrDefault("APP_LOG_FORMAT", "text")),
		DatabaseURL:         stringsTrimSpace("DATABASE_URL"),
		LexiconFile:         stringsTrimSpace("LEXICON_FILE"),
		ChatSources:         listFromEnv("CHAT_SOURCES"),
		ChatDefaultLanguage: strings.ToLower(envOrDefault("CHAT_DEFAULT_LANGUAGE", "en")),
		ChatRedactOutbound:  true,
		HFAPIToken:          stringsTrimSpace("HF_API_TOKEN"),
		HFConversationalURL: stringsTrimSpace("HF_CONVERSATIONAL_URL"),
		HFTextURL:           stringsTrimSpace("HF_TEXT_URL"),
		HTTPSourceURL:       stringsTrimSpace("HTTP_SOURCE_URL"),
		OpenAIAPIKey:        stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIBaseURL:       stringsTrimSpace("OPENAI_BASE_URL"),
		OpenAIModel:         envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		BiographyModel:      stringsTrimSpace("BIOGRAPHY_MODEL"),

		ShutdownTimeout:           15 * time.Second,
		ChatSourceTimeout:         8 * time.Second,
		ChatHistoryWindow:         5,
		ChatFallbackHistoryWindow: 3,
		ChatPersistTimeout:        5 * time.Second,
		ChatMaxMessageChars:       4000,
		ChatShortReplyThreshold:   35,
		BiographyTimeout:          60 * time.Second,
		BiographyMaxPromptChars:   12000,
	}
	if len(cfg.ChatSources) == 0 {
		cfg.ChatSources = []string{"hf_conversational", "hf_text", "openai"}
	}

	// Without a key the generator would only ever fail; default it off.
	defaultGenerator := "none"
	if cfg.OpenAIAPIKey != "" {
		defaultGenerator = "openai"
	}
	cfg.BiographyGenerator = strings.ToLower(envOrDefault("BIOGRAPHY_GENERATOR", defaultGenerator))

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatSourceTimeout, err = durationFromEnv("CHAT_SOURCE_TIMEOUT", cfg.ChatSourceTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatHistoryWindow, err = intFromEnv("CHAT_HISTORY_WINDOW", cfg.ChatHistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatFallbackHistoryWindow, err = intFromEnv("CHAT_FALLBACK_HISTORY_WINDOW", cfg.ChatFallbackHistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatPersistTimeout, err = durationFromEnv("CHAT_PERSIST_TIMEOUT", cfg.ChatPersistTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatMaxMessageChars, err = intFromEnv("CHAT_MAX_MESSAGE_CHARS", cfg.ChatMaxMessageChars)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatRedactOutbound, err = boolFromEnv("CHAT_REDACT_OUTBOUND", cfg.ChatRedactOutbound)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatShortReplyThreshold, err = intFromEnv("CHAT_SHORT_REPLY_THRESHOLD", cfg.ChatShortReplyThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.BiographyTimeout, err = durationFromEnv("BIOGRAPHY_TIMEOUT", cfg.BiographyTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BiographyMaxPromptChars, err = intFromEnv("BIOGRAPHY_MAX_PROMPT_CHARS", cfg.BiographyMaxPromptChars)
	if err != nil {
		return Config{}, err
	}

	if cfg.ChatSourceTimeout <= 0 {
		return Config{}, fmt.Errorf("CHAT_SOURCE_TIMEOUT must be positive")
	}
	if cfg.ChatPersistTimeout <= 0 {
		return Config{}, fmt.Errorf("CHAT_PERSIST_TIMEOUT must be positive")
	}
	if cfg.ChatHistoryWindow < 0 {
		return Config{}, fmt.Errorf("CHAT_HISTORY_WINDOW must be >= 0")
	}
	if cfg.ChatFallbackHistoryWindow < 0 {
		return Config{}, fmt.Errorf("CHAT_FALLBACK_HISTORY_WINDOW must be >= 0")
	}
	if cfg.ChatMaxMessageChars <= 0 {
		return Config{}, fmt.Errorf("CHAT_MAX_MESSAGE_CHARS must be positive")
	}
	if cfg.ChatShortReplyThreshold <= 0 {
		return Config{}, fmt.Errorf("CHAT_SHORT_REPLY_THRESHOLD must be positive")
	}
	if cfg.BiographyTimeout <= 0 {
		return Config{}, fmt.Errorf("BIOGRAPHY_TIMEOUT must be positive")
	}
	if cfg.BiographyMaxPromptChars < 1000 {
		return Config{}, fmt.Errorf("BIOGRAPHY_MAX_PROMPT_CHARS must be at least 1000")
	}
	switch cfg.BiographyGenerator {
	case "openai", "none":
	default:
		return Config{}, fmt.Errorf("BIOGRAPHY_GENERATOR must be openai or none")
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return Config{}, fmt.Errorf("APP_LOG_FORMAT must be text, json or logfmt")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// listFromEnv splits a comma separated value, dropping empty items.
func listFromEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
