package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App    AppConfig    `toml:"app"`
	API    APIConfig    `toml:"api"`
	Ingest IngestConfig `toml:"ingest"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
	Stub   StubConfig   `toml:"stub"`
}

type AppConfig struct {
	Name string `toml:"name"`
	Env  string `toml:"env"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type IngestConfig struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
}

type CacheConfig struct {
	ConversationsTTLSeconds int `toml:"conversations_ttl_seconds"`
}

type LogConfig struct {
	File    string `toml:"file"`
	Console bool   `toml:"console"`
}

type StubConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	GinMode         string `toml:"gin_mode"`
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLMinute  int    `toml:"token_ttl_minute"`
	ChunkIntervalMS int    `toml:"chunk_interval_ms"`
	ProgressStep    int    `toml:"progress_step"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Ingest.PollIntervalSeconds) * time.Second
}

func (c *Config) ConversationsTTL() time.Duration {
	return time.Duration(c.Cache.ConversationsTTLSeconds) * time.Second
}

func (c *Config) StubAddr() string {
	return fmt.Sprintf("%s:%d", c.Stub.Host, c.Stub.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name: "docuchat",
			Env:  "dev",
		},
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8080",
			Token:          "",
			TimeoutSeconds: 30,
		},
		Ingest: IngestConfig{
			PollIntervalSeconds: 5,
		},
		Cache: CacheConfig{
			ConversationsTTLSeconds: 60,
		},
		Log: LogConfig{
			File:    "logs/docuchat.log",
			Console: false,
		},
		Stub: StubConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			GinMode:         "release",
			JWTSecret:       "change-me-in-production",
			TokenTTLMinute:  120,
			ChunkIntervalMS: 40,
			ProgressStep:    25,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)

	cfg.API.BaseURL = getEnv("API_BASE_URL", cfg.API.BaseURL)
	cfg.API.Token = getEnv("API_TOKEN", cfg.API.Token)
	cfg.API.TimeoutSeconds = getEnvAsInt("API_TIMEOUT_SECONDS", cfg.API.TimeoutSeconds)

	cfg.Ingest.PollIntervalSeconds = getEnvAsInt("INGEST_POLL_INTERVAL_SECONDS", cfg.Ingest.PollIntervalSeconds)
	cfg.Cache.ConversationsTTLSeconds = getEnvAsInt("CACHE_CONVERSATIONS_TTL_SECONDS", cfg.Cache.ConversationsTTLSeconds)

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Console = getEnvAsBool("LOG_CONSOLE", cfg.Log.Console)

	cfg.Stub.Host = getEnv("STUB_HOST", cfg.Stub.Host)
	cfg.Stub.Port = getEnvAsInt("STUB_PORT", cfg.Stub.Port)
	cfg.Stub.GinMode = getEnv("STUB_GIN_MODE", cfg.Stub.GinMode)
	cfg.Stub.JWTSecret = getEnv("STUB_JWT_SECRET", cfg.Stub.JWTSecret)
	cfg.Stub.TokenTTLMinute = getEnvAsInt("STUB_TOKEN_TTL_MINUTE", cfg.Stub.TokenTTLMinute)
	cfg.Stub.ChunkIntervalMS = getEnvAsInt("STUB_CHUNK_INTERVAL_MS", cfg.Stub.ChunkIntervalMS)
	cfg.Stub.ProgressStep = getEnvAsInt("STUB_PROGRESS_STEP", cfg.Stub.ProgressStep)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
