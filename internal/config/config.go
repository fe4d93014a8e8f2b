// Package config loads and persists atlas configuration.
//
// Values come from three layers, later layers winning: built-in defaults,
// the JSON config file at ~/.config/atlas/config.json, and environment
// variables (MONGO_URI, DATABASE_NAME, LLM_BASE_URL, LLM_MODEL,
// LLM_API_KEY, API_HOST, API_PORT, FRONTEND_URL, DEBUG).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	// MongoDB
	MongoURI string `json:"mongo_uri,omitempty"`
	Database string `json:"database,omitempty"`

	// LLM completion service (OpenAI-compatible endpoint)
	LLMBaseURL string `json:"llm_base_url,omitempty"`
	LLMModel   string `json:"llm_model,omitempty"`
	LLMAPIKey  string `json:"llm_api_key,omitempty"`

	// API server
	APIHost     string `json:"api_host,omitempty"`
	APIPort     int    `json:"api_port,omitempty"`
	FrontendURL string `json:"frontend_url,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

var (
	configDir  string
	configFile string
	current    *Config
)

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configDir = filepath.Join(home, ".config", "atlas")
	configFile = filepath.Join(configDir, "config.json")
}

func defaults() *Config {
	return &Config{
		MongoURI:    "mongodb://localhost:27017/",
		Database:    "donhauser",
		LLMBaseURL:  "http://localhost:1234",
		LLMModel:    "qwen/qwen3-coder-30b",
		LLMAPIKey:   "lm-studio",
		APIHost:     "0.0.0.0",
		APIPort:     8000,
		FrontendURL: "http://localhost:3001",
	}
}

// Load reads the config from disk and applies environment overrides.
func Load() (*Config, error) {
	if current != nil {
		return current, nil
	}

	cfg := defaults()

	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(cfg)
	current = cfg
	return current, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv("DATABASE_NAME"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if v := os.Getenv("API_HOST"); v != "" {
		cfg.APIHost = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.APIPort = port
		}
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		cfg.FrontendURL = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = strings.EqualFold(v, "true") || v == "1"
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	current = cfg
	return nil
}

// Get returns the current config, loading if necessary.
func Get() *Config {
	if current == nil {
		_, _ = Load()
	}
	return current
}

// Set updates a config value by key.
func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case "mongo_uri", "mongo":
		cfg.MongoURI = value
	case "database", "db":
		cfg.Database = value
	case "llm_base_url", "llm_url":
		cfg.LLMBaseURL = value
	case "llm_model", "model":
		cfg.LLMModel = value
	case "llm_api_key", "api_key":
		cfg.LLMAPIKey = value
	case "api_host", "host":
		cfg.APIHost = value
	case "api_port", "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port: %s", value)
		}
		cfg.APIPort = port
	case "frontend_url", "frontend":
		cfg.FrontendURL = value
	case "debug":
		cfg.Debug = strings.EqualFold(value, "true") || value == "1"
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return Save(cfg)
}

// Delete resets a config value to its default.
func Delete(key string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	def := defaults()
	switch key {
	case "mongo_uri", "mongo":
		cfg.MongoURI = def.MongoURI
	case "database", "db":
		cfg.Database = def.Database
	case "llm_base_url", "llm_url":
		cfg.LLMBaseURL = def.LLMBaseURL
	case "llm_model", "model":
		cfg.LLMModel = def.LLMModel
	case "llm_api_key", "api_key":
		cfg.LLMAPIKey = def.LLMAPIKey
	case "api_host", "host":
		cfg.APIHost = def.APIHost
	case "api_port", "port":
		cfg.APIPort = def.APIPort
	case "frontend_url", "frontend":
		cfg.FrontendURL = def.FrontendURL
	case "debug":
		cfg.Debug = false
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return Save(cfg)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return configFile
}

// ListKeys returns configured values for display, masking the API key.
func ListKeys() map[string]string {
	cfg := Get()
	return map[string]string{
		"mongo_uri":    cfg.MongoURI,
		"database":     cfg.Database,
		"llm_base_url": cfg.LLMBaseURL,
		"llm_model":    cfg.LLMModel,
		"llm_api_key":  maskKey(cfg.LLMAPIKey),
		"api_host":     cfg.APIHost,
		"api_port":     strconv.Itoa(cfg.APIPort),
		"frontend_url": cfg.FrontendURL,
		"debug":        strconv.FormatBool(cfg.Debug),
	}
}

// maskKey shows only first 4 and last 4 characters.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// Addr returns the host:port the API server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}
