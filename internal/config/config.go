// Package config loads tend configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all tend configuration.
type Config struct {
	Env      string // "development" or "production"
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Bind string
	Port int
}

type DatabaseConfig struct {
	Path string
}

type LLMConfig struct {
	Provider     string // "anthropic", "ollama"
	Model        string
	AnthropicKey string
	OllamaURL    string
	OllamaModel  string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38800,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider: "anthropic",
		},
	}
}

// Load reads configuration from the environment, after loading an optional
// .env file. Unset variables keep their defaults.
func Load() Config {
	godotenv.Load() // missing .env is fine

	cfg := Default()
	cfg.Env = getEnv("TEND_ENV", cfg.Env)
	cfg.Server.Bind = getEnv("TEND_BIND", cfg.Server.Bind)
	cfg.Server.Port = getEnvInt("TEND_PORT", cfg.Server.Port)
	cfg.Database.Path = getEnv("TEND_DB_PATH", cfg.Database.Path)
	cfg.LLM.Provider = getEnv("TEND_LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.Model = getEnv("TEND_LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.AnthropicKey = getEnv("ANTHROPIC_API_KEY", cfg.LLM.AnthropicKey)
	cfg.LLM.OllamaURL = getEnv("TEND_OLLAMA_URL", cfg.LLM.OllamaURL)
	cfg.LLM.OllamaModel = getEnv("TEND_OLLAMA_MODEL", cfg.LLM.OllamaModel)
	return cfg
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
