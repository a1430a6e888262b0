package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the unified process configuration, populated from the
// environment at startup.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Log       LogConfig
	Detection DetectionConfig
	Provider  ProviderConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Env  string // dev, staging, production
	Port string
}

// DataConfig points at the definition directories the catalog loads.
type DataConfig struct {
	WorkspacesDir string
	ModulesDir    string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	File   string // optional rotating file sink
}

// DetectionConfig holds classification settings that are not part of the
// declarative catalog.
type DetectionConfig struct {
	InternalDomains  []string
	DefaultWorkspace string
}

// ProviderConfig holds generative-model provider settings.
type ProviderConfig struct {
	APIKey         string
	TimeoutSeconds int
	MaxConcurrent  int

	// Optional per-tier model overrides; empty values use the provider
	// package defaults.
	LightweightModel  string
	StandardModel     string
	LargeContextModel string
}

// GlobalConfig is the process-wide configuration instance.
var GlobalConfig *Config

// LoadConfig populates the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("ENV", "dev"),
			Port: getEnv("PORT", "8000"),
		},
		Data: DataConfig{
			WorkspacesDir: getEnv("WORKSPACES_DIR", "./configs/workspaces"),
			ModulesDir:    getEnv("MODULES_DIR", "./configs/modules"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
			File:   getEnv("LOG_FILE", ""),
		},
		Detection: DetectionConfig{
			InternalDomains:  parseStringList(getEnv("INTERNAL_DOMAINS", "")),
			DefaultWorkspace: getEnv("DEFAULT_WORKSPACE", "general"),
		},
		Provider: ProviderConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			TimeoutSeconds:    getEnvInt("PROVIDER_TIMEOUT_SECONDS", 150),
			MaxConcurrent:     getEnvInt("PROVIDER_MAX_CONCURRENT", 8),
			LightweightModel:  getEnv("PROVIDER_MODEL_LIGHTWEIGHT", ""),
			StandardModel:     getEnv("PROVIDER_MODEL_STANDARD", ""),
			LargeContextModel: getEnv("PROVIDER_MODEL_LARGE_CONTEXT", ""),
		},
	}

	GlobalConfig = cfg
	return cfg, nil
}

// ValidateConfig checks configuration consistency, collecting every
// problem before failing.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		errors = append(errors, fmt.Sprintf("PORT must be numeric, got %q", cfg.Server.Port))
	}

	if cfg.Data.WorkspacesDir == "" {
		errors = append(errors, "WORKSPACES_DIR must not be empty")
	}
	if cfg.Data.ModulesDir == "" {
		errors = append(errors, "MODULES_DIR must not be empty")
	}

	if cfg.Detection.DefaultWorkspace == "" {
		errors = append(errors, "DEFAULT_WORKSPACE must not be empty")
	}
	for _, d := range cfg.Detection.InternalDomains {
		if strings.ContainsAny(d, "@ ") {
			errors = append(errors, fmt.Sprintf("INTERNAL_DOMAINS entry %q is not a bare domain", d))
		}
	}

	if cfg.Provider.TimeoutSeconds < 1 {
		errors = append(errors, "PROVIDER_TIMEOUT_SECONDS must be at least 1")
	}
	if cfg.Provider.MaxConcurrent < 1 {
		errors = append(errors, "PROVIDER_MAX_CONCURRENT must be at least 1")
	}

	if cfg.Server.Env == "production" && cfg.Provider.APIKey == "" {
		errors = append(errors, "GEMINI_API_KEY is required in production environment")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// parseStringList splits a comma-separated value into trimmed non-empty
// entries.
func parseStringList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, strings.ToLower(trimmed))
		}
	}
	return result
}
