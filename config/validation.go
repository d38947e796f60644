package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var knownProviders = map[string]bool{
	"":       true,
	"none":   true,
	"gemini": true,
	"openai": true,
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "must not be empty"}.Error())
	}
	if !knownProviders[cfg.LLMProvider] {
		errs = append(errs, ValidationError{"LLM_PROVIDER", fmt.Sprintf("unknown provider %q", cfg.LLMProvider)}.Error())
	}
	if cfg.LLMProvider == "gemini" && cfg.GeminiAPIKey == "" {
		errs = append(errs, ValidationError{"GEMINI_API_KEY", "required when LLM_PROVIDER=gemini"}.Error())
	}
	if cfg.LLMProvider == "openai" && cfg.OpenAIAPIKey == "" {
		errs = append(errs, ValidationError{"OPENAI_API_KEY", "required when LLM_PROVIDER=openai"}.Error())
	}

	if env == Production {
		if cfg.JWTSecret == "" {
			errs = append(errs, "jwt_secret secret is required")
		}
		if cfg.UsesSQLite() {
			errs = append(errs, "database_url secret or DB_HOST is required in production")
		}
	}

	if cfg.DBHost != "" && cfg.DatabaseURL == "" {
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"DB_USER", "required when DB_HOST is set"}.Error())
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "required when DB_HOST is set"}.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
