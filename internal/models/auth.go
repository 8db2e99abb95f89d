package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/zenithlabs/zenith/internal/config"
)

// defaultKeyEnv maps drivers to their conventional API key variables.
var defaultKeyEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

// ResolveAPIKey resolves the API key for a provider.
// Resolution order: direct key → ${VAR} reference → driver default env var.
// Ollama needs no key and resolves to the empty string.
func ResolveAPIKey(cfg config.ProviderConfig) (string, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if strings.HasPrefix(key, "${") && strings.HasSuffix(key, "}") {
		key = os.Getenv(key[2 : len(key)-1])
	}
	if key != "" {
		return key, nil
	}

	driver := strings.ToLower(cfg.Driver)
	if driver == "ollama" {
		return "", nil
	}
	envVar, ok := defaultKeyEnv[driver]
	if !ok {
		return "", fmt.Errorf("unknown driver %q: cannot resolve API key", cfg.Driver)
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s not set", envVar)
}
