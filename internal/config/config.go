package config

import "time"

// Config is the root configuration for Zenith.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Models  ModelsConfig  `json:"models"`
	Events  EventsConfig  `json:"events"`
	Mentor  MentorConfig  `json:"mentor"`
	Memory  MemoryConfig  `json:"memory"`
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// AuthToken, when set, must be presented by WS clients before task
	// mutations are accepted on their sessions.
	AuthToken string `json:"auth_token,omitempty"`
}

// ModelsConfig holds model provider configuration.
type ModelsConfig struct {
	Default   string                    `json:"default"`
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver    string         `json:"driver"` // "openai", "claude", "gemini", "ollama"
	Model     string         `json:"model"`
	BaseURL   string         `json:"base_url,omitempty"`
	APIKey    string         `json:"api_key,omitempty"` // direct key or ${VAR}
	MaxTokens int            `json:"max_tokens,omitempty"`
	Timeout   Duration       `json:"timeout,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// MentorConfig holds mentor persona and scheduling settings.
type MentorConfig struct {
	// Persona replaces the built-in system prompt entirely when set.
	Persona string `json:"persona,omitempty"`
	// MotivationCron is a 5-field cron spec for the daily motivation job.
	// Empty disables the job.
	MotivationCron string `json:"motivation_cron,omitempty"`
}

// MemoryConfig holds memory bank settings.
type MemoryConfig struct {
	MaxEntries    int  `json:"max_entries"`    // bank cap, oldest evicted first
	RetentionDays int  `json:"retention_days"` // prune horizon
	AutoSave      bool `json:"auto_save"`      // persist extracted memories without confirmation
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
