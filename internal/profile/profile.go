// Package profile stores the user's mentoring profile: who they are,
// what they're chasing, and how the mentor should talk to them.
package profile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RoleModel is a person the user wants the mentor to channel.
type RoleModel struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason,omitempty"`
}

// Profile holds the onboarding answers that shape the mentor persona.
type Profile struct {
	Name               string      `yaml:"name,omitempty"`
	Goals              []string    `yaml:"goals,omitempty"`
	Challenges         []string    `yaml:"challenges,omitempty"`
	RoleModels         []RoleModel `yaml:"role_models,omitempty"`
	CommunicationStyle string      `yaml:"communication_style,omitempty"`
	CustomPersona      string      `yaml:"custom_persona,omitempty"`
	OnboardingComplete bool        `yaml:"onboarding_complete"`
}

// DisplayName returns the user's name or a neutral fallback.
func (p *Profile) DisplayName() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return "Friend"
}

// RoleModelsLine renders role models for prompt injection, with reasons
// in parentheses when present.
func (p *Profile) RoleModelsLine() string {
	var parts []string
	for _, rm := range p.RoleModels {
		name := strings.TrimSpace(rm.Name)
		if name == "" {
			continue
		}
		if reason := strings.TrimSpace(rm.Reason); reason != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", name, reason))
		} else {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "Visionaries and leaders"
	}
	return strings.Join(parts, ", ")
}

// Greeting returns the opening line for a new session.
func (p *Profile) Greeting(now time.Time) string {
	var salutation string
	switch h := now.Hour(); {
	case h < 5:
		salutation = "Burning the midnight oil"
	case h < 12:
		salutation = "Good morning"
	case h < 18:
		salutation = "Good afternoon"
	default:
		salutation = "Good evening"
	}
	if len(p.Goals) > 0 {
		return fmt.Sprintf("%s, %s. Still moving toward %q?", salutation, p.DisplayName(), p.Goals[0])
	}
	return fmt.Sprintf("%s, %s. What's on your mind?", salutation, p.DisplayName())
}

// Load reads the profile from path. A missing file yields an empty
// profile, not an error.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Save atomically writes the profile to path.
func Save(path string, p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write profile tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename profile: %w", err)
	}
	return nil
}
