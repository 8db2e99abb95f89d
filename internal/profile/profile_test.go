package profile

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "profile.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.OnboardingComplete {
		t.Error("empty profile should not be onboarded")
	}
	if p.DisplayName() != "Friend" {
		t.Errorf("display name: got %q", p.DisplayName())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	in := &Profile{
		Name:       "Alex",
		Goals:      []string{"launch the startup", "run a marathon"},
		Challenges: []string{"focus"},
		RoleModels: []RoleModel{
			{Name: "Marcus Aurelius", Reason: "stoic discipline"},
			{Name: "Ada Lovelace"},
		},
		CommunicationStyle: "direct",
		OnboardingComplete: true,
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Name != "Alex" || len(out.Goals) != 2 || !out.OnboardingComplete {
		t.Errorf("round trip: %+v", out)
	}
	if out.RoleModels[0].Reason != "stoic discipline" {
		t.Errorf("role models: %+v", out.RoleModels)
	}
}

func TestRoleModelsLine(t *testing.T) {
	p := &Profile{RoleModels: []RoleModel{
		{Name: "Marcus Aurelius", Reason: "stoic discipline"},
		{Name: "Ada Lovelace"},
		{Name: "   "},
	}}
	got := p.RoleModelsLine()
	want := "Marcus Aurelius (stoic discipline), Ada Lovelace"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	empty := &Profile{}
	if empty.RoleModelsLine() != "Visionaries and leaders" {
		t.Errorf("fallback: got %q", empty.RoleModelsLine())
	}
}

func TestGreeting(t *testing.T) {
	morning := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)

	p := &Profile{Name: "Alex", Goals: []string{"launch the startup"}}
	got := p.Greeting(morning)
	if !strings.HasPrefix(got, "Good morning, Alex") || !strings.Contains(got, `"launch the startup"`) {
		t.Errorf("greeting: %q", got)
	}

	empty := &Profile{}
	got = empty.Greeting(evening)
	if got != "Good evening, Friend. What's on your mind?" {
		t.Errorf("greeting: %q", got)
	}
}
