package models

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zenithlabs/zenith/internal/config"
)

func TestResolveAPIKey_Direct(t *testing.T) {
	key, err := ResolveAPIKey(config.ProviderConfig{Driver: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key != "sk-test" {
		t.Errorf("key: got %q", key)
	}
}

func TestResolveAPIKey_EnvReference(t *testing.T) {
	t.Setenv("MY_PROVIDER_KEY", "sk-from-env")
	key, err := ResolveAPIKey(config.ProviderConfig{Driver: "claude", APIKey: "${MY_PROVIDER_KEY}"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key != "sk-from-env" {
		t.Errorf("key: got %q", key)
	}
}

func TestResolveAPIKey_DriverDefault(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "sk-gemini")
	key, err := ResolveAPIKey(config.ProviderConfig{Driver: "gemini"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key != "sk-gemini" {
		t.Errorf("key: got %q", key)
	}
}

func TestResolveAPIKey_OllamaNoKey(t *testing.T) {
	key, err := ResolveAPIKey(config.ProviderConfig{Driver: "ollama"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key != "" {
		t.Errorf("key: got %q, want empty", key)
	}
}

func TestResolveAPIKey_UnknownDriver(t *testing.T) {
	if _, err := ResolveAPIKey(config.ProviderConfig{Driver: "mystery"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"status 401 unauthorized", "authentication failed"},
		{"429 too many requests", "rate limited"},
		{"request exceeds context length", "context too long"},
		{"model not found", "model not found"},
		{"dial tcp: connection refused", "connection error"},
	}
	for _, c := range cases {
		got := HandleError(errors.New(c.in))
		if !strings.Contains(got.Error(), c.want) {
			t.Errorf("HandleError(%q) = %q, want prefix %q", c.in, got, c.want)
		}
	}
	if HandleError(nil) != nil {
		t.Error("nil should pass through")
	}
}

func TestOllamaTransport_NonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(200)
		w.Write([]byte("no available server"))
	}))
	defer srv.Close()

	transport := &ollamaTransport{inner: http.DefaultTransport, provider: "ollama"}
	req, _ := http.NewRequest("POST", srv.URL, nil)
	_, err := transport.RoundTrip(req)
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}

	var unavail *ErrModelUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrModelUnavailable, got %T: %v", err, err)
	}
	if !strings.Contains(unavail.Body, "no available server") {
		t.Errorf("body: got %q", unavail.Body)
	}
}

func TestOllamaTransport_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
		w.Write([]byte("service unavailable"))
	}))
	defer srv.Close()

	transport := &ollamaTransport{inner: http.DefaultTransport, provider: "ollama"}
	req, _ := http.NewRequest("POST", srv.URL, nil)
	_, err := transport.RoundTrip(req)

	var unavail *ErrModelUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrModelUnavailable, got %T: %v", err, err)
	}
	if !strings.Contains(unavail.Body, "service unavailable") {
		t.Errorf("body: got %q", unavail.Body)
	}
}

func TestOllamaTransport_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"test"}`))
	}))
	defer srv.Close()

	transport := &ollamaTransport{inner: http.DefaultTransport, provider: "ollama"}
	req, _ := http.NewRequest("POST", srv.URL, nil)
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"model":"test"}` {
		t.Errorf("body: got %q", string(body))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{
		Default: "local",
		Providers: map[string]config.ProviderConfig{
			"local": {Driver: "ollama", Model: "llama3"},
		},
	})
	if r.DefaultName() != "local" {
		t.Errorf("default name: got %q", r.DefaultName())
	}
	if names := r.Names(); len(names) != 1 || names[0] != "local" {
		t.Errorf("names: %v", names)
	}
}
