package config

import (
	"path/filepath"
	"testing"
)

func TestZenithPath_EnvOverride(t *testing.T) {
	t.Setenv("ZENITH_PATH", "/tmp/zenith-test")
	if got := ZenithPath(); got != "/tmp/zenith-test" {
		t.Errorf("ZenithPath: got %q", got)
	}
	if got := ConfigPath(); got != filepath.Join("/tmp/zenith-test", "config.jsonc") {
		t.Errorf("ConfigPath: got %q", got)
	}
	if got := DatabasePath(); got != filepath.Join("/tmp/zenith-test", "zenith.db") {
		t.Errorf("DatabasePath: got %q", got)
	}
	if got := SessionsPath(); got != filepath.Join("/tmp/zenith-test", "sessions") {
		t.Errorf("SessionsPath: got %q", got)
	}
}
