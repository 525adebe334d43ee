package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "chatcfg"
	if !contains(configDir, "chatcfg") {
		t.Errorf("GetConfigDir() = %v, should contain 'chatcfg'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !contains(configDir, "AppData") && !contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Servers == nil {
		t.Error("NewRegistry().Servers should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.DebounceMillis != 350 {
		t.Errorf("NewRegistry().Preferences.DebounceMillis = %v, want 350", reg.Preferences.DebounceMillis)
	}

	if reg.Preferences.ValidateTimeout != 5 {
		t.Errorf("NewRegistry().Preferences.ValidateTimeout = %v, want 5", reg.Preferences.ValidateTimeout)
	}
}

func TestRegistryAddServer(t *testing.T) {
	reg := NewRegistry()

	id, server := reg.AddServer("Team", "example", "https://example.chat.platrum.ru")
	if id == "" {
		t.Fatal("AddServer() returned empty id")
	}
	if server == nil {
		t.Fatal("AddServer() returned nil server")
	}

	if got := reg.GetServer(id); got != server {
		t.Error("GetServer() should return the added instance")
	}

	if server.Permissions == nil {
		t.Error("added server should start with default permissions")
	}

	// Two adds must produce distinct ids
	id2, _ := reg.AddServer("Other", "other", "https://other.chat.platrum.ru")
	if id2 == id {
		t.Error("AddServer() should generate unique ids")
	}
}

func TestRegistryFindByURL(t *testing.T) {
	reg := NewRegistry()
	id, _ := reg.AddServer("Team", "example", "https://example.chat.platrum.ru")

	foundID, server := reg.FindByURL("https://example.chat.platrum.ru")
	if foundID != id || server == nil {
		t.Errorf("FindByURL() = (%q, %v), want (%q, server)", foundID, server, id)
	}

	foundID, server = reg.FindByURL("https://missing.chat.platrum.ru")
	if foundID != "" || server != nil {
		t.Errorf("FindByURL() on unknown URL = (%q, %v), want (\"\", nil)", foundID, server)
	}
}

func TestRegistryRemoveServer(t *testing.T) {
	reg := NewRegistry()
	id, _ := reg.AddServer("Team", "example", "https://example.chat.platrum.ru")

	// Remove by host label
	if !reg.RemoveServer("example") {
		t.Error("RemoveServer(host) should succeed")
	}
	if reg.GetServer(id) != nil {
		t.Error("server should be gone after removal")
	}

	// Removing again fails
	if reg.RemoveServer(id) {
		t.Error("RemoveServer() on missing entry should return false")
	}
}

func TestRegistryUpdateValidation(t *testing.T) {
	reg := NewRegistry()
	id, _ := reg.AddServer("Team", "example", "https://example.chat.platrum.ru")

	before := time.Now()
	reg.UpdateValidation(id, "9.5.0")
	after := time.Now()

	server := reg.GetServer(id)
	if server.ServerVersion != "9.5.0" {
		t.Errorf("ServerVersion = %v, want 9.5.0", server.ServerVersion)
	}
	if server.LastValidated.Before(before) || server.LastValidated.After(after) {
		t.Errorf("LastValidated = %v, should be between %v and %v", server.LastValidated, before, after)
	}

	// Unknown id is a no-op, not a panic
	reg.UpdateValidation("missing", "1.0.0")
}

func TestRegistrySaveRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME override is not honored on windows")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg := NewRegistry()
	id, server := reg.AddServer("Team", "example", "https://example.chat.platrum.ru")
	server.ServerVersion = "9.5.0"

	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}

	var loaded Registry
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("parsing saved config: %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("saved Version = %v, want 1", loaded.Version)
	}

	got := loaded.Servers[id]
	if got == nil {
		t.Fatalf("saved registry missing server %q", id)
	}
	if got.Host != "example" || got.URL != "https://example.chat.platrum.ru" {
		t.Errorf("saved server = %+v, want host example and hosted URL", got)
	}
	if got.ServerVersion != "9.5.0" {
		t.Errorf("saved ServerVersion = %v, want 9.5.0", got.ServerVersion)
	}
}

// contains is a helper to check substring presence
func contains(s, substr string) bool {
	return len(s) >= len(substr) && containsAt(s, substr)
}

func containsAt(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
