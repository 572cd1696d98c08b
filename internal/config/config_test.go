package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.ListenPort != 9696 {
		t.Fatalf("expected default port 9696, got %d", s.ListenPort)
	}
	if s.DisplayName != "Vitrine" {
		t.Fatalf("expected default display name, got %q", s.DisplayName)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("display_name: Lobby\nlisten_port: 8099\nsize_x: 1280\nsize_y: 720\ndebug: true\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.DisplayName != "Lobby" || s.ListenPort != 8099 {
		t.Fatalf("overrides not applied: %+v", s)
	}
	if s.SizeX != 1280 || s.SizeY != 720 {
		t.Fatalf("geometry not applied: %+v", s)
	}
	if !s.Debug {
		t.Fatalf("debug not applied")
	}
	// Unset fields keep defaults.
	if s.MediaDir != "media" {
		t.Fatalf("expected default media dir, got %q", s.MediaDir)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen_port: 99999\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for out-of-range port")
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	s := Default()
	s.DisplayName = "Window 7"
	s.PosX = 50

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if back.DisplayName != "Window 7" || back.PosX != 50 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
