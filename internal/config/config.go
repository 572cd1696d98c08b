// Package config defines the player settings and their on-disk format.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the player configuration.
type Settings struct {
	// DisplayName is used as the window title.
	DisplayName string `yaml:"display_name"`
	// MediaDir holds layout pages (<id>.xlf.html) and their media.
	MediaDir string `yaml:"media_dir"`
	// ListenPort is the loopback port of the embedded content server.
	ListenPort int `yaml:"listen_port"`

	// Window geometry. All-zero means fullscreen on the whole screen.
	PosX  int `yaml:"pos_x"`
	PosY  int `yaml:"pos_y"`
	SizeX int `yaml:"size_x"`
	SizeY int `yaml:"size_y"`

	// RendererTitle identifies the renderer's X11 window to manage.
	RendererTitle string `yaml:"renderer_title"`

	// ScreenshotPath is where completed PNG captures are written.
	ScreenshotPath string `yaml:"screenshot_path"`

	// Debug lowers the log level to debug.
	Debug bool `yaml:"debug"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when no config file exists.
func Default() *Settings {
	return &Settings{
		DisplayName:   "Vitrine",
		MediaDir:      "media",
		ListenPort:    9696,
		RendererTitle: "vitrine-renderer",
		LogLevel:      "info",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "vitrine", "config.yaml"), nil
}

// Load reads settings from path, filling unset fields with defaults. A
// missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) validate() error {
	if s.ListenPort <= 0 || s.ListenPort > 65535 {
		return fmt.Errorf("listen_port %d out of range", s.ListenPort)
	}
	if s.MediaDir == "" {
		return fmt.Errorf("media_dir must not be empty")
	}
	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", s.LogLevel)
	}
	return nil
}

// Save writes the settings to path, creating parent directories.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
