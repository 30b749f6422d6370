package storage

import (
	"path/filepath"

	hostapi "github.com/user-none/retrohost/api"
)

// Config represents the application configuration stored in config.json
type Config struct {
	Version     int                   `json:"version"`
	Cores       map[string]CoreConfig `json:"cores"`    // core id -> library and settings
	RomCores    map[string]string     `json:"romCores"` // ROM path -> core id
	Directories DirectoryConfig       `json:"directories"`
	Audio       AudioConfig           `json:"audio"`
	Window      WindowConfig          `json:"window"`
	Input       InputConfig           `json:"input"`
}

// CoreConfig describes one installed core.
type CoreConfig struct {
	Path     string         `json:"path"`
	Settings map[string]any `json:"settings,omitempty"` // setting key -> value
}

// DirectoryConfig overrides the default save and system directories.
// Empty means the directory under the data dir.
type DirectoryConfig struct {
	Saves  string `json:"saves,omitempty"`
	System string `json:"system,omitempty"`
}

// AudioConfig contains audio-related settings
type AudioConfig struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// WindowConfig contains window size
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
}

// InputConfig contains binding overrides, keyed by action name
// (e.g. "snes_a"). Empty maps mean the built-in defaults.
type InputConfig struct {
	Keyboard           map[string]string `json:"keyboard,omitempty"`   // action -> key name
	Controller         map[string]string `json:"controller,omitempty"` // action -> pad button name
	DisableAnalogStick bool              `json:"disableAnalogStick,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Cores:    make(map[string]CoreConfig),
		RomCores: make(map[string]string),
		Audio: AudioConfig{
			Volume: 1.0,
		},
		Window: WindowConfig{
			Width:  960,
			Height: 720,
		},
	}
}

// Config is the frontend's ConfigStore.
var _ hostapi.ConfigStore = (*Config)(nil)

// CorePath returns the library configured for a core id.
func (c *Config) CorePath(coreID string) string {
	return c.Cores[coreID].Path
}

// CoreForRom returns the core assigned to a specific ROM. Paths are
// compared after cleaning.
func (c *Config) CoreForRom(romPath string) (string, string) {
	id, ok := c.RomCores[romPath]
	if !ok {
		id, ok = c.RomCores[filepath.Clean(romPath)]
	}
	if !ok {
		return "", ""
	}
	return id, c.Cores[id].Path
}

// CoreSetting returns a stored setting for a core.
func (c *Config) CoreSetting(coreID string, setting hostapi.Setting) (any, bool) {
	core, ok := c.Cores[coreID]
	if !ok {
		return nil, false
	}
	v, ok := core.Settings[string(setting)]
	return v, ok
}

// SetCoreSetting stores a setting for a core, creating the core entry if
// needed.
func (c *Config) SetCoreSetting(coreID string, setting hostapi.Setting, value any) {
	if c.Cores == nil {
		c.Cores = make(map[string]CoreConfig)
	}
	core := c.Cores[coreID]
	if core.Settings == nil {
		core.Settings = make(map[string]any)
	}
	core.Settings[string(setting)] = value
	c.Cores[coreID] = core
}

// SavesDir returns the battery save directory in effect.
func (c *Config) SavesDir() (string, error) {
	if c.Directories.Saves != "" {
		return c.Directories.Saves, nil
	}
	return GetSavesDir()
}

// SystemDir returns the system directory in effect.
func (c *Config) SystemDir() (string, error) {
	if c.Directories.System != "" {
		return c.Directories.System, nil
	}
	return GetSystemDir()
}
