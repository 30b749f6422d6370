// Package storage manages the frontend's data directory: configuration,
// battery saves, save states, screenshots and the log file.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var appName = "retrohost"

// Init sets the application data directory name. Must be called before
// any storage operations that should not use the default name.
func Init(dataDirName string) {
	appName = dataDirName
}

const (
	configFile    = "config.json"
	logFile       = "retrohost.log"
	savesDir      = "saves"
	systemDir     = "system"
	statesDir     = "states"
	screenshotDir = "screenshots"
)

// GetBaseDir returns the base directory for application data.
// The directory name is set by Init(). Example paths:
// - macOS: ~/Library/Application Support/<appName>
// - Linux: ~/.local/share/<appName>
// - Windows: %APPDATA%/<appName>
func GetBaseDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		baseDir = filepath.Join(appData, appName)
	default:
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			baseDir = filepath.Join(dataHome, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = filepath.Join(home, ".local", "share", appName)
		}
	}

	return baseDir, nil
}

func subDir(name string) (string, error) {
	baseDir, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, name), nil
}

// EnsureDirectories creates the data directory tree.
func EnsureDirectories() error {
	baseDir, err := GetBaseDir()
	if err != nil {
		return err
	}

	for _, dir := range []string{"", savesDir, systemDir, statesDir, screenshotDir} {
		path := filepath.Join(baseDir, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	}
	return nil
}

// GetConfigPath returns the full path to config.json
func GetConfigPath() (string, error) {
	return subDir(configFile)
}

// GetLogPath returns the full path to the log file
func GetLogPath() (string, error) {
	return subDir(logFile)
}

// GetSavesDir returns the default battery save directory
func GetSavesDir() (string, error) {
	return subDir(savesDir)
}

// GetSystemDir returns the default directory for core BIOS and system files
func GetSystemDir() (string, error) {
	return subDir(systemDir)
}

// GetScreenshotDir returns the full path to the screenshots directory
func GetScreenshotDir() (string, error) {
	return subDir(screenshotDir)
}

// GameKey derives a directory-safe name for a ROM from its file name.
func GameKey(romPath string) string {
	base := filepath.Base(romPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GetGameStateDir returns the save state directory for a ROM
func GetGameStateDir(romPath string) (string, error) {
	dir, err := subDir(statesDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, GameKey(romPath)), nil
}

// GetGameScreenshotDir returns the screenshot directory for a ROM
func GetGameScreenshotDir(romPath string) (string, error) {
	dir, err := GetScreenshotDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, GameKey(romPath)), nil
}

// AtomicWriteFile writes data to path through a temporary file in the same
// directory, so readers never see a partially written file.
func AtomicWriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Rename is atomic on most filesystems
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// AtomicWriteJSON writes data to a JSON file atomically.
func AtomicWriteJSON(path string, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return AtomicWriteFile(path, jsonData)
}

// ReadJSON reads and unmarshals a JSON file
func ReadJSON(path string, data any) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(jsonData, data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}
