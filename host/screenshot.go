package host

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ErrNoFrame is returned when a screenshot is requested before the core
// produced a frame.
var ErrNoFrame = errors.New("no frame to capture")

// SaveScreenshot encodes img as a PNG named by the unix time in dir and
// returns the file path.
func SaveScreenshot(img image.Image, dir string, now time.Time) (string, error) {
	if img == nil {
		return "", ErrNoFrame
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.png", now.Unix()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return path, nil
}
