package storage

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// OpenLog returns a logger writing to stderr and to the log file in the
// data directory. The file is truncated on each start. Close the returned
// closer on exit.
func OpenLog() (*log.Logger, io.Closer, error) {
	path, err := GetLogPath()
	if err != nil {
		return nil, nil, err
	}
	return OpenLogAt(path)
}

// OpenLogAt is OpenLog with an explicit file path.
func OpenLogAt(path string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}
	logger := log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags|log.Lmicroseconds)
	return logger, f, nil
}
