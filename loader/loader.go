// Package loader opens native core libraries and resolves their exported
// symbols. One implementation exists per platform family and is chosen
// once, at construction.
package loader

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

// Handle is an opaque reference to an open library.
type Handle uintptr

var (
	// ErrUnsupportedPlatform is returned when no loader exists for the OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrFileNotFound is returned when the library path does not exist.
	ErrFileNotFound = errors.New("library file not found")

	// ErrNative wraps failures reported by the platform's own loader.
	ErrNative = errors.New("native loader error")

	// ErrSymbolNotFound is returned when a symbol cannot be resolved.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// LoadError describes a failed loader operation with enough context to
// diagnose it from a log line.
type LoadError struct {
	Op       string // "select", "open", "resolve" or "close"
	Platform string
	Path     string
	Symbol   string
	Err      error
}

func (e *LoadError) Error() string {
	msg := e.Op + " failed on " + e.Platform
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Symbol != "" {
		msg += " (symbol " + e.Symbol + ")"
	}
	return msg + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader is the platform dynamic-library abstraction.
type Loader interface {
	// Open loads the library at path.
	Open(path string) (Handle, error)

	// Resolve returns the address of an exported symbol.
	Resolve(h Handle, symbol string) (uintptr, error)

	// Close unloads the library. Failures are reported but the handle must
	// not be used again either way.
	Close(h Handle) error

	// Extension returns the library file extension including the dot.
	Extension() string
}

type platformKind int

const (
	platformUnsupported platformKind = iota
	platformUnix
	platformWindows
)

// platformKinds maps GOOS values to the loader family serving them.
var platformKinds = map[string]platformKind{
	"linux":   platformUnix,
	"freebsd": platformUnix,
	"darwin":  platformUnix,
	"windows": platformWindows,
}

var extensions = map[string]string{
	"linux":   ".so",
	"freebsd": ".so",
	"darwin":  ".dylib",
	"windows": ".dll",
}

// ExtensionFor returns the library extension used on goos, or "" if the
// platform is unsupported.
func ExtensionFor(goos string) string {
	return extensions[goos]
}

// New returns the loader for the running platform.
func New() (Loader, error) {
	return ForPlatform(runtime.GOOS)
}

// ForPlatform returns the loader for goos. Only the running platform's
// loader can actually open libraries, so asking for a different supported
// platform is also an error.
func ForPlatform(goos string) (Loader, error) {
	kind, ok := platformKinds[goos]
	if !ok || kind == platformUnsupported {
		return nil, &LoadError{Op: "select", Platform: goos, Err: ErrUnsupportedPlatform}
	}
	if goos != runtime.GOOS {
		return nil, &LoadError{
			Op:       "select",
			Platform: goos,
			Err:      fmt.Errorf("%w: running on %s", ErrUnsupportedPlatform, runtime.GOOS),
		}
	}
	return newNative(goos)
}

// checkFile verifies the library exists so open failures can distinguish a
// bad path from a library the OS refused to load.
func checkFile(platform, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadError{Op: "open", Platform: platform, Path: path, Err: ErrFileNotFound}
		}
		return &LoadError{Op: "open", Platform: platform, Path: path, Err: err}
	}
	return nil
}
