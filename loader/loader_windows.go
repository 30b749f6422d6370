//go:build windows

package loader

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type winLoader struct{}

func newNative(goos string) (Loader, error) {
	return &winLoader{}, nil
}

func (l *winLoader) Open(path string) (Handle, error) {
	if err := checkFile("windows", path); err != nil {
		return 0, err
	}
	// Search the core's own directory for its dependent DLLs.
	h, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, &LoadError{Op: "open", Platform: "windows", Path: path, Err: fmt.Errorf("%w: %v", ErrNative, err)}
	}
	return Handle(h), nil
}

func (l *winLoader) Resolve(h Handle, symbol string) (uintptr, error) {
	ptr, err := windows.GetProcAddress(windows.Handle(h), symbol)
	if err != nil || ptr == 0 {
		return 0, &LoadError{Op: "resolve", Platform: "windows", Symbol: symbol, Err: ErrSymbolNotFound}
	}
	return ptr, nil
}

func (l *winLoader) Close(h Handle) error {
	if h == 0 {
		return nil
	}
	if err := windows.FreeLibrary(windows.Handle(h)); err != nil {
		return &LoadError{Op: "close", Platform: "windows", Err: fmt.Errorf("%w: %v", ErrNative, err)}
	}
	return nil
}

func (l *winLoader) Extension() string {
	return ExtensionFor("windows")
}
