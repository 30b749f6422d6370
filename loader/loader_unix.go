//go:build darwin || freebsd || linux

package loader

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// dlLoader uses the system dynamic linker through purego, so no C
// toolchain is needed to load cores.
type dlLoader struct {
	platform string
}

func newNative(goos string) (Loader, error) {
	return &dlLoader{platform: goos}, nil
}

func (l *dlLoader) Open(path string) (Handle, error) {
	if err := checkFile(l.platform, path); err != nil {
		return 0, err
	}
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, &LoadError{Op: "open", Platform: l.platform, Path: path, Err: fmt.Errorf("%w: %v", ErrNative, err)}
	}
	return Handle(h), nil
}

func (l *dlLoader) Resolve(h Handle, symbol string) (uintptr, error) {
	ptr, err := purego.Dlsym(uintptr(h), symbol)
	if err != nil || ptr == 0 {
		return 0, &LoadError{Op: "resolve", Platform: l.platform, Symbol: symbol, Err: ErrSymbolNotFound}
	}
	return ptr, nil
}

func (l *dlLoader) Close(h Handle) error {
	if h == 0 {
		return nil
	}
	if err := purego.Dlclose(uintptr(h)); err != nil {
		return &LoadError{Op: "close", Platform: l.platform, Err: fmt.Errorf("%w: %v", ErrNative, err)}
	}
	return nil
}

func (l *dlLoader) Extension() string {
	return ExtensionFor(l.platform)
}
