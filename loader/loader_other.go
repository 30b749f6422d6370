//go:build !darwin && !freebsd && !linux && !windows

package loader

func newNative(goos string) (Loader, error) {
	return nil, &LoadError{Op: "select", Platform: goos, Err: ErrUnsupportedPlatform}
}
