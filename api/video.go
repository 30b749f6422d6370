package hostapi

// PixelFormat identifies the layout of a frame's pixels. The values match
// the libretro pixel format enum.
type PixelFormat int32

const (
	PixelFormat0RGB1555 PixelFormat = iota
	PixelFormatXRGB8888
	PixelFormatRGB565
)

// BytesPerPixel returns the size of one pixel, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormat0RGB1555, PixelFormatRGB565:
		return 2
	case PixelFormatXRGB8888:
		return 4
	default:
		return 0
	}
}

// Valid reports whether f is one of the known formats.
func (f PixelFormat) Valid() bool {
	return f.BytesPerPixel() != 0
}

// String returns the display name of the format.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormat0RGB1555:
		return "0RGB1555"
	case PixelFormatXRGB8888:
		return "XRGB8888"
	case PixelFormatRGB565:
		return "RGB565"
	default:
		return "Unknown"
	}
}
