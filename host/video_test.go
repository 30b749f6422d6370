package host

import (
	"bytes"
	"math"
	"testing"

	hostapi "github.com/user-none/retrohost/api"
)

func TestConvertToRGBA(t *testing.T) {
	tests := []struct {
		name   string
		format hostapi.PixelFormat
		src    []byte
		want   []byte
	}{
		{
			name:   "XRGB8888",
			format: hostapi.PixelFormatXRGB8888,
			src:    []byte{0x30, 0x20, 0x10, 0x00, 0xFF, 0xFF, 0xFF, 0x00},
			want:   []byte{0x10, 0x20, 0x30, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name:   "RGB565",
			format: hostapi.PixelFormatRGB565,
			// 0xF800 pure red, 0x07E0 pure green.
			src:  []byte{0x00, 0xF8, 0xE0, 0x07},
			want: []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF},
		},
		{
			name:   "0RGB1555",
			format: hostapi.PixelFormat0RGB1555,
			// 0x001F pure blue, 0x4210 mid grey.
			src:  []byte{0x1F, 0x00, 0x10, 0x42},
			want: []byte{0x00, 0x00, 0xFF, 0xFF, 0x84, 0x84, 0x84, 0xFF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, 8)
			if !convertToRGBA(dst, tt.src, 2, 1, tt.format) {
				t.Fatal("convertToRGBA returned false")
			}
			if !bytes.Equal(dst, tt.want) {
				t.Errorf("got % X, want % X", dst, tt.want)
			}
		})
	}
}

func TestConvertToRGBARejects(t *testing.T) {
	dst := make([]byte, 16)
	if convertToRGBA(dst, make([]byte, 16), 2, 2, hostapi.PixelFormat(7)) {
		t.Error("unknown format accepted")
	}
	if convertToRGBA(dst, make([]byte, 7), 2, 2, hostapi.PixelFormatRGB565) {
		t.Error("short source accepted")
	}
}

func TestVideoFrameAndSnapshot(t *testing.T) {
	v := NewVideo()
	if v.Snapshot() != nil {
		t.Fatal("Snapshot before first frame should be nil")
	}

	v.Frame([]byte{0x00, 0xF8, 0x00, 0xF8}, 2, 1, hostapi.PixelFormatRGB565)
	if w, h := v.Size(); w != 2 || h != 1 {
		t.Fatalf("Size() = %dx%d, want 2x1", w, h)
	}

	img := v.Snapshot()
	if img == nil {
		t.Fatal("Snapshot returned nil")
	}
	if got := img.RGBAAt(1, 0); got.R != 0xFF || got.G != 0 || got.A != 0xFF {
		t.Errorf("pixel (1,0) = %v, want opaque red", got)
	}

	// A malformed frame keeps the previous one.
	v.Frame([]byte{0}, 4, 4, hostapi.PixelFormatRGB565)
	if w, h := v.Size(); w != 2 || h != 1 {
		t.Fatalf("Size() after bad frame = %dx%d, want 2x1", w, h)
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name                   string
		screenW, screenH, w, h int
		aspect                 float64
		x, y, sx, sy           float64
	}{
		{"exact fit", 512, 448, 256, 224, 0, 0, 0, 2, 2},
		{"pillarbox", 1000, 448, 256, 224, 0, 244, 0, 2, 2},
		{"letterbox", 512, 1000, 256, 224, 0, 0, 276, 2, 2},
		{"4:3 aspect", 640, 480, 256, 224, 4.0 / 3.0, 0, 0, 2.5, 480.0 / 224},
	}

	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, sx, sy := fitRect(tt.screenW, tt.screenH, tt.w, tt.h, tt.aspect)
			if !near(x, tt.x) || !near(y, tt.y) || !near(sx, tt.sx) || !near(sy, tt.sy) {
				t.Errorf("fitRect = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
					x, y, sx, sy, tt.x, tt.y, tt.sx, tt.sy)
			}
		})
	}
}
