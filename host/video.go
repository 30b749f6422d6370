package host

import (
	"encoding/binary"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	hostapi "github.com/user-none/retrohost/api"
)

// Video is the ebiten video sink. Frames are converted to RGBA when they
// arrive and uploaded to the GPU on the next Draw.
type Video struct {
	rgba          []byte
	width, height int
	dirty         bool
	aspect        float64

	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
}

var _ hostapi.VideoSink = (*Video)(nil)

// NewVideo creates an empty video sink.
func NewVideo() *Video {
	return &Video{}
}

// Frame converts a core frame to RGBA.
func (v *Video) Frame(pixels []byte, width, height int, format hostapi.PixelFormat) {
	bpp := format.BytesPerPixel()
	if bpp == 0 || width <= 0 || height <= 0 || len(pixels) < width*height*bpp {
		return
	}
	size := width * height * 4
	if cap(v.rgba) < size {
		v.rgba = make([]byte, size)
	}
	v.rgba = v.rgba[:size]
	if !convertToRGBA(v.rgba, pixels, width, height, format) {
		return
	}
	v.width, v.height = width, height
	v.dirty = true
}

// SetAspect sets the display aspect ratio. Zero means square pixels.
func (v *Video) SetAspect(aspect float64) {
	v.aspect = aspect
}

// Size returns the dimensions of the last frame.
func (v *Video) Size() (int, int) {
	return v.width, v.height
}

// Snapshot copies the last frame into an image, or returns nil before the
// first frame.
func (v *Video) Snapshot() *image.RGBA {
	if v.width == 0 || v.height == 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	copy(img.Pix, v.rgba[:v.width*v.height*4])
	return img
}

// Draw renders the last frame with aspect-ratio-preserving scaling.
func (v *Video) Draw(screen *ebiten.Image) {
	if v.width == 0 || v.height == 0 {
		return
	}

	if v.offscreen == nil || v.offscreen.Bounds().Dx() != v.width || v.offscreen.Bounds().Dy() != v.height {
		if v.offscreen != nil {
			v.offscreen.Deallocate()
		}
		v.offscreen = ebiten.NewImage(v.width, v.height)
		v.dirty = true
	}
	if v.dirty {
		v.offscreen.WritePixels(v.rgba[:v.width*v.height*4])
		v.dirty = false
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	x, y, scaleX, scaleY := fitRect(screenW, screenH, v.width, v.height, v.aspect)

	v.drawOpts = ebiten.DrawImageOptions{}
	v.drawOpts.GeoM.Scale(scaleX, scaleY)
	v.drawOpts.GeoM.Translate(x, y)
	v.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(v.offscreen, &v.drawOpts)
}

// fitRect centers a width x height frame shown at aspect inside the
// screen and returns its offset and per-axis scale.
func fitRect(screenW, screenH, width, height int, aspect float64) (x, y, scaleX, scaleY float64) {
	if aspect <= 0 {
		aspect = float64(width) / float64(height)
	}
	displayW := float64(screenW)
	displayH := displayW / aspect
	if displayH > float64(screenH) {
		displayH = float64(screenH)
		displayW = displayH * aspect
	}
	x = (float64(screenW) - displayW) / 2
	y = (float64(screenH) - displayH) / 2
	return x, y, displayW / float64(width), displayH / float64(height)
}

// convertToRGBA unpacks tightly packed pixels into dst, which must hold
// width*height*4 bytes. It reports false for unknown formats or short input.
func convertToRGBA(dst, src []byte, width, height int, format hostapi.PixelFormat) bool {
	bpp := format.BytesPerPixel()
	n := width * height
	if bpp == 0 || len(src) < n*bpp || len(dst) < n*4 {
		return false
	}

	switch format {
	case hostapi.PixelFormatXRGB8888:
		for i := 0; i < n; i++ {
			p := binary.LittleEndian.Uint32(src[i*4:])
			dst[i*4] = byte(p >> 16)
			dst[i*4+1] = byte(p >> 8)
			dst[i*4+2] = byte(p)
			dst[i*4+3] = 0xFF
		}
	case hostapi.PixelFormatRGB565:
		for i := 0; i < n; i++ {
			p := binary.LittleEndian.Uint16(src[i*2:])
			dst[i*4] = expand5(p >> 11)
			dst[i*4+1] = expand6(p >> 5)
			dst[i*4+2] = expand5(p)
			dst[i*4+3] = 0xFF
		}
	case hostapi.PixelFormat0RGB1555:
		for i := 0; i < n; i++ {
			p := binary.LittleEndian.Uint16(src[i*2:])
			dst[i*4] = expand5(p >> 10)
			dst[i*4+1] = expand5(p >> 5)
			dst[i*4+2] = expand5(p)
			dst[i*4+3] = 0xFF
		}
	}
	return true
}

func expand5(v uint16) byte {
	v &= 0x1F
	return byte(v<<3 | v>>2)
}

func expand6(v uint16) byte {
	v &= 0x3F
	return byte(v<<2 | v>>4)
}
