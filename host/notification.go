package host

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	notifyFontSize = 14
	notifyPadding  = 8
	notifyMargin   = 16
)

var (
	notifyBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 153}
	notifyText       = color.RGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}

	fontOnce sync.Once
	fontFace *text.GoTextFace
)

// notifyFont lazily loads the embedded Go font. Returns nil if it cannot
// be parsed, in which case messages are only logged.
func notifyFont() *text.GoTextFace {
	fontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("Warning: failed to load font: %v", err)
			return
		}
		fontFace = &text.GoTextFace{Source: src, Size: notifyFontSize}
	})
	return fontFace
}

// Notification displays one temporary message in the bottom-right corner.
type Notification struct {
	mu       sync.Mutex
	message  string
	start    time.Time
	duration time.Duration
	now      func() time.Time

	bg *ebiten.Image
}

// NewNotification creates an empty notification overlay.
func NewNotification() *Notification {
	return &Notification{now: time.Now}
}

// Show displays message for duration, replacing any current message.
func (n *Notification) Show(message string, duration time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = message
	n.start = n.now()
	n.duration = duration
}

// ShowDefault displays a message for 3 seconds.
func (n *Notification) ShowDefault(message string) {
	n.Show(message, 3*time.Second)
}

// ShowShort displays a message for 1 second.
func (n *Notification) ShowShort(message string) {
	n.Show(message, time.Second)
}

// Message returns the visible message, or "".
func (n *Notification) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.message == "" || n.now().Sub(n.start) >= n.duration {
		return ""
	}
	return n.message
}

// IsVisible reports whether a message is on screen.
func (n *Notification) IsVisible() bool {
	return n.Message() != ""
}

// Clear removes the current message.
func (n *Notification) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = ""
}

// Draw renders the visible message.
func (n *Notification) Draw(screen *ebiten.Image) {
	message := n.Message()
	face := notifyFont()
	if message == "" || face == nil {
		return
	}

	tw, th := text.Measure(message, face, 0)
	bgW := int(tw) + notifyPadding*2
	bgH := int(th) + notifyPadding*2
	bounds := screen.Bounds()
	x := bounds.Dx() - bgW - notifyMargin
	y := bounds.Dy() - bgH - notifyMargin

	if n.bg == nil || n.bg.Bounds().Dx() < bgW || n.bg.Bounds().Dy() < bgH {
		n.bg = ebiten.NewImage(bgW, bgH)
	}
	n.bg.Clear()
	n.bg.Fill(notifyBackground)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(n.bg.SubImage(image.Rect(0, 0, bgW, bgH)).(*ebiten.Image), opts)

	textOpts := &text.DrawOptions{}
	textOpts.GeoM.Translate(float64(x+notifyPadding), float64(y+notifyPadding))
	textOpts.ColorScale.ScaleWithColor(notifyText)
	text.Draw(screen, message, face, textOpts)
}
