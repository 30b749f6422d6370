// Package host runs a libretro session in an ebiten window: frames are
// drawn with ebiten, audio plays through oto and input comes from the
// keyboard and the first gamepad.
package host

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	hostapi "github.com/user-none/retrohost/api"
	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/storage"
)

// AppOptions configures an App.
type AppOptions struct {
	RomPath  string
	CorePath string // explicit core library; "" resolves from Config
	CoreID   string
	Config   *storage.Config
	Log      hostapi.Logger // nil uses the standard logger
}

// App is the ebiten.Game that owns the session and its sinks.
type App struct {
	opts         AppOptions
	log          hostapi.Logger
	session      *frontend.Session
	video        *Video
	audio        *Audio
	input        *Input
	notification *Notification
	slots        *SlotManager

	title string
	last  time.Time
}

// CoreIDFromPath derives a core id from a library file name, so
// "cores/snes9x_libretro.so" gives "snes9x".
func CoreIDFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, "_libretro")
}

// NewApp creates the sinks and an unloaded session. Audio failing to
// start is not fatal; the game runs silent.
func NewApp(opts AppOptions) (*App, error) {
	if opts.Config == nil {
		opts.Config = storage.DefaultConfig()
	}
	a := &App{
		opts:         opts,
		log:          opts.Log,
		video:        NewVideo(),
		input:        NewInput(opts.Config.Input),
		notification: NewNotification(),
	}
	if a.log == nil {
		a.log = log.Default()
	}

	saveDir, err := opts.Config.SavesDir()
	if err != nil {
		return nil, err
	}
	systemDir, err := opts.Config.SystemDir()
	if err != nil {
		return nil, err
	}

	sessOpts := frontend.Options{
		Config:    opts.Config,
		Video:     a.video,
		Input:     a.input,
		Log:       a.log,
		SaveDir:   saveDir,
		SystemDir: systemDir,
	}
	if audio, err := NewAudio(opts.Config.Audio.Volume, opts.Config.Audio.Muted); err != nil {
		a.log.Printf("Warning: audio not available: %v", err)
	} else {
		a.audio = audio
		sessOpts.Audio = audio
	}

	if a.session, err = frontend.NewSession(sessOpts); err != nil {
		a.Close()
		return nil, err
	}
	a.slots = NewSlotManager(a.session, a.notification)
	return a, nil
}

// Session returns the running session.
func (a *App) Session() *frontend.Session {
	return a.session
}

// Load resolves the core for the ROM, selects the matching controller
// layout and starts the game.
func (a *App) Load() error {
	rom := a.opts.RomPath
	coreID := a.opts.CoreID
	corePath := a.opts.CorePath
	kind, _ := frontend.KindForRom(rom)

	if corePath == "" {
		desc, err := a.session.SetCoreFromRomPath(rom, coreID)
		if err != nil {
			return err
		}
		corePath, coreID, kind = desc.Path, desc.ID, desc.Kind
	}
	if coreID == "" {
		coreID = CoreIDFromPath(corePath)
	}

	a.input.SetProfile(frontend.InputProfile(coreID, kind))
	if err := a.session.LoadGameWithCore(rom, corePath, coreID); err != nil {
		return err
	}

	a.video.SetAspect(a.session.AVInfo().Geometry.DisplayAspect())

	stateDir, err := storage.GetGameStateDir(rom)
	if err != nil {
		a.log.Printf("Warning: save states unavailable: %v", err)
	} else {
		a.slots.SetGame(stateDir)
	}

	info := a.session.SystemInfo()
	a.title = fmt.Sprintf("%s - %s", info.LibraryName, storage.GameKey(rom))
	a.last = time.Now()
	return nil
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	a.input.Update()
	a.handleHotkeys()

	now := time.Now()
	elapsed := now.Sub(a.last)
	a.last = now
	a.session.Tick(elapsed)
	return nil
}

func (a *App) handleHotkeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.togglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		if err := a.slots.Save(); err != nil {
			a.log.Printf("Warning: save state failed: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			a.slots.PreviousSlot()
		} else {
			a.slots.NextSlot()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		if err := a.slots.Load(); err != nil {
			a.log.Printf("Warning: load state failed: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		a.screenshot()
	}
}

func (a *App) togglePause() {
	switch a.session.State() {
	case frontend.StateRunning:
		a.session.SetPaused(true)
		a.notification.Show("Paused", time.Hour)
	case frontend.StatePaused:
		a.session.SetPaused(false)
		a.notification.ShowShort("Resumed")
	}
}

func (a *App) screenshot() {
	dir, err := storage.GetGameScreenshotDir(a.opts.RomPath)
	if err != nil {
		a.log.Printf("Warning: screenshot failed: %v", err)
		return
	}
	path, err := SaveScreenshot(a.video.Snapshot(), dir, time.Now())
	if err != nil {
		if !errors.Is(err, ErrNoFrame) {
			a.log.Printf("Warning: screenshot failed: %v", err)
		}
		return
	}
	a.log.Printf("Saved screenshot %s", path)
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.video.Draw(screen)
	a.notification.Draw(screen)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}

// Close stops the session and releases audio. Safe to call more than once.
func (a *App) Close() {
	if a.session != nil {
		a.session.Stop()
	}
	if a.audio != nil {
		a.audio.Close()
		a.audio = nil
	}
}

// saveWindow records the window geometry so the next run opens the same.
func (a *App) saveWindow() {
	w := &a.opts.Config.Window
	w.Fullscreen = ebiten.IsFullscreen()
	if !w.Fullscreen {
		w.Width, w.Height = ebiten.WindowSize()
	}
	if err := storage.SaveConfig(a.opts.Config); err != nil {
		a.log.Printf("Warning: failed to save config: %v", err)
	}
}

// Run loads the game and runs the window until it is closed.
func Run(opts AppOptions) error {
	a, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Load(); err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.RomPath, err)
	}

	cfg := a.opts.Config.Window
	ebiten.SetWindowTitle(a.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)

	err = ebiten.RunGame(a)
	a.saveWindow()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
