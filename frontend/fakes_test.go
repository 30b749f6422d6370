package frontend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	hostapi "github.com/user-none/retrohost/api"
	"github.com/user-none/retrohost/libretro"
	"github.com/user-none/retrohost/loader"
)

func cstr(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

type logRecorder struct {
	lines []string
}

func (l *logRecorder) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *logRecorder) count(sub string) int {
	n := 0
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			n++
		}
	}
	return n
}

// fakeCore records the calls made on it. run is invoked with the attached
// callbacks on every Run.
type fakeCore struct {
	calls []string
	cb    libretro.Callbacks

	info   libretro.SystemInfo
	av     libretro.SystemAVInfo
	loadOK bool

	gamePath string
	gameData []byte

	sram         []byte
	state        []byte
	serializeOK  bool
	unserialized []byte

	run func(cb libretro.Callbacks)
}

func newFakeCore() *fakeCore {
	return &fakeCore{
		info: libretro.SystemInfo{
			LibraryName:     "Fake",
			LibraryVersion:  "1.0",
			ValidExtensions: "sfc|smc",
		},
		av: libretro.SystemAVInfo{
			Geometry: libretro.GameGeometry{BaseWidth: 256, BaseHeight: 224, AspectRatio: 4.0 / 3.0},
			Timing:   libretro.SystemTiming{FPS: 60.098, SampleRate: 32040},
		},
		loadOK:      true,
		serializeOK: true,
	}
}

func (c *fakeCore) Init()                           { c.calls = append(c.calls, "init") }
func (c *fakeCore) Deinit()                         { c.calls = append(c.calls, "deinit") }
func (c *fakeCore) APIVersion() uint32              { return libretro.APIVersion }
func (c *fakeCore) SystemInfo() libretro.SystemInfo { return c.info }
func (c *fakeCore) SystemAVInfo() libretro.SystemAVInfo {
	return c.av
}

func (c *fakeCore) SetCallbacks(cb libretro.Callbacks) {
	if cb == nil {
		c.calls = append(c.calls, "detach")
	} else {
		c.calls = append(c.calls, "attach")
	}
	c.cb = cb
}

func (c *fakeCore) LoadGame(path string, data []byte) bool {
	c.calls = append(c.calls, "load_game")
	c.gamePath = path
	c.gameData = data
	return c.loadOK
}

func (c *fakeCore) ReleaseGame() { c.calls = append(c.calls, "release_game") }

func (c *fakeCore) Run() {
	c.calls = append(c.calls, "run")
	if c.run != nil {
		c.run(c.cb)
	}
}

func (c *fakeCore) Memory(id uint32) []byte {
	if id == libretro.MemorySaveRAM {
		return c.sram
	}
	return nil
}

func (c *fakeCore) SerializeSize() int { return len(c.state) }

func (c *fakeCore) Serialize(buf []byte) bool {
	copy(buf, c.state)
	return c.serializeOK
}

func (c *fakeCore) Unserialize(buf []byte) bool {
	c.unserialized = append([]byte(nil), buf...)
	if !c.serializeOK {
		return false
	}
	c.state = append(c.state[:0:0], buf...)
	return true
}

func (c *fakeCore) called(name string) bool {
	for _, n := range c.calls {
		if n == name {
			return true
		}
	}
	return false
}

// fakeLoader hands out increasing handles without touching the filesystem
// beyond an existence check.
type fakeLoader struct {
	next    loader.Handle
	opened  []string
	closed  []loader.Handle
	openErr error
}

func (l *fakeLoader) Open(path string) (loader.Handle, error) {
	if l.openErr != nil {
		return 0, l.openErr
	}
	l.next++
	l.opened = append(l.opened, path)
	return l.next, nil
}

func (l *fakeLoader) Resolve(h loader.Handle, symbol string) (uintptr, error) {
	return 0, &loader.LoadError{Op: "resolve", Symbol: symbol, Err: loader.ErrSymbolNotFound}
}

func (l *fakeLoader) Close(h loader.Handle) error {
	l.closed = append(l.closed, h)
	return nil
}

func (l *fakeLoader) Extension() string { return ".so" }

type videoRecorder struct {
	frames int
	last   []byte
	width  int
	height int
	format hostapi.PixelFormat
}

func (v *videoRecorder) Frame(pixels []byte, width, height int, format hostapi.PixelFormat) {
	v.frames++
	v.last = append(v.last[:0], pixels...)
	v.width, v.height, v.format = width, height, format
}

type audioRecorder struct {
	rate      float64
	frames    []hostapi.StereoFrame
	available int
	paused    []bool
}

func newAudioRecorder() *audioRecorder {
	return &audioRecorder{available: 1 << 16}
}

func (a *audioRecorder) SetSampleRate(rate float64)          { a.rate = rate }
func (a *audioRecorder) PushFrame(f hostapi.StereoFrame)     { a.frames = append(a.frames, f) }
func (a *audioRecorder) PushFrames(fs []hostapi.StereoFrame) { a.frames = append(a.frames, fs...) }
func (a *audioRecorder) FramesAvailable() int                { return a.available }
func (a *audioRecorder) SetPaused(paused bool)               { a.paused = append(a.paused, paused) }

type fakeInput struct {
	actions []string
	pressed map[string]bool
}

func (f *fakeInput) Actions() []string                  { return f.actions }
func (f *fakeInput) IsActionPressed(action string) bool { return f.pressed[action] }

// mapStore is a ConfigStore backed by maps.
type mapStore struct {
	cores    map[string]string
	romCores map[string]string
	settings map[string]map[hostapi.Setting]any
}

func (s *mapStore) CorePath(coreID string) string {
	return s.cores[coreID]
}

func (s *mapStore) CoreForRom(romPath string) (string, string) {
	id := s.romCores[romPath]
	if id == "" {
		return "", ""
	}
	return id, s.cores[id]
}

func (s *mapStore) CoreSetting(coreID string, setting hostapi.Setting) (any, bool) {
	v, ok := s.settings[coreID][setting]
	return v, ok
}

func touch(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// sessionFixture is a session wired entirely to fakes.
type sessionFixture struct {
	session *Session
	core    *fakeCore
	loader  *fakeLoader
	video   *videoRecorder
	audio   *audioRecorder
	input   *fakeInput
	log     *logRecorder
	bindErr error
	readErr error
	dir     string
	rom     string
	lib     string
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	dir := t.TempDir()
	f := &sessionFixture{
		core:   newFakeCore(),
		loader: &fakeLoader{},
		video:  &videoRecorder{},
		audio:  newAudioRecorder(),
		input: &fakeInput{
			actions: []string{"snes_a", "snes_b", "snes_start", "snes_up"},
			pressed: map[string]bool{},
		},
		log: &logRecorder{},
		dir: dir,
	}
	f.rom = touch(t, dir, "roms/Game.sfc", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	f.lib = touch(t, dir, "cores/snes9x_libretro.so", []byte("lib"))

	s, err := NewSession(Options{
		Loader: f.loader,
		Bind: func(l loader.Loader, h loader.Handle) (libretro.Core, error) {
			if f.bindErr != nil {
				return nil, f.bindErr
			}
			return f.core, nil
		},
		ReadROM: func(path string, info libretro.SystemInfo) ([]byte, error) {
			if f.readErr != nil {
				return nil, f.readErr
			}
			return readROM(path, info)
		},
		Config: &mapStore{
			cores: map[string]string{"snes9x": f.lib},
			settings: map[string]map[hostapi.Setting]any{
				"snes9x": {hostapi.SettingRegion: "Europe"},
			},
		},
		Video:     f.video,
		Audio:     f.audio,
		Input:     f.input,
		Log:       f.log,
		SaveDir:   filepath.Join(dir, "saves"),
		SystemDir: filepath.Join(dir, "system"),
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	f.session = s
	return f
}

func (f *sessionFixture) load(t *testing.T) {
	t.Helper()
	if err := f.session.LoadGame(f.rom, "snes9x"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
}

var errFake = errors.New("fake failure")
