package frontend

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"
	"unsafe"

	hostapi "github.com/user-none/retrohost/api"
	"github.com/user-none/retrohost/libretro"
	"github.com/user-none/retrohost/loader"
	"github.com/user-none/retrohost/romloader"
)

// State is the lifecycle stage of a session.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateInitialized
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "Unloaded"
	case StateLoaded:
		return "Loaded"
	case StateInitialized:
		return "Initialized"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// BindFunc builds the core for an open library.
type BindFunc func(l loader.Loader, h loader.Handle) (libretro.Core, error)

// ReadROMFunc reads ROM bytes for cores that do not load from disk.
type ReadROMFunc func(path string, info libretro.SystemInfo) ([]byte, error)

// Options configures a Session. Only SaveDir and SystemDir are commonly
// needed; nil collaborators disable their part of the pipeline.
type Options struct {
	Loader    loader.Loader // nil selects the running platform's loader
	Bind      BindFunc      // nil uses libretro.Bind
	ReadROM   ReadROMFunc   // nil uses romloader
	Config    hostapi.ConfigStore
	Video     hostapi.VideoSink
	Audio     hostapi.AudioSink
	Input     hostapi.InputSource
	Log       hostapi.Logger // nil uses the standard logger
	SaveDir   string
	SystemDir string
}

// Session owns the one loaded core: its library handle, bound functions
// and lifecycle state.
type Session struct {
	loader  loader.Loader
	bind    BindFunc
	readROM ReadROMFunc
	config  hostapi.ConfigStore
	audio   hostapi.AudioSink
	input   hostapi.InputSource
	log     hostapi.Logger
	saveDir string

	env     *Negotiator
	pump    *FramePump
	persist *Persistence

	state   State
	handle  loader.Handle
	core    libretro.Core
	romPath string
	coreID  string
	kind    CoreKind
	sysInfo libretro.SystemInfo
	avInfo  libretro.SystemAVInfo

	sinceAutosave time.Duration
}

// NewSession creates an unloaded session. It fails when the running
// platform has no library loader.
func NewSession(opts Options) (*Session, error) {
	l := opts.Loader
	if l == nil {
		var err error
		if l, err = loader.New(); err != nil {
			return nil, err
		}
	}

	s := &Session{
		loader:  l,
		bind:    opts.Bind,
		readROM: opts.ReadROM,
		config:  opts.Config,
		audio:   opts.Audio,
		input:   opts.Input,
		log:     opts.Log,
		saveDir: opts.SaveDir,
	}
	if s.bind == nil {
		s.bind = bindTable
	}
	if s.readROM == nil {
		s.readROM = readROM
	}
	if s.log == nil {
		s.log = log.Default()
	}

	s.env = NewNegotiator(s.log, opts.SaveDir, opts.SystemDir, s.variable)
	s.pump = NewFramePump(s.log, opts.Video, opts.Audio, opts.Input)
	return s, nil
}

func bindTable(l loader.Loader, h loader.Handle) (libretro.Core, error) {
	t, err := libretro.Bind(l, h)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func readROM(path string, info libretro.SystemInfo) ([]byte, error) {
	if info.BlockExtract {
		return romloader.ReadRaw(path)
	}
	data, _, err := romloader.Load(path, info.Extensions())
	return data, err
}

func (s *Session) variable(key string) (string, bool) {
	return TranslateVariable(s.config, s.coreID, key)
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	return s.state
}

// RomPath returns the loaded ROM, or "".
func (s *Session) RomPath() string {
	return s.romPath
}

// CoreKind returns the kind selected by the last core resolution.
func (s *Session) CoreKind() CoreKind {
	return s.kind
}

// SystemInfo returns what the loaded core reported about itself.
func (s *Session) SystemInfo() libretro.SystemInfo {
	return s.sysInfo
}

// AVInfo returns the loaded game's geometry and timing.
func (s *Session) AVInfo() libretro.SystemAVInfo {
	return s.avInfo
}

// Variables returns the options the core declared.
func (s *Session) Variables() []libretro.VariableDecl {
	return s.env.Declared()
}

// Pump exposes the frame pump for frame size and audio statistics.
func (s *Session) Pump() *FramePump {
	return s.pump
}

// SetCoreFromRomPath resolves the core for a ROM and records its kind,
// including when resolution fails for lack of a configured library.
func (s *Session) SetCoreFromRomPath(romPath, coreID string) (CoreDescriptor, error) {
	desc, err := ResolveCore(s.config, romPath, coreID)
	s.kind = desc.Kind
	if err != nil {
		s.log.Printf("Error: core selection for %s failed: %v", romPath, err)
	}
	return desc, err
}

// LoadGame resolves a core for romPath and starts it.
func (s *Session) LoadGame(romPath, coreID string) error {
	desc, err := s.SetCoreFromRomPath(romPath, coreID)
	if err != nil {
		return err
	}
	return s.LoadGameWithCore(romPath, desc.Path, desc.ID)
}

// LoadGameWithCore starts the core library at corePath with romPath. Any
// running session is stopped first. On failure the session is left
// Unloaded.
func (s *Session) LoadGameWithCore(romPath, corePath, coreID string) error {
	if s.pump.InRun() {
		return ErrReentrant
	}
	s.Stop()

	s.kind, _ = KindForRom(romPath)
	s.romPath = romPath
	s.coreID = coreID

	h, err := s.loader.Open(corePath)
	if err != nil {
		s.log.Printf("Error: failed to open core %s: %v", corePath, err)
		s.reset()
		return err
	}
	s.handle = h

	core, err := s.bind(s.loader, h)
	if err != nil {
		s.log.Printf("Error: failed to bind core %s: %v", corePath, err)
		s.Stop()
		return err
	}
	s.core = core
	s.state = StateLoaded

	if v := core.APIVersion(); v != libretro.APIVersion {
		s.log.Printf("Warning: core %s reports API version %d, expected %d", corePath, v, libretro.APIVersion)
	}

	if _, err := os.Stat(romPath); err != nil {
		s.log.Printf("Error: ROM %s not found: %v", romPath, err)
		s.Stop()
		return fmt.Errorf("%w: %s", ErrRomNotFound, romPath)
	}

	core.SetCallbacks(s)
	core.Init()
	s.state = StateInitialized

	s.sysInfo = core.SystemInfo()
	s.log.Printf("Loaded core %s %s (need_fullpath=%v)", s.sysInfo.LibraryName, s.sysInfo.LibraryVersion, s.sysInfo.NeedFullPath)

	var data []byte
	if !s.sysInfo.NeedFullPath {
		if data, err = s.readROM(romPath, s.sysInfo); err != nil {
			s.log.Printf("Error: failed to read ROM %s: %v", romPath, err)
			s.Stop()
			return fmt.Errorf("failed to read ROM %s: %w", romPath, err)
		}
	}

	if !core.LoadGame(romPath, data) {
		s.log.Printf("Error: %s rejected %s", s.sysInfo.LibraryName, romPath)
		s.Stop()
		return fmt.Errorf("%w: %s", ErrLoadGame, romPath)
	}

	s.avInfo = core.SystemAVInfo()
	if s.audio != nil {
		s.audio.SetSampleRate(s.avInfo.Timing.SampleRate)
		s.audio.SetPaused(false)
	}

	var actions []string
	if s.input != nil {
		actions = s.input.Actions()
	}
	s.pump.Attach(core.Run, NewInputMapper(InputProfile(coreID, s.kind), actions))

	s.persist = NewPersistence(core, s.saveDir)
	if n, err := s.persist.LoadSRAM(romPath); err != nil {
		s.log.Printf("Warning: %v", err)
	} else if n > 0 {
		s.log.Printf("Restored %d bytes of SRAM for %s", n, romPath)
	}

	s.sinceAutosave = 0
	s.state = StateRunning
	return nil
}

// Stop tears the session down in order: flush the battery save if a game
// is running, deinit if initialized, unload the library, release the ROM
// buffer and return to Unloaded. Steps whose precondition was never
// reached are skipped.
func (s *Session) Stop() {
	if s.pump.InRun() {
		s.log.Printf("Error: Stop %v", ErrReentrant)
		return
	}
	if s.state == StateUnloaded && s.handle == 0 && s.core == nil {
		return
	}

	if s.state == StateRunning || s.state == StatePaused {
		s.flushSRAM()
	}
	if s.core != nil {
		if s.state >= StateInitialized {
			s.core.Deinit()
		}
		s.core.SetCallbacks(nil)
	}
	if s.handle != 0 {
		if err := s.loader.Close(s.handle); err != nil {
			s.log.Printf("Warning: failed to unload core: %v", err)
		}
	}
	if s.core != nil {
		s.core.ReleaseGame()
	}
	s.reset()
}

func (s *Session) reset() {
	s.env.Release()
	s.pump.Detach()
	if s.audio != nil {
		s.audio.SetPaused(true)
	}
	s.handle = 0
	s.core = nil
	s.persist = nil
	s.romPath = ""
	s.coreID = ""
	s.sysInfo = libretro.SystemInfo{}
	s.avInfo = libretro.SystemAVInfo{}
	s.sinceAutosave = 0
	s.state = StateUnloaded
}

// SetPaused pauses or resumes the game. Pausing flushes the battery save;
// resuming ignores input briefly.
func (s *Session) SetPaused(paused bool) {
	switch {
	case paused && s.state == StateRunning:
		s.state = StatePaused
		s.flushSRAM()
		if s.audio != nil {
			s.audio.SetPaused(true)
		}
	case !paused && s.state == StatePaused:
		s.state = StateRunning
		s.pump.IgnoreInput(ResumeInputDelay)
		if s.audio != nil {
			s.audio.SetPaused(false)
		}
	}
}

// IgnoreInput reports every button as released for d.
func (s *Session) IgnoreInput(d time.Duration) {
	s.pump.IgnoreInput(d)
}

// Tick advances the session by elapsed wall time and returns the number
// of core frames run.
func (s *Session) Tick(elapsed time.Duration) int {
	if s.pump.InRun() {
		s.log.Printf("Error: Tick %v", ErrReentrant)
		return 0
	}
	running := s.state == StateRunning
	n := s.pump.Step(elapsed, running)

	if running {
		s.sinceAutosave += elapsed
		if s.sinceAutosave >= AutosaveInterval {
			s.sinceAutosave = 0
			s.flushSRAM()
		}
	}
	return n
}

// SaveSRAM writes the battery save now.
func (s *Session) SaveSRAM() error {
	if s.persist == nil {
		return ErrNoSession
	}
	_, err := s.persist.SaveSRAM(s.romPath)
	return err
}

// LoadSRAM reloads the battery save from disk into the core.
func (s *Session) LoadSRAM() error {
	if s.persist == nil {
		return ErrNoSession
	}
	_, err := s.persist.LoadSRAM(s.romPath)
	return err
}

func (s *Session) flushSRAM() {
	if s.persist == nil {
		return
	}
	if _, err := s.persist.SaveSRAM(s.romPath); err != nil {
		s.log.Printf("Warning: SRAM save failed: %v", err)
	}
}

// SaveState writes a save state to path.
func (s *Session) SaveState(path string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.persist.SaveState(path); err != nil {
		s.log.Printf("Error: save state %s: %v", path, err)
		return err
	}
	return nil
}

// LoadState restores a save state from path.
func (s *Session) LoadState(path string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.persist.LoadState(path); err != nil {
		s.log.Printf("Error: load state %s: %v", path, err)
		return err
	}
	return nil
}

func (s *Session) ready() error {
	if s.pump.InRun() {
		return ErrReentrant
	}
	if s.persist == nil || (s.state != StateRunning && s.state != StatePaused) {
		return ErrNoSession
	}
	return nil
}

// Session is the libretro.Callbacks attached to its core.
var (
	_ libretro.Callbacks   = (*Session)(nil)
	_ libretro.PanicLogger = (*Session)(nil)
)

func (s *Session) Environment(cmd uint32, data unsafe.Pointer) bool {
	return s.env.Environment(cmd, data)
}

func (s *Session) VideoRefresh(frame []byte, width, height, pitch int) {
	s.pump.VideoRefresh(frame, width, height, pitch, s.env.PixelFormat())
}

func (s *Session) AudioSample(left, right int16) {
	s.pump.AudioSample(left, right)
}

func (s *Session) AudioSampleBatch(samples []int16) int {
	return s.pump.AudioSampleBatch(samples)
}

// CallbackLogger receives panics recovered from the callbacks above.
func (s *Session) CallbackLogger() hostapi.Logger {
	return s.log
}

// InputPoll does nothing; input is read when the core asks for a button.
func (s *Session) InputPoll() {}

func (s *Session) InputState(port, device, index, id uint32) int16 {
	return s.pump.InputState(port, device, index, id)
}

// IsLoadFailure reports whether err came from opening or binding a core.
func IsLoadFailure(err error) bool {
	var le *loader.LoadError
	var se *libretro.SymbolError
	return errors.As(err, &le) || errors.As(err, &se)
}
