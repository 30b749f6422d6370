package libretro

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/user-none/retrohost/loader"
)

// SymbolError reports an entry point the core does not export.
type SymbolError struct {
	Symbol    string
	Mandatory bool
	Err       error
}

func (e *SymbolError) Error() string {
	kind := "optional"
	if e.Mandatory {
		kind = "mandatory"
	}
	return fmt.Sprintf("missing %s symbol %s: %v", kind, e.Symbol, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// FunctionTable holds the typed entry points of one loaded core.
type FunctionTable struct {
	init                func()
	deinit              func()
	apiVersion          func() uint32
	getSystemInfo       func(info *systemInfo)
	getSystemAVInfo     func(info *SystemAVInfo)
	loadGame            func(game *gameInfo) bool
	run                 func()
	setVideoRefresh     func(cb uintptr)
	setAudioSample      func(cb uintptr)
	setAudioSampleBatch func(cb uintptr)
	setInputPoll        func(cb uintptr)
	setInputState       func(cb uintptr)
	setEnvironment      func(cb uintptr)
	getMemoryData       func(id uint32) unsafe.Pointer
	getMemorySize       func(id uint32) uintptr
	serializeSize       func() uintptr
	serialize           func(data unsafe.Pointer, size uintptr) bool
	unserialize         func(data unsafe.Pointer, size uintptr) bool

	missing []string

	gamePath   []byte
	gameData   []byte
	gamePinner runtime.Pinner
}

type symbol struct {
	name      string
	fn        any
	mandatory bool
}

func (t *FunctionTable) symbols() []symbol {
	return []symbol{
		{"retro_init", &t.init, true},
		{"retro_deinit", &t.deinit, false},
		{"retro_api_version", &t.apiVersion, true},
		{"retro_get_system_info", &t.getSystemInfo, true},
		{"retro_get_system_av_info", &t.getSystemAVInfo, true},
		{"retro_load_game", &t.loadGame, true},
		{"retro_run", &t.run, true},
		{"retro_set_video_refresh", &t.setVideoRefresh, true},
		{"retro_set_audio_sample", &t.setAudioSample, true},
		{"retro_set_audio_sample_batch", &t.setAudioSampleBatch, true},
		{"retro_set_input_poll", &t.setInputPoll, true},
		{"retro_set_input_state", &t.setInputState, true},
		{"retro_set_environment", &t.setEnvironment, true},
		{"retro_get_memory_data", &t.getMemoryData, false},
		{"retro_get_memory_size", &t.getMemorySize, false},
		{"retro_serialize_size", &t.serializeSize, false},
		{"retro_serialize", &t.serialize, false},
		{"retro_unserialize", &t.unserialize, false},
	}
}

// Bind resolves every entry point of the core behind h into a new table.
// A missing mandatory symbol fails the whole bind; missing optional ones
// are recorded and reported by Missing.
func Bind(l loader.Loader, h loader.Handle) (*FunctionTable, error) {
	t := &FunctionTable{}
	for _, s := range t.symbols() {
		ptr, err := l.Resolve(h, s.name)
		if err != nil {
			if s.mandatory {
				return nil, &SymbolError{Symbol: s.name, Mandatory: true, Err: err}
			}
			t.missing = append(t.missing, s.name)
			continue
		}
		purego.RegisterFunc(s.fn, ptr)
	}

	// Memory access needs both halves.
	if t.getMemoryData == nil || t.getMemorySize == nil {
		t.getMemoryData, t.getMemorySize = nil, nil
	}
	return t, nil
}

// Missing lists the optional symbols the core does not export.
func (t *FunctionTable) Missing() []string {
	return t.missing
}

func (t *FunctionTable) Init() {
	t.init()
}

func (t *FunctionTable) Deinit() {
	if t.deinit != nil {
		t.deinit()
	}
}

func (t *FunctionTable) APIVersion() uint32 {
	return t.apiVersion()
}

func (t *FunctionTable) SystemInfo() SystemInfo {
	var raw systemInfo
	t.getSystemInfo(&raw)
	return SystemInfo{
		LibraryName:     GoString(raw.libraryName),
		LibraryVersion:  GoString(raw.libraryVersion),
		ValidExtensions: GoString(raw.validExtensions),
		NeedFullPath:    raw.needFullPath,
		BlockExtract:    raw.blockExtract,
	}
}

func (t *FunctionTable) SystemAVInfo() SystemAVInfo {
	var info SystemAVInfo
	t.getSystemAVInfo(&info)
	return info
}

func (t *FunctionTable) SetCallbacks(cb Callbacks) {
	if cb == nil {
		detach()
		return
	}
	p := attach(cb)
	t.setEnvironment(p.environment)
	t.setVideoRefresh(p.videoRefresh)
	t.setAudioSample(p.audioSample)
	t.setAudioSampleBatch(p.audioSampleBatch)
	t.setInputPoll(p.inputPoll)
	t.setInputState(p.inputState)
}

func (t *FunctionTable) LoadGame(path string, data []byte) bool {
	t.ReleaseGame()

	t.gamePath = append([]byte(path), 0)
	t.gamePinner.Pin(&t.gamePath[0])
	game := gameInfo{path: &t.gamePath[0]}

	if len(data) > 0 {
		t.gameData = data
		t.gamePinner.Pin(&t.gameData[0])
		game.data = unsafe.Pointer(&t.gameData[0])
		game.size = uintptr(len(t.gameData))
	}
	return t.loadGame(&game)
}

func (t *FunctionTable) ReleaseGame() {
	t.gamePinner.Unpin()
	t.gamePath = nil
	t.gameData = nil
}

func (t *FunctionTable) Run() {
	t.run()
}

func (t *FunctionTable) Memory(id uint32) []byte {
	if t.getMemoryData == nil {
		return nil
	}
	size := t.getMemorySize(id)
	ptr := t.getMemoryData(id)
	if ptr == nil || size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

func (t *FunctionTable) SerializeSize() int {
	if t.serializeSize == nil {
		return 0
	}
	return int(t.serializeSize())
}

func (t *FunctionTable) Serialize(buf []byte) bool {
	if t.serialize == nil || len(buf) == 0 {
		return false
	}
	return t.serialize(unsafe.Pointer(&buf[0]), uintptr(len(buf)))
}

func (t *FunctionTable) Unserialize(buf []byte) bool {
	if t.unserialize == nil || len(buf) == 0 {
		return false
	}
	return t.unserialize(unsafe.Pointer(&buf[0]), uintptr(len(buf)))
}
