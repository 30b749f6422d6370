// Package libretro binds a native libretro core: its exported entry points,
// the structures they exchange and the callbacks the core calls back into.
package libretro

import (
	"strings"
	"unsafe"
)

// APIVersion is the libretro API version this frontend implements.
const APIVersion = 1

// Environment command codes.
const (
	EnvironmentGetCanDupe          = 3
	EnvironmentSetMessage          = 6
	EnvironmentShutdown            = 7
	EnvironmentGetSystemDirectory  = 9
	EnvironmentSetPixelFormat      = 10
	EnvironmentSetInputDescriptors = 11
	EnvironmentGetVariable         = 15
	EnvironmentSetVariables        = 16
	EnvironmentGetVariableUpdate   = 17
	EnvironmentSetSupportNoGame    = 18
	EnvironmentGetLogInterface     = 27
	EnvironmentGetSaveDirectory    = 31
	EnvironmentSetGeometry         = 37

	// EnvironmentExperimental is OR'ed into commands that are not yet
	// part of the stable API.
	EnvironmentExperimental = 0x10000
)

var commandNames = map[uint32]string{
	EnvironmentGetCanDupe:          "GET_CAN_DUPE",
	EnvironmentSetMessage:          "SET_MESSAGE",
	EnvironmentShutdown:            "SHUTDOWN",
	EnvironmentGetSystemDirectory:  "GET_SYSTEM_DIRECTORY",
	EnvironmentSetPixelFormat:      "SET_PIXEL_FORMAT",
	EnvironmentSetInputDescriptors: "SET_INPUT_DESCRIPTORS",
	EnvironmentGetVariable:         "GET_VARIABLE",
	EnvironmentSetVariables:        "SET_VARIABLES",
	EnvironmentGetVariableUpdate:   "GET_VARIABLE_UPDATE",
	EnvironmentSetSupportNoGame:    "SET_SUPPORT_NO_GAME",
	EnvironmentGetLogInterface:     "GET_LOG_INTERFACE",
	EnvironmentGetSaveDirectory:    "GET_SAVE_DIRECTORY",
	EnvironmentSetGeometry:         "SET_GEOMETRY",
}

// CommandName returns a readable name for an environment command, used
// when logging commands the frontend declines.
func CommandName(cmd uint32) string {
	if name, ok := commandNames[cmd&^EnvironmentExperimental]; ok {
		return name
	}
	return "UNKNOWN"
}

// Input device classes.
const (
	DeviceNone   = 0
	DeviceJoypad = 1
)

// Libretro joypad button IDs.
const (
	JoypadB      = 0
	JoypadY      = 1
	JoypadSelect = 2
	JoypadStart  = 3
	JoypadUp     = 4
	JoypadDown   = 5
	JoypadLeft   = 6
	JoypadRight  = 7
	JoypadA      = 8
	JoypadX      = 9
	JoypadL      = 10
	JoypadR      = 11
	JoypadL2     = 12
	JoypadR2     = 13
	JoypadL3     = 14
	JoypadR3     = 15
)

// Memory region IDs for retro_get_memory_data/size.
const (
	MemorySaveRAM   = 0
	MemoryRTC       = 1
	MemorySystemRAM = 2
	MemoryVideoRAM  = 3
)

// systemInfo mirrors struct retro_system_info. The strings are owned by
// the core.
type systemInfo struct {
	libraryName     *byte
	libraryVersion  *byte
	validExtensions *byte
	needFullPath    bool
	blockExtract    bool
}

// SystemInfo describes a core.
type SystemInfo struct {
	LibraryName     string
	LibraryVersion  string
	ValidExtensions string // "|" separated, without dots
	NeedFullPath    bool   // core reads the ROM from disk itself
	BlockExtract    bool   // core wants archives passed through untouched
}

// Extensions returns the valid extensions as lower-case ".ext" strings.
func (i SystemInfo) Extensions() []string {
	var exts []string
	for _, e := range strings.Split(i.ValidExtensions, "|") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		exts = append(exts, "."+e)
	}
	return exts
}

// GameGeometry mirrors struct retro_game_geometry.
type GameGeometry struct {
	BaseWidth   uint32
	BaseHeight  uint32
	MaxWidth    uint32
	MaxHeight   uint32
	AspectRatio float32
}

// DisplayAspect returns the aspect ratio to present frames at. Cores may
// report zero or less to mean square pixels.
func (g GameGeometry) DisplayAspect() float64 {
	if g.AspectRatio > 0 {
		return float64(g.AspectRatio)
	}
	if g.BaseHeight == 0 {
		return 1
	}
	return float64(g.BaseWidth) / float64(g.BaseHeight)
}

// SystemTiming mirrors struct retro_system_timing.
type SystemTiming struct {
	FPS        float64
	SampleRate float64
}

// SystemAVInfo mirrors struct retro_system_av_info.
type SystemAVInfo struct {
	Geometry GameGeometry
	Timing   SystemTiming
}

// gameInfo mirrors struct retro_game_info.
type gameInfo struct {
	path *byte
	data unsafe.Pointer
	size uintptr
	meta *byte
}

// Variable mirrors struct retro_variable, used by GET_VARIABLE and
// SET_VARIABLES.
type Variable struct {
	Key   *byte
	Value *byte
}
