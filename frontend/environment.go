package frontend

import (
	"os"
	"path/filepath"
	"unsafe"

	hostapi "github.com/user-none/retrohost/api"
	"github.com/user-none/retrohost/libretro"
)

// defaultPixelFormat is assumed until the core sets one.
const defaultPixelFormat = hostapi.PixelFormatRGB565

// Negotiator answers the environment commands a core issues while loading
// and running. Strings it lends to the core live in its StringCache.
type Negotiator struct {
	log       hostapi.Logger
	format    hostapi.PixelFormat
	saveDir   string
	systemDir string
	variable  func(key string) (string, bool)
	strings   *libretro.StringCache
	declared  []libretro.VariableDecl
	declined  map[uint32]bool
}

// NewNegotiator creates a negotiator. variable answers GET_VARIABLE.
func NewNegotiator(log hostapi.Logger, saveDir, systemDir string, variable func(key string) (string, bool)) *Negotiator {
	return &Negotiator{
		log:       log,
		format:    defaultPixelFormat,
		saveDir:   saveDir,
		systemDir: systemDir,
		variable:  variable,
		strings:   libretro.NewStringCache(),
		declined:  make(map[uint32]bool),
	}
}

// PixelFormat returns the format the core last selected.
func (n *Negotiator) PixelFormat() hostapi.PixelFormat {
	return n.format
}

// Declared returns the options the core declared with SET_VARIABLES.
func (n *Negotiator) Declared() []libretro.VariableDecl {
	return n.declared
}

// Release frees every string lent to the core and resets negotiated state.
func (n *Negotiator) Release() {
	n.strings.Release()
	n.format = defaultPixelFormat
	n.declared = nil
	clear(n.declined)
}

// Environment handles one command. It reports whether the command was
// understood and answered.
func (n *Negotiator) Environment(cmd uint32, data unsafe.Pointer) bool {
	switch cmd {
	case libretro.EnvironmentSetPixelFormat:
		if data == nil {
			return false
		}
		f := hostapi.PixelFormat(*(*int32)(data))
		if !f.Valid() {
			n.log.Printf("Warning: core requested unknown pixel format %d", f)
			return false
		}
		n.format = f
		return true

	case libretro.EnvironmentGetSaveDirectory:
		return n.lendDirectory(data, "save", n.saveDir)

	case libretro.EnvironmentGetSystemDirectory:
		return n.lendDirectory(data, "system", n.systemDir)

	case libretro.EnvironmentGetCanDupe:
		if data == nil {
			return false
		}
		*(*bool)(data) = true
		return true

	case libretro.EnvironmentSetSupportNoGame:
		return true

	case libretro.EnvironmentGetVariable:
		if data == nil {
			return false
		}
		v := (*libretro.Variable)(data)
		key := libretro.GoString(v.Key)
		value, ok := "", false
		if key != "" && n.variable != nil {
			value, ok = n.variable(key)
		}
		if !ok {
			v.Value = nil
			return false
		}
		v.Value = n.strings.Put("var:"+key, value)
		return true

	case libretro.EnvironmentSetVariables:
		n.declared = libretro.ReadVariableDecls(data)
		return true

	case libretro.EnvironmentGetVariableUpdate:
		if data == nil {
			return false
		}
		*(*bool)(data) = false
		return true

	case libretro.EnvironmentGetLogInterface:
		return false

	default:
		if !n.declined[cmd] {
			n.declined[cmd] = true
			n.log.Printf("Declined environment command %d (%s)", cmd, libretro.CommandName(cmd))
		}
		return false
	}
}

// lendDirectory creates dir if needed and writes a borrowed pointer to its
// absolute path into data.
func (n *Negotiator) lendDirectory(data unsafe.Pointer, name, dir string) bool {
	if data == nil || dir == "" {
		return false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		n.log.Printf("Warning: failed to resolve %s directory %s: %v", name, dir, err)
		return false
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		n.log.Printf("Warning: failed to create %s directory %s: %v", name, abs, err)
		return false
	}
	*(**byte)(data) = n.strings.Put("dir:"+name, abs)
	return true
}
