package frontend

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	hostapi "github.com/user-none/retrohost/api"
)

// CoreKind identifies a known core family, selected by ROM extension when
// no core was configured explicitly.
type CoreKind int

const (
	CoreUnknown CoreKind = iota
	CoreGBAMGBA
	CoreGBAVBAM
	CoreSNESSnes9x
	CoreNESFCEUmm
	CoreGBGambatte
	CoreGBCGambatte
)

var coreKindNames = map[CoreKind]string{
	CoreUnknown:     "UNKNOWN",
	CoreGBAMGBA:     "GBA_MGBA",
	CoreGBAVBAM:     "GBA_VBAM",
	CoreSNESSnes9x:  "SNES_SNES9X",
	CoreNESFCEUmm:   "NES_FCEUMM",
	CoreGBGambatte:  "GB_GAMBATTE",
	CoreGBCGambatte: "GBC_GAMBATTE",
}

func (k CoreKind) String() string {
	if name, ok := coreKindNames[k]; ok {
		return name
	}
	return coreKindNames[CoreUnknown]
}

// InputProfile returns the action-name prefix used for this kind when the
// core id is not known.
func (k CoreKind) InputProfile() string {
	switch k {
	case CoreGBAMGBA, CoreGBAVBAM:
		return "gba"
	case CoreSNESSnes9x:
		return "snes"
	case CoreNESFCEUmm:
		return "nes"
	case CoreGBGambatte:
		return "gb"
	case CoreGBCGambatte:
		return "gbc"
	default:
		return ""
	}
}

// Extensions returns the ROM extensions associated with this kind.
func (k CoreKind) Extensions() []string {
	var exts []string
	for ext, kind := range extensionKinds {
		if kind == k {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return exts
}

// extensionKinds is the fallback used when the configuration has no entry
// for a ROM.
var extensionKinds = map[string]CoreKind{
	".gba": CoreGBAMGBA,
	".sfc": CoreSNESSnes9x,
	".smc": CoreSNESSnes9x,
	".nes": CoreNESFCEUmm,
	".gb":  CoreGBGambatte,
	".gbc": CoreGBCGambatte,
}

// KindForRom returns the core kind mapped to the ROM's extension.
func KindForRom(romPath string) (CoreKind, bool) {
	kind, ok := extensionKinds[strings.ToLower(filepath.Ext(romPath))]
	return kind, ok
}

// CoreDescriptor identifies the core library to run a ROM with.
type CoreDescriptor struct {
	ID         string
	Path       string
	Kind       CoreKind
	Extensions []string
}

// ResolveCore picks the core for a ROM: the library configured for coreID,
// then the library configured for the ROM itself, then the core kind mapped
// to the ROM's extension. The extension fallback only names a kind, so it
// returns the descriptor together with ErrNoCorePath.
func ResolveCore(store hostapi.ConfigStore, romPath, coreID string) (CoreDescriptor, error) {
	kind, mapped := KindForRom(romPath)
	desc := CoreDescriptor{ID: coreID, Kind: kind, Extensions: kind.Extensions()}

	if store != nil {
		if coreID != "" {
			if path := store.CorePath(coreID); fileExists(path) {
				desc.Path = path
				return desc, nil
			}
		}
		if id, path := store.CoreForRom(romPath); fileExists(path) {
			if desc.ID == "" {
				desc.ID = id
			}
			desc.Path = path
			return desc, nil
		}
	}

	if !mapped {
		return CoreDescriptor{ID: coreID}, fmt.Errorf("%w: %q (%s)", ErrUnmappedExtension, filepath.Ext(romPath), romPath)
	}
	return desc, fmt.Errorf("%w: %s selected for %s", ErrNoCorePath, kind, romPath)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
