package frontend

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestKindForRom(t *testing.T) {
	tests := []struct {
		path   string
		kind   CoreKind
		mapped bool
	}{
		{"/roms/game.gba", CoreGBAMGBA, true},
		{"/roms/game.SFC", CoreSNESSnes9x, true},
		{"game.smc", CoreSNESSnes9x, true},
		{"game.nes", CoreNESFCEUmm, true},
		{"game.gb", CoreGBGambatte, true},
		{"game.gbc", CoreGBCGambatte, true},
		{"game.md", CoreUnknown, false},
		{"game", CoreUnknown, false},
	}
	for _, tt := range tests {
		kind, mapped := KindForRom(tt.path)
		if kind != tt.kind || mapped != tt.mapped {
			t.Errorf("KindForRom(%q) = %v, %v, want %v, %v", tt.path, kind, mapped, tt.kind, tt.mapped)
		}
	}
}

func TestCoreKindNames(t *testing.T) {
	tests := []struct {
		kind    CoreKind
		name    string
		profile string
	}{
		{CoreGBAMGBA, "GBA_MGBA", "gba"},
		{CoreGBAVBAM, "GBA_VBAM", "gba"},
		{CoreSNESSnes9x, "SNES_SNES9X", "snes"},
		{CoreNESFCEUmm, "NES_FCEUMM", "nes"},
		{CoreGBGambatte, "GB_GAMBATTE", "gb"},
		{CoreGBCGambatte, "GBC_GAMBATTE", "gbc"},
		{CoreUnknown, "UNKNOWN", ""},
		{CoreKind(42), "UNKNOWN", ""},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.name)
		}
		if got := tt.kind.InputProfile(); got != tt.profile {
			t.Errorf("%s.InputProfile() = %q, want %q", tt.kind, got, tt.profile)
		}
	}
}

func TestCoreKindExtensions(t *testing.T) {
	if got := CoreSNESSnes9x.Extensions(); !slices.Equal(got, []string{".sfc", ".smc"}) {
		t.Errorf("SNES extensions = %v", got)
	}
	if got := CoreGBAVBAM.Extensions(); len(got) != 0 {
		t.Errorf("VBAM is never selected by extension, got %v", got)
	}
}

func TestResolveCore(t *testing.T) {
	dir := t.TempDir()
	snes := touch(t, dir, "snes9x_libretro.so", nil)
	mgba := touch(t, dir, "mgba_libretro.so", nil)
	store := &mapStore{
		cores: map[string]string{
			"snes9x": snes,
			"mgba":   mgba,
			"gone":   filepath.Join(dir, "missing_libretro.so"),
		},
		romCores: map[string]string{"/roms/hack.gba": "mgba"},
	}

	tests := []struct {
		name    string
		rom     string
		coreID  string
		wantID  string
		path    string
		kind    CoreKind
		wantErr error
	}{
		{"by core id", "/roms/a.sfc", "snes9x", "snes9x", snes, CoreSNESSnes9x, nil},
		{"by rom assignment", "/roms/hack.gba", "", "mgba", mgba, CoreGBAMGBA, nil},
		{"missing library falls through", "/roms/hack.gba", "gone", "gone", mgba, CoreGBAMGBA, nil},
		{"extension only", "/roms/a.nes", "", "", "", CoreNESFCEUmm, ErrNoCorePath},
		{"unmapped extension", "/roms/a.xyz", "", "", "", CoreUnknown, ErrUnmappedExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := ResolveCore(store, tt.rom, tt.coreID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if desc.ID != tt.wantID || desc.Path != tt.path || desc.Kind != tt.kind {
				t.Errorf("desc = %+v, want id %q path %q kind %v", desc, tt.wantID, tt.path, tt.kind)
			}
		})
	}
}

func TestResolveCoreNilStore(t *testing.T) {
	desc, err := ResolveCore(nil, "game.gb", "")
	if !errors.Is(err, ErrNoCorePath) {
		t.Fatalf("err = %v, want ErrNoCorePath", err)
	}
	if desc.Kind != CoreGBGambatte {
		t.Errorf("kind = %v, want GB_GAMBATTE", desc.Kind)
	}
	if !slices.Equal(desc.Extensions, []string{".gb"}) {
		t.Errorf("extensions = %v", desc.Extensions)
	}
}
