package frontend

import (
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	hostapi "github.com/user-none/retrohost/api"
	"github.com/user-none/retrohost/libretro"
)

func newTestNegotiator(t *testing.T) (*Negotiator, *logRecorder, string) {
	t.Helper()
	dir := t.TempDir()
	log := &logRecorder{}
	vars := map[string]string{"snes9x_region": "pal"}
	n := NewNegotiator(log, filepath.Join(dir, "saves"), filepath.Join(dir, "system"), func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
	t.Cleanup(n.Release)
	return n, log, dir
}

func TestNegotiatorPixelFormat(t *testing.T) {
	n, log, _ := newTestNegotiator(t)

	if n.PixelFormat() != hostapi.PixelFormatRGB565 {
		t.Fatalf("default format = %v, want RGB565", n.PixelFormat())
	}

	format := int32(hostapi.PixelFormatXRGB8888)
	if !n.Environment(libretro.EnvironmentSetPixelFormat, unsafe.Pointer(&format)) {
		t.Fatal("SET_PIXEL_FORMAT XRGB8888 declined")
	}
	if n.PixelFormat() != hostapi.PixelFormatXRGB8888 {
		t.Errorf("format = %v, want XRGB8888", n.PixelFormat())
	}

	bad := int32(7)
	if n.Environment(libretro.EnvironmentSetPixelFormat, unsafe.Pointer(&bad)) {
		t.Error("unknown pixel format accepted")
	}
	if n.PixelFormat() != hostapi.PixelFormatXRGB8888 {
		t.Errorf("rejected format changed state to %v", n.PixelFormat())
	}
	if log.count("unknown pixel format") != 1 {
		t.Errorf("expected a warning, got %v", log.lines)
	}

	if n.Environment(libretro.EnvironmentSetPixelFormat, nil) {
		t.Error("nil data accepted")
	}

	n.Release()
	if n.PixelFormat() != hostapi.PixelFormatRGB565 {
		t.Errorf("Release kept format %v", n.PixelFormat())
	}
}

func TestNegotiatorDirectories(t *testing.T) {
	n, _, dir := newTestNegotiator(t)

	tests := []struct {
		cmd  uint32
		want string
	}{
		{libretro.EnvironmentGetSaveDirectory, filepath.Join(dir, "saves")},
		{libretro.EnvironmentGetSystemDirectory, filepath.Join(dir, "system")},
	}
	for _, tt := range tests {
		var p *byte
		if !n.Environment(tt.cmd, unsafe.Pointer(&p)) {
			t.Fatalf("%s declined", libretro.CommandName(tt.cmd))
		}
		if got := libretro.GoString(p); got != tt.want {
			t.Errorf("%s = %q, want %q", libretro.CommandName(tt.cmd), got, tt.want)
		}
		if info, err := os.Stat(tt.want); err != nil || !info.IsDir() {
			t.Errorf("%s was not created: %v", tt.want, err)
		}
	}

	empty := NewNegotiator(&logRecorder{}, "", "", nil)
	var p *byte
	if empty.Environment(libretro.EnvironmentGetSaveDirectory, unsafe.Pointer(&p)) {
		t.Error("unset save directory should be declined")
	}
}

func TestNegotiatorFlags(t *testing.T) {
	n, _, _ := newTestNegotiator(t)

	var dupe bool
	if !n.Environment(libretro.EnvironmentGetCanDupe, unsafe.Pointer(&dupe)) || !dupe {
		t.Error("GET_CAN_DUPE should answer true")
	}

	updated := true
	if !n.Environment(libretro.EnvironmentGetVariableUpdate, unsafe.Pointer(&updated)) || updated {
		t.Error("GET_VARIABLE_UPDATE should answer false")
	}

	if !n.Environment(libretro.EnvironmentSetSupportNoGame, nil) {
		t.Error("SET_SUPPORT_NO_GAME should be accepted")
	}
	if n.Environment(libretro.EnvironmentGetLogInterface, nil) {
		t.Error("GET_LOG_INTERFACE should be declined")
	}
}

func TestNegotiatorGetVariable(t *testing.T) {
	n, _, _ := newTestNegotiator(t)

	v := libretro.Variable{Key: cstr("snes9x_region")}
	if !n.Environment(libretro.EnvironmentGetVariable, unsafe.Pointer(&v)) {
		t.Fatal("known variable declined")
	}
	if got := libretro.GoString(v.Value); got != "pal" {
		t.Errorf("value = %q, want pal", got)
	}

	unknown := libretro.Variable{Key: cstr("snes9x_frameskip"), Value: cstr("stale")}
	if n.Environment(libretro.EnvironmentGetVariable, unsafe.Pointer(&unknown)) {
		t.Error("unknown variable answered")
	}
	if unknown.Value != nil {
		t.Error("unknown variable should clear the value")
	}

	var noKey libretro.Variable
	if n.Environment(libretro.EnvironmentGetVariable, unsafe.Pointer(&noKey)) {
		t.Error("variable without key answered")
	}
}

func TestNegotiatorSetVariables(t *testing.T) {
	n, _, _ := newTestNegotiator(t)

	vars := []libretro.Variable{
		{Key: cstr("snes9x_region"), Value: cstr("Console region; auto|ntsc|pal")},
		{Key: cstr("snes9x_frameskip"), Value: cstr("Frameskip; disabled|auto")},
		{},
	}
	if !n.Environment(libretro.EnvironmentSetVariables, unsafe.Pointer(&vars[0])) {
		t.Fatal("SET_VARIABLES declined")
	}

	declared := n.Declared()
	if len(declared) != 2 {
		t.Fatalf("declared %d variables, want 2", len(declared))
	}
	if declared[0].Key != "snes9x_region" || declared[0].Description != "Console region" || declared[0].Default() != "auto" {
		t.Errorf("first declaration = %+v", declared[0])
	}
	if declared[1].Key != "snes9x_frameskip" || len(declared[1].Values) != 2 {
		t.Errorf("second declaration = %+v", declared[1])
	}
}

func TestNegotiatorLogsUnknownCommandsOnce(t *testing.T) {
	n, log, _ := newTestNegotiator(t)

	for i := 0; i < 3; i++ {
		if n.Environment(libretro.EnvironmentSetGeometry, nil) {
			t.Fatal("SET_GEOMETRY should be declined")
		}
	}
	if n.Environment(libretro.EnvironmentExperimental|libretro.EnvironmentGetSystemDirectory, nil) {
		t.Error("experimental commands should be declined")
	}

	if got := log.count("SET_GEOMETRY"); got != 1 {
		t.Errorf("SET_GEOMETRY logged %d times, want 1", got)
	}
	if got := log.count("GET_SYSTEM_DIRECTORY"); got != 1 {
		t.Errorf("experimental command logged %d times, want 1", got)
	}
}
