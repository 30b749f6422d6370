package romloader

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var snesExtensions = []string{".sfc", ".smc"}

type archiveFile struct {
	name string
	data []byte
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func writeZip(t *testing.T, name string, files ...archiveFile) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.Create(f.name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", f.name, err)
		}
		fw.Write(f.data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return writeFile(t, name, buf.Bytes())
}

func writeTarGz(t *testing.T, name string, files ...archiveFile) string {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	tw.WriteHeader(&tar.Header{Name: "roms/", Typeflag: tar.TypeDir, Mode: 0755})
	for _, f := range files {
		hdr := &tar.Header{Name: f.name, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(f.data))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("Failed to write tar header: %v", err)
		}
		tw.Write(f.data)
	}
	tw.Close()
	gw.Close()
	return writeFile(t, name, buf.Bytes())
}

func gzipBytes(data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func TestLoad_Raw(t *testing.T) {
	rom := []byte{0x01, 0x02, 0x03, 0x04}

	tests := []struct {
		name string
		file string
		exts []string
	}{
		{"listed extension", "game.sfc", snesExtensions},
		{"upper case extension", "GAME.SMC", snesExtensions},
		{"unlisted extension", "game.bin", snesExtensions},
		{"no extensions", "game.gba", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.file, rom)
			data, name, err := Load(path, tc.exts)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !bytes.Equal(data, rom) {
				t.Errorf("Data mismatch: expected %v, got %v", rom, data)
			}
			if name != tc.file {
				t.Errorf("Name mismatch: expected %s, got %s", tc.file, name)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.sfc", nil)

	data, _, err := Load(path, snesExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected empty data, got %d bytes", len(data))
	}
}

func TestLoad_Zip(t *testing.T) {
	rom := []byte{0xAA, 0xBB, 0xCC}
	path := writeZip(t, "pack.zip",
		archiveFile{"readme.txt", []byte("hello")},
		archiveFile{"roms/usa/Game (USA).sfc", rom},
		archiveFile{"second.sfc", []byte{0xFF}},
	)

	data, name, err := Load(path, snesExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(data, rom) {
		t.Errorf("Expected first matching entry, got %v", data)
	}
	if name != "Game (USA).sfc" {
		t.Errorf("Name should be the entry base name, got %s", name)
	}
}

func TestLoad_ZipNoExtensionsTakesFirstFile(t *testing.T) {
	path := writeZip(t, "pack.zip",
		archiveFile{"a.bin", []byte{1}},
		archiveFile{"b.bin", []byte{2}},
	)

	data, name, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if name != "a.bin" || !bytes.Equal(data, []byte{1}) {
		t.Errorf("Expected a.bin, got %s %v", name, data)
	}
}

func TestLoad_ZipHandledByCore(t *testing.T) {
	path := writeZip(t, "arcade.zip", archiveFile{"rom.bin", []byte{1, 2}})
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	data, name, err := Load(path, []string{".zip"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Error("A core that lists .zip should receive the archive itself")
	}
	if name != "arcade.zip" {
		t.Errorf("Name mismatch: got %s", name)
	}
}

func TestLoad_NoROMInArchive(t *testing.T) {
	path := writeZip(t, "pack.zip", archiveFile{"readme.txt", []byte("hello")})

	_, _, err := Load(path, snesExtensions)
	if !errors.Is(err, ErrNoROMFile) {
		t.Errorf("Expected ErrNoROMFile, got %v", err)
	}
}

func TestLoad_Gzip(t *testing.T) {
	rom := []byte{0x11, 0x22, 0x33}
	path := writeFile(t, "game.sfc.gz", gzipBytes(rom))

	data, name, err := Load(path, snesExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(data, rom) {
		t.Errorf("Data mismatch: expected %v, got %v", rom, data)
	}
	if name != "game.sfc" {
		t.Errorf("Name should drop .gz, got %s", name)
	}
}

func TestLoad_TarGz(t *testing.T) {
	rom := []byte{0x44, 0x55}
	for _, file := range []string{"pack.tar.gz", "pack.tgz"} {
		t.Run(file, func(t *testing.T) {
			path := writeTarGz(t, file,
				archiveFile{"roms/notes.txt", []byte("x")},
				archiveFile{"roms/game.smc", rom},
			)

			data, name, err := Load(path, snesExtensions)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !bytes.Equal(data, rom) || name != "game.smc" {
				t.Errorf("Expected game.smc %v, got %s %v", rom, name, data)
			}
		})
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	path := writeFile(t, "large.sfc.gz", gzipBytes(make([]byte, maxROMSize+1)))

	_, _, err := Load(path, snesExtensions)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, _, err := Load("/nonexistent/path/game.sfc", snesExtensions)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestLoad_CorruptArchives(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"fake.7z", append(append([]byte{}, magic7z...), []byte("invalid")...)},
		{"fake.rar", append(append([]byte{}, magicRAR...), []byte("invalid")...)},
		{"fake.zip", append(append([]byte{}, magicZIP...), []byte("invalid")...)},
		{"fake.tar.gz", []byte("not gzip")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// rardecode may panic on some corrupt input
			defer func() {
				if r := recover(); r != nil {
					t.Logf("Library panicked on corrupt archive: %v", r)
				}
			}()

			path := writeFile(t, tc.name, tc.data)
			if _, _, err := Load(path, snesExtensions); err == nil {
				t.Error("Expected error for corrupt archive")
			}
		})
	}
}

func TestReadRaw(t *testing.T) {
	zipped := writeZip(t, "pack.zip", archiveFile{"game.sfc", []byte{1}})
	raw, _ := os.ReadFile(zipped)

	data, err := ReadRaw(zipped)
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Error("ReadRaw should not unpack archives")
	}

	if _, err := ReadRaw(filepath.Join(t.TempDir(), "missing.sfc")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		header   []byte
		path     string
		exts     []string
		expected formatType
	}{
		{magicZIP, "file.dat", snesExtensions, formatZIP},
		{magicZIPEnd, "file.dat", snesExtensions, formatZIP},
		{magic7z, "file.dat", snesExtensions, format7z},
		{magicGzip, "file.dat", snesExtensions, formatGzip},
		{magicGzip, "file.tar.gz", snesExtensions, formatTarGz},
		{magicRAR, "file.dat", snesExtensions, formatRAR},
		{nil, "game.sfc", snesExtensions, formatRaw},
		{nil, "game.zip", snesExtensions, formatZIP},
		{nil, "game.ZIP", snesExtensions, formatZIP},
		{nil, "game.7z", snesExtensions, format7z},
		{nil, "game.rar", snesExtensions, formatRAR},
		{nil, "game.RAR", snesExtensions, formatRAR},
		{nil, "game.gz", snesExtensions, formatGzip},
		{nil, "game.tgz", snesExtensions, formatTarGz},
		{nil, "game.unknown", snesExtensions, formatRaw},
		{magicZIP, "game.zip", []string{".zip"}, formatRaw},
		{magicZIP, "game.sfc", snesExtensions, formatRaw},
	}

	for _, tc := range tests {
		result := detectFormat(tc.header, tc.path, tc.exts)
		if result != tc.expected {
			t.Errorf("detectFormat(%v, %s): expected %s, got %s", tc.header, tc.path, tc.expected, result)
		}
	}
}

func TestIsROMFile(t *testing.T) {
	tests := []struct {
		name     string
		exts     []string
		expected bool
	}{
		{"game.sfc", snesExtensions, true},
		{"game.SMC", snesExtensions, true},
		{"game.sfc.bak", snesExtensions, false},
		{"game", snesExtensions, false},
		{".sfc", snesExtensions, true},
		{"readme.txt", nil, true},
	}

	for _, tc := range tests {
		if got := isROMFile(tc.name, tc.exts); got != tc.expected {
			t.Errorf("isROMFile(%q, %v): expected %v, got %v", tc.name, tc.exts, tc.expected, got)
		}
	}
}

func TestFormatTypeString(t *testing.T) {
	if formatTarGz.String() != "tar.gz" {
		t.Errorf("got %s", formatTarGz)
	}
	if formatType(99).String() != "format(99)" {
		t.Errorf("got %s", formatType(99))
	}
}
