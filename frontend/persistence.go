package frontend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/user-none/retrohost/libretro"
	"github.com/user-none/retrohost/storage"
)

// AutosaveInterval is how often battery saves are flushed while running.
const AutosaveInterval = 5 * time.Second

// sidecarTimeFormat is a sortable local timestamp.
const sidecarTimeFormat = "2006-01-02T15:04:05"

// SRAMRecord is the sidecar written next to each battery save.
type SRAMRecord struct {
	GameName  string `json:"game_name"`
	RomPath   string `json:"rom_path"`
	Timestamp string `json:"timestamp"`
}

// Persistence reads and writes battery saves and save states for a core.
type Persistence struct {
	core    libretro.Core
	saveDir string
	now     func() time.Time
}

// NewPersistence creates a persistence manager storing battery saves in
// saveDir.
func NewPersistence(core libretro.Core, saveDir string) *Persistence {
	return &Persistence{core: core, saveDir: saveDir, now: time.Now}
}

// SRAMPaths returns the battery save and sidecar paths for a ROM.
func (p *Persistence) SRAMPaths(romPath string) (sram, sidecar string) {
	base := filepath.Join(p.saveDir, storage.GameKey(romPath))
	return base + ".srm", base + ".json"
}

// SaveSRAM writes the core's battery save for romPath. It reports false
// without error when the core has no battery save.
func (p *Persistence) SaveSRAM(romPath string) (bool, error) {
	mem := p.core.Memory(libretro.MemorySaveRAM)
	if len(mem) == 0 {
		return false, nil
	}
	data := make([]byte, len(mem))
	copy(data, mem)

	sramPath, sidecarPath := p.SRAMPaths(romPath)
	if err := storage.AtomicWriteFile(sramPath, data); err != nil {
		return false, fmt.Errorf("failed to write SRAM %s: %w", sramPath, err)
	}

	record := SRAMRecord{
		GameName:  storage.GameKey(romPath),
		RomPath:   romPath,
		Timestamp: p.now().Format(sidecarTimeFormat),
	}
	if err := storage.AtomicWriteJSON(sidecarPath, record); err != nil {
		return true, fmt.Errorf("failed to write SRAM record %s: %w", sidecarPath, err)
	}
	return true, nil
}

// LoadSRAM copies a stored battery save into the core and returns the
// number of bytes restored. A missing file restores nothing.
func (p *Persistence) LoadSRAM(romPath string) (int, error) {
	mem := p.core.Memory(libretro.MemorySaveRAM)
	if len(mem) == 0 {
		return 0, nil
	}

	sramPath, _ := p.SRAMPaths(romPath)
	data, err := os.ReadFile(sramPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read SRAM %s: %w", sramPath, err)
	}
	return copy(mem, data), nil
}

// ReadSRAMRecord loads the sidecar of a battery save.
func (p *Persistence) ReadSRAMRecord(romPath string) (SRAMRecord, error) {
	var record SRAMRecord
	_, sidecarPath := p.SRAMPaths(romPath)
	err := storage.ReadJSON(sidecarPath, &record)
	return record, err
}

// SaveState serializes the core into a file at path.
func (p *Persistence) SaveState(path string) error {
	size := p.core.SerializeSize()
	if size <= 0 {
		return fmt.Errorf("%w: core reports no state", ErrSerialization)
	}
	buf := make([]byte, size)
	if !p.core.Serialize(buf) {
		return fmt.Errorf("%w: serialize of %d bytes failed", ErrSerialization, size)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// LoadState restores a state file written by SaveState. The core decides
// whether the data fits it.
func (p *Persistence) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrSerialization, path)
	}
	if !p.core.Unserialize(data) {
		return fmt.Errorf("%w: unserialize of %d bytes failed", ErrSerialization, len(data))
	}
	return nil
}
