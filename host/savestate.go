package host

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// SlotCount is the number of save state slots per game.
const SlotCount = 10

// StateStore saves and restores core state files.
type StateStore interface {
	SaveState(path string) error
	LoadState(path string) error
}

// SlotManager maps numbered slots to state files in a per-game directory
// and reports the outcome through the notification overlay.
type SlotManager struct {
	store        StateStore
	notification *Notification
	dir          string
	slot         int
}

// NewSlotManager creates a slot manager. notification may be nil.
func NewSlotManager(store StateStore, notification *Notification) *SlotManager {
	return &SlotManager{store: store, notification: notification}
}

// SetGame selects the directory that holds the game's state files and
// resets to slot 0.
func (m *SlotManager) SetGame(dir string) {
	m.dir = dir
	m.slot = 0
}

// Slot returns the current slot.
func (m *SlotManager) Slot() int {
	return m.slot
}

// SlotPath returns the state file for a slot.
func (m *SlotManager) SlotPath(slot int) string {
	return filepath.Join(m.dir, fmt.Sprintf("state-%d.state", slot))
}

// NextSlot moves to the next slot, wrapping after the last.
func (m *SlotManager) NextSlot() {
	m.slot = (m.slot + 1) % SlotCount
	m.notify(fmt.Sprintf("Slot %d", m.slot), true)
}

// PreviousSlot moves to the previous slot, wrapping before the first.
func (m *SlotManager) PreviousSlot() {
	m.slot = (m.slot + SlotCount - 1) % SlotCount
	m.notify(fmt.Sprintf("Slot %d", m.slot), true)
}

// Save writes the current slot.
func (m *SlotManager) Save() error {
	if m.dir == "" {
		return errors.New("no game selected")
	}
	if err := m.store.SaveState(m.SlotPath(m.slot)); err != nil {
		m.notify("Save failed", false)
		return err
	}
	m.notify(fmt.Sprintf("State saved to slot %d", m.slot), false)
	return nil
}

// Load restores the current slot.
func (m *SlotManager) Load() error {
	if m.dir == "" {
		return errors.New("no game selected")
	}
	if err := m.store.LoadState(m.SlotPath(m.slot)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.notify(fmt.Sprintf("No save in slot %d", m.slot), false)
		} else {
			m.notify("Load failed", false)
		}
		return err
	}
	m.notify(fmt.Sprintf("State loaded from slot %d", m.slot), false)
	return nil
}

func (m *SlotManager) notify(message string, short bool) {
	if m.notification == nil {
		return
	}
	if short {
		m.notification.ShowShort(message)
	} else {
		m.notification.ShowDefault(message)
	}
}
