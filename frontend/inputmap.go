package frontend

import (
	"strings"

	"github.com/user-none/retrohost/libretro"
)

// coreProfiles folds core ids that share a controller layout.
var coreProfiles = map[string]string{
	"pcsx_rearmed":    "ps1",
	"swanstation":     "ps1",
	"mednafen_psx":    "ps1",
	"mednafen_psx_hw": "ps1",
	"mgba":            "gba",
	"vbam":            "gba",
	"snes9x":          "snes",
	"fceumm":          "nes",
	"gambatte":        "gb",
	"picodrive":       "megadrive",
	"genesis_plus_gx": "megadrive",
}

// genericProfile is used when neither a core id nor a core kind is known.
const genericProfile = "retropad"

// InputProfile returns the action-name prefix for a core id, falling back
// to the core kind's profile.
func InputProfile(coreID string, kind CoreKind) string {
	id := strings.ToLower(strings.TrimSpace(coreID))
	id = strings.TrimSuffix(id, "_libretro")
	if id != "" {
		if p, ok := coreProfiles[id]; ok {
			return p
		}
		return id
	}
	if p := kind.InputProfile(); p != "" {
		return p
	}
	return genericProfile
}

var dpadButtons = map[uint32]string{
	libretro.JoypadUp:    "up",
	libretro.JoypadDown:  "down",
	libretro.JoypadLeft:  "left",
	libretro.JoypadRight: "right",
}

// profileButtons names each joypad id per controller layout. Ids absent
// from a layout are never reported pressed.
var profileButtons = map[string]map[uint32]string{
	"gba": {
		libretro.JoypadB: "b", libretro.JoypadA: "a",
		libretro.JoypadL: "l", libretro.JoypadR: "r",
		libretro.JoypadSelect: "select", libretro.JoypadStart: "start",
	},
	"gb": {
		libretro.JoypadB: "b", libretro.JoypadA: "a",
		libretro.JoypadSelect: "select", libretro.JoypadStart: "start",
	},
	"snes": {
		libretro.JoypadB: "b", libretro.JoypadA: "a",
		libretro.JoypadY: "y", libretro.JoypadX: "x",
		libretro.JoypadL: "l", libretro.JoypadR: "r",
		libretro.JoypadSelect: "select", libretro.JoypadStart: "start",
	},
	"nes": {
		libretro.JoypadB: "b", libretro.JoypadA: "a",
		libretro.JoypadSelect: "select", libretro.JoypadStart: "start",
	},
	// Mega Drive cores put the 3-button row on B/A/Y and the 6-button
	// row on X/L/R.
	"megadrive": {
		libretro.JoypadA: "b", libretro.JoypadB: "a",
		libretro.JoypadX: "y", libretro.JoypadY: "x",
		libretro.JoypadL: "z", libretro.JoypadR: "c",
		libretro.JoypadSelect: "mode", libretro.JoypadStart: "start",
	},
	"ps1": {
		libretro.JoypadB: "cross", libretro.JoypadA: "circle",
		libretro.JoypadY: "square", libretro.JoypadX: "triangle",
		libretro.JoypadL: "l1", libretro.JoypadR: "r1",
		libretro.JoypadL2: "l2", libretro.JoypadR2: "r2",
		libretro.JoypadL3: "l3", libretro.JoypadR3: "r3",
		libretro.JoypadSelect: "select", libretro.JoypadStart: "start",
	},
	genericProfile: {
		libretro.JoypadB: "b", libretro.JoypadA: "a",
		libretro.JoypadY: "y", libretro.JoypadX: "x",
		libretro.JoypadL: "l", libretro.JoypadR: "r",
		libretro.JoypadL2: "l2", libretro.JoypadR2: "r2",
		libretro.JoypadL3: "l3", libretro.JoypadR3: "r3",
		libretro.JoypadSelect: "select", libretro.JoypadStart: "start",
	},
}

func init() {
	profileButtons["gbc"] = profileButtons["gb"]
}

// ButtonName returns the action suffix for a joypad id under a profile.
// Unknown profiles use the generic layout.
func ButtonName(profile string, id uint32) string {
	if name, ok := dpadButtons[id]; ok {
		return name
	}
	buttons, ok := profileButtons[profile]
	if !ok {
		buttons = profileButtons[genericProfile]
	}
	return buttons[id]
}

// ActionNames lists every action a profile can ask for.
func ActionNames(profile string) []string {
	var names []string
	for id := uint32(libretro.JoypadB); id <= libretro.JoypadR3; id++ {
		if b := ButtonName(profile, id); b != "" {
			names = append(names, profile+"_"+b)
		}
	}
	return names
}

// InputMapper turns joypad ids into the host's action names for one
// loaded core.
type InputMapper struct {
	profile string
	actions [libretro.JoypadR3 + 1]string
}

// NewInputMapper builds the id to action table. available is the host's
// action list, read once per load; ids whose action the host does not
// offer map to "".
func NewInputMapper(profile string, available []string) *InputMapper {
	offered := make(map[string]bool, len(available))
	for _, a := range available {
		offered[a] = true
	}

	m := &InputMapper{profile: profile}
	for id := range m.actions {
		b := ButtonName(profile, uint32(id))
		if b == "" {
			continue
		}
		if action := profile + "_" + b; offered[action] {
			m.actions[id] = action
		}
	}
	return m
}

// Profile returns the profile the mapper was built for.
func (m *InputMapper) Profile() string {
	return m.profile
}

// Action returns the action name for a joypad id, or "".
func (m *InputMapper) Action(id uint32) string {
	if int(id) >= len(m.actions) {
		return ""
	}
	return m.actions[id]
}
