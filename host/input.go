package host

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	hostapi "github.com/user-none/retrohost/api"
	"github.com/user-none/retrohost/frontend"
	"github.com/user-none/retrohost/storage"
)

// analogThreshold is how far the left stick must move to press a d-pad
// direction.
const analogThreshold = 0.25

// Binding is the keyboard key and gamepad button bound to one action.
type Binding struct {
	Key    ebiten.Key
	HasKey bool
	Pad    ebiten.StandardGamepadButton
	HasPad bool
}

// actionSuffix returns the button part of an action name ("snes_a" -> "a").
func actionSuffix(action string) string {
	if i := strings.LastIndexByte(action, '_'); i >= 0 {
		return action[i+1:]
	}
	return action
}

// BuildBindings resolves a binding for every action: the config override
// for the action name first, then the default for its button. Invalid
// names and reserved keys leave that half of the binding empty.
func BuildBindings(actions []string, kbOverrides, padOverrides map[string]string) map[string]Binding {
	bindings := make(map[string]Binding, len(actions))
	for _, action := range actions {
		suffix := actionSuffix(action)
		var b Binding

		name, ok := kbOverrides[action]
		if !ok {
			name = defaultKeys[suffix]
		}
		if k, ok := ParseKey(name); ok && !reservedKeys[k] {
			b.Key, b.HasKey = k, true
		}

		name, ok = padOverrides[action]
		if !ok {
			name = defaultPads[suffix]
		}
		if p, ok := ParsePad(name); ok {
			b.Pad, b.HasPad = p, true
		}

		bindings[action] = b
	}
	return bindings
}

// Input is the ebiten input source for the first player: keyboard plus
// the first connected gamepad.
type Input struct {
	cfg           storage.InputConfig
	profile       string
	actions       []string
	bindings      map[string]Binding
	gamepadIDs    []ebiten.GamepadID
	disableAnalog bool
}

var _ hostapi.InputSource = (*Input)(nil)

// NewInput creates an input source with bindings from cfg.
func NewInput(cfg storage.InputConfig) *Input {
	in := &Input{cfg: cfg, disableAnalog: cfg.DisableAnalogStick}
	in.SetProfile("retropad")
	return in
}

// SetProfile switches to the action names of a controller layout. Call it
// before loading a game so the session sees the new actions.
func (in *Input) SetProfile(profile string) {
	in.profile = profile
	in.actions = frontend.ActionNames(profile)
	in.bindings = BuildBindings(in.actions, in.cfg.Keyboard, in.cfg.Controller)
}

// Profile returns the active controller layout.
func (in *Input) Profile() string {
	return in.profile
}

// Actions lists the actions of the active layout.
func (in *Input) Actions() []string {
	return in.actions
}

// Update refreshes the connected gamepads. Call once per tick.
func (in *Input) Update() {
	in.gamepadIDs = ebiten.AppendGamepadIDs(in.gamepadIDs[:0])
}

// IsActionPressed reports whether the action's key, pad button or, for
// d-pad directions, the left stick is held.
func (in *Input) IsActionPressed(action string) bool {
	b, ok := in.bindings[action]
	if !ok {
		return false
	}
	if b.HasKey && ebiten.IsKeyPressed(b.Key) {
		return true
	}
	if !b.HasPad || len(in.gamepadIDs) == 0 {
		return false
	}

	id := in.gamepadIDs[0]
	if ebiten.IsStandardGamepadButtonPressed(id, b.Pad) {
		return true
	}
	if in.disableAnalog {
		return false
	}

	// The stick follows whatever the d-pad buttons are bound to.
	x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	switch b.Pad {
	case ebiten.StandardGamepadButtonLeftLeft:
		return x < -analogThreshold
	case ebiten.StandardGamepadButtonLeftRight:
		return x > analogThreshold
	case ebiten.StandardGamepadButtonLeftTop:
		return y < -analogThreshold
	case ebiten.StandardGamepadButtonLeftBottom:
		return y > analogThreshold
	}
	return false
}
