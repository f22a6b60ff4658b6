package camrig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Action is a logical input the camera rig reacts to.
type Action string

const (
	ActionPovSwitch         Action = "camera_pov_switch"
	ActionFreecamToggle     Action = "freecam_toggle"
	ActionFreecamOff        Action = "freecam_off"
	ActionFreecamFree       Action = "freecam_free"
	ActionFreecamLocked     Action = "freecam_locked"
	ActionFreecamFollowBody Action = "freecam_follow_body"
	ActionFreecamFollowHead Action = "freecam_follow_head"
	ActionFreecamForward    Action = "freecam_forward"
	ActionFreecamBackward   Action = "freecam_backward"
	ActionFreecamLeft       Action = "freecam_left"
	ActionFreecamRight      Action = "freecam_right"
	ActionFreecamUp         Action = "freecam_up"
	ActionFreecamDown       Action = "freecam_down"
	ActionFreecamSpeed1     Action = "freecam_speed_1"
	ActionFreecamSpeed2     Action = "freecam_speed_2"
	ActionFreecamSpeed3     Action = "freecam_speed_3"
	ActionFreecamSpeed4     Action = "freecam_speed_4"
	ActionFreecamSpeed5     Action = "freecam_speed_5"
	ActionFreecamSpeed6     Action = "freecam_speed_6"
	ActionLookActivate      Action = "look_activate"
	ActionPlayerForward     Action = "player_forward"
	ActionPlayerBackward    Action = "player_backward"
	ActionPlayerLeft        Action = "player_left"
	ActionPlayerRight       Action = "player_right"
)

var ErrUnknownAction = errors.New("unknown action")

var defaultBindings = map[Action]Key{
	ActionPovSwitch:         KeyF5,
	ActionFreecamToggle:     KeyF6,
	ActionFreecamOff:        KeyF7,
	ActionFreecamFree:       KeyF8,
	ActionFreecamLocked:     KeyF9,
	ActionFreecamFollowBody: KeyF10,
	ActionFreecamFollowHead: KeyF11,
	ActionFreecamForward:    KeyW,
	ActionFreecamBackward:   KeyS,
	ActionFreecamLeft:       KeyA,
	ActionFreecamRight:      KeyD,
	ActionFreecamUp:         KeySpace,
	ActionFreecamDown:       KeyControl,
	ActionFreecamSpeed1:     Key1,
	ActionFreecamSpeed2:     Key2,
	ActionFreecamSpeed3:     Key3,
	ActionFreecamSpeed4:     Key4,
	ActionFreecamSpeed5:     Key5,
	ActionFreecamSpeed6:     Key6,
	ActionLookActivate:      MouseButtonRight,
	ActionPlayerForward:     KeyW,
	ActionPlayerBackward:    KeyS,
	ActionPlayerLeft:        KeyA,
	ActionPlayerRight:       KeyD,
}

// speedTierActions maps tier keys in order; index 0 is tier 1.
var speedTierActions = [...]Action{
	ActionFreecamSpeed1,
	ActionFreecamSpeed2,
	ActionFreecamSpeed3,
	ActionFreecamSpeed4,
	ActionFreecamSpeed5,
	ActionFreecamSpeed6,
}

// directJumpActions are the dedicated free-roam keys of the direct scheme.
var directJumpActions = [...]struct {
	action Action
	mode   FreeRoamMode
}{
	{ActionFreecamOff, FreeRoamOff},
	{ActionFreecamFree, FreeRoamFree},
	{ActionFreecamLocked, FreeRoamLocked},
	{ActionFreecamFollowBody, FreeRoamFollowBody},
	{ActionFreecamFollowHead, FreeRoamFollowHead},
}

func (a Action) Valid() bool {
	_, ok := defaultBindings[a]
	return ok
}

// Actions lists every known action, sorted by name.
func Actions() []Action {
	out := make([]Action, 0, len(defaultBindings))
	for a := range defaultBindings {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Keybinds maps every action to exactly one key. Several actions may share
// a key (freecam and player movement do by default).
type Keybinds struct {
	bindings map[Action]Key
}

func DefaultKeybinds() *Keybinds {
	kb := &Keybinds{bindings: make(map[Action]Key, len(defaultBindings))}
	for a, k := range defaultBindings {
		kb.bindings[a] = k
	}
	return kb
}

func (kb *Keybinds) Key(action Action) Key {
	if k, ok := kb.bindings[action]; ok {
		return k
	}
	return KeyNone
}

func (kb *Keybinds) Remap(action Action, key Key) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if !key.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKey, int(key))
	}
	kb.bindings[action] = key
	return nil
}

// Pressed reports whether the action's key is held this frame.
func (kb *Keybinds) Pressed(input *Input, action Action) bool {
	return input.IsPressed(kb.Key(action))
}

func (kb *Keybinds) JustPressed(input *Input, action Action) bool {
	return input.IsJustPressed(kb.Key(action))
}

// apply copies every binding of other into kb.
func (kb *Keybinds) apply(other *Keybinds) {
	for a, k := range other.bindings {
		kb.bindings[a] = k
	}
}

// LoadKeybinds reads a YAML map of action names to key names. Actions the
// file leaves out keep their default key.
func LoadKeybinds(path string) (*Keybinds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keybinds: %w", err)
	}
	return parseKeybinds(data)
}

func parseKeybinds(data []byte) (*Keybinds, error) {
	var raw map[string]Key
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse keybinds: %w", err)
	}

	kb := DefaultKeybinds()
	for name, key := range raw {
		if err := kb.Remap(Action(name), key); err != nil {
			return nil, fmt.Errorf("parse keybinds: %w", err)
		}
	}
	return kb, nil
}

// SaveKeybinds writes every binding, creating parent directories as needed.
func SaveKeybinds(path string, kb *Keybinds) error {
	raw := make(map[string]Key, len(kb.bindings))
	for a, k := range kb.bindings {
		raw[string(a)] = k
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode keybinds: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save keybinds: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save keybinds: %w", err)
	}
	return nil
}
