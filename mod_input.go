package camrig

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Key identifies a keyboard key or mouse button. Mouse buttons share the
// key space so bindings can point at either.
type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	keyCount
)

const KeyNone Key = -1

var ErrUnknownKey = errors.New("unknown key")

var keyNames = [keyCount]string{
	KeyA:              "KeyA",
	KeyB:              "KeyB",
	KeyC:              "KeyC",
	KeyD:              "KeyD",
	KeyE:              "KeyE",
	KeyF:              "KeyF",
	KeyG:              "KeyG",
	KeyH:              "KeyH",
	KeyI:              "KeyI",
	KeyJ:              "KeyJ",
	KeyK:              "KeyK",
	KeyL:              "KeyL",
	KeyM:              "KeyM",
	KeyN:              "KeyN",
	KeyO:              "KeyO",
	KeyP:              "KeyP",
	KeyQ:              "KeyQ",
	KeyR:              "KeyR",
	KeyS:              "KeyS",
	KeyT:              "KeyT",
	KeyU:              "KeyU",
	KeyV:              "KeyV",
	KeyW:              "KeyW",
	KeyX:              "KeyX",
	KeyY:              "KeyY",
	KeyZ:              "KeyZ",
	Key0:              "Digit0",
	Key1:              "Digit1",
	Key2:              "Digit2",
	Key3:              "Digit3",
	Key4:              "Digit4",
	Key5:              "Digit5",
	Key6:              "Digit6",
	Key7:              "Digit7",
	Key8:              "Digit8",
	Key9:              "Digit9",
	KeySpace:          "Space",
	KeyEnter:          "Enter",
	KeyEscape:         "Escape",
	KeyTab:            "Tab",
	KeyBackspace:      "Backspace",
	KeyInsert:         "Insert",
	KeyDelete:         "Delete",
	KeyRight:          "ArrowRight",
	KeyLeft:           "ArrowLeft",
	KeyDown:           "ArrowDown",
	KeyUp:             "ArrowUp",
	KeyF1:             "F1",
	KeyF2:             "F2",
	KeyF3:             "F3",
	KeyF4:             "F4",
	KeyF5:             "F5",
	KeyF6:             "F6",
	KeyF7:             "F7",
	KeyF8:             "F8",
	KeyF9:             "F9",
	KeyF10:            "F10",
	KeyF11:            "F11",
	KeyF12:            "F12",
	KeyMinus:          "Minus",
	KeyEqual:          "Equal",
	KeyKPPlus:         "NumpadAdd",
	KeyKPMinus:        "NumpadSubtract",
	KeyShift:          "ShiftLeft",
	KeyControl:        "ControlLeft",
	KeyLeftAlt:        "AltLeft",
	MouseButtonLeft:   "MouseLeft",
	MouseButtonRight:  "MouseRight",
	MouseButtonMiddle: "MouseMiddle",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, keyCount)
	for k, name := range keyNames {
		m[name] = Key(k)
	}
	return m
}()

func (k Key) Valid() bool {
	return k >= 0 && k < keyCount
}

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

func ParseKey(name string) (Key, error) {
	if k, ok := keysByName[name]; ok {
		return k, nil
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKey, int(k))
	}
	return []byte(keyNames[k]), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Key) MarshalYAML() (any, error) {
	text, err := k.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func (k *Key) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("key must be a string, line %d", value.Line)
	}
	return k.UnmarshalText([]byte(value.Value))
}

// InputSnapshot is what a device backend reports for one frame.
type InputSnapshot struct {
	Down             [keyCount]bool
	CursorX, CursorY float64
	// Motion holds raw mouse-motion samples in arrival order.
	Motion []mgl32.Vec2
}

// InputSource is a device backend polled once per frame.
type InputSource interface {
	Poll(snap *InputSnapshot)
}

type InputModule struct {
	Source InputSource
}

// Input is the per-frame device state. Systems read it; only inputSystem
// writes it.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	// MouseMotion is this frame's motion stream; it is replaced every frame.
	MouseMotion []mgl32.Vec2

	source InputSource
	snap   InputSnapshot
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	src := mod.Source
	if src == nil {
		src = NewScriptedInputSource()
	}
	cmd.AddResources(&Input{source: src})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(input *Input) {
	input.sample()
}

func (input *Input) sample() {
	input.snap.Down = [keyCount]bool{}
	input.snap.Motion = input.snap.Motion[:0]
	if input.source != nil {
		input.source.Poll(&input.snap)
	}
	input.apply(&input.snap)
}

// apply runs edge detection against the previous frame and replaces the
// motion stream.
func (input *Input) apply(snap *InputSnapshot) {
	for key := Key(0); key < keyCount; key++ {
		down := snap.Down[key]
		input.JustPressed[key] = down && !input.Pressed[key]
		input.JustReleased[key] = !down && input.Pressed[key]
		input.Pressed[key] = down
	}

	input.MouseMotion = append(input.MouseMotion[:0], snap.Motion...)
	delta := input.MouseDelta()
	input.MouseDeltaX = float64(delta.X())
	input.MouseDeltaY = float64(delta.Y())
	input.MouseX = snap.CursorX
	input.MouseY = snap.CursorY
}

// MouseDelta sums this frame's motion samples.
func (input *Input) MouseDelta() mgl32.Vec2 {
	var sum mgl32.Vec2
	for _, m := range input.MouseMotion {
		sum = sum.Add(m)
	}
	return sum
}

func (input *Input) IsPressed(key Key) bool {
	return key.Valid() && input.Pressed[key]
}

func (input *Input) IsJustPressed(key Key) bool {
	return key.Valid() && input.JustPressed[key]
}

// InputFrame is one scripted frame of device state.
type InputFrame struct {
	Down   []Key
	Motion []mgl32.Vec2
}

// ScriptedInputSource replays queued frames, one per poll. With nothing
// queued it reports an idle device.
type ScriptedInputSource struct {
	frames []InputFrame
}

func NewScriptedInputSource(frames ...InputFrame) *ScriptedInputSource {
	return &ScriptedInputSource{frames: frames}
}

func (s *ScriptedInputSource) Push(frames ...InputFrame) {
	s.frames = append(s.frames, frames...)
}

func (s *ScriptedInputSource) Remaining() int {
	return len(s.frames)
}

func (s *ScriptedInputSource) Poll(snap *InputSnapshot) {
	if len(s.frames) == 0 {
		return
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]

	for _, k := range frame.Down {
		if k.Valid() {
			snap.Down[k] = true
		}
	}
	snap.Motion = append(snap.Motion, frame.Motion...)
}
