package camrig

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInput_EdgeDetection(t *testing.T) {
	src := NewScriptedInputSource(
		InputFrame{Down: []Key{KeyF5}},
		InputFrame{Down: []Key{KeyF5}},
		InputFrame{},
	)
	input := &Input{source: src}

	input.sample()
	assert.True(t, input.IsPressed(KeyF5))
	assert.True(t, input.IsJustPressed(KeyF5))

	input.sample()
	assert.True(t, input.IsPressed(KeyF5))
	assert.False(t, input.IsJustPressed(KeyF5), "held is not a new press")

	input.sample()
	assert.False(t, input.IsPressed(KeyF5))
	assert.True(t, input.JustReleased[KeyF5])

	// Script exhausted: idle device.
	input.sample()
	assert.False(t, input.JustReleased[KeyF5])
	assert.Equal(t, 0, src.Remaining())
}

func TestInput_MotionStreamIsPerFrame(t *testing.T) {
	src := NewScriptedInputSource(
		InputFrame{Motion: []mgl32.Vec2{{1, 2}, {3, -1}, {0.5, 0}}},
		InputFrame{},
	)
	input := &Input{source: src}

	input.sample()
	assert.Len(t, input.MouseMotion, 3)
	assert.Equal(t, mgl32.Vec2{4.5, 1}, input.MouseDelta())
	assert.Equal(t, 4.5, input.MouseDeltaX)

	input.sample()
	assert.Empty(t, input.MouseMotion, "motion never carries over")
	assert.Equal(t, mgl32.Vec2{}, input.MouseDelta())
}

func TestInput_InvalidKeysAreNeverPressed(t *testing.T) {
	input := &Input{}
	assert.False(t, input.IsPressed(KeyNone))
	assert.False(t, input.IsJustPressed(Key(keyCount)))
}

func TestKey_NamesRoundTrip(t *testing.T) {
	for k := Key(0); k < keyCount; k++ {
		parsed, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKey("F13")
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = KeyNone.MarshalText()
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestKey_YAML(t *testing.T) {
	var doc struct {
		Toggle Key `yaml:"toggle"`
		Look   Key `yaml:"look"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("toggle: F6\nlook: MouseRight\n"), &doc))
	assert.Equal(t, KeyF6, doc.Toggle)
	assert.Equal(t, MouseButtonRight, doc.Look)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "toggle: F6\nlook: MouseRight\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("toggle: [F6]\n"), &doc))
}

func TestInputModule_SamplesInPreUpdate(t *testing.T) {
	src := NewScriptedInputSource(InputFrame{Down: []Key{KeyW}})
	app := NewApp().UseModules(InputModule{Source: src})

	var sawW bool
	app.UseSystem(System(func(input *Input) {
		sawW = input.IsPressed(KeyW)
	}).InStage(Update))

	app.Step()
	assert.True(t, sawW)
}
