package camrig

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestLookAccumulator_OnlyWhileHeld(t *testing.T) {
	l := NewLookAccumulator(0.1)

	l.Update(mgl32.Vec2{100, 50}, false)
	assert.Zero(t, l.Yaw)
	assert.Zero(t, l.Pitch)

	l.Update(mgl32.Vec2{100, 50}, true)
	assert.InDelta(t, -mgl32.DegToRad(10), l.Yaw, 1e-5)
	assert.InDelta(t, -mgl32.DegToRad(5), l.Pitch, 1e-5)

	// Release freezes the angles.
	l.Update(mgl32.Vec2{-400, 400}, false)
	assert.InDelta(t, -mgl32.DegToRad(10), l.Yaw, 1e-5)
	assert.InDelta(t, -mgl32.DegToRad(5), l.Pitch, 1e-5)
}

func TestLookAccumulator_PitchClamp(t *testing.T) {
	l := NewLookAccumulator(0.1)

	deltas := []float32{-300, -500, 200, -2000, 7000, 1, -1, 5000, -9000}
	for _, dy := range deltas {
		l.Update(mgl32.Vec2{3, dy}, true)
		assert.LessOrEqual(t, l.Pitch, MaxPitch)
		assert.GreaterOrEqual(t, l.Pitch, -MaxPitch)
	}

	l.Pitch = 0
	l.Update(mgl32.Vec2{0, -5000}, true)
	assert.Equal(t, MaxPitch, l.Pitch)
	l.Update(mgl32.Vec2{0, -10}, true)
	assert.Equal(t, MaxPitch, l.Pitch, "past the bound stays exactly at the bound")

	l.Update(mgl32.Vec2{0, 5000}, true)
	assert.Equal(t, -MaxPitch, l.Pitch)
}

func TestLookAccumulator_RotationIsYawThenPitch(t *testing.T) {
	l := LookAccumulator{Yaw: mgl32.DegToRad(90), Pitch: mgl32.DegToRad(30)}

	forward := l.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
	// Yaw 90 turns -Z to -X; pitch then lifts it in the yawed frame.
	assert.InDelta(t, -0.866, forward.X(), 1e-3)
	assert.InDelta(t, 0.5, forward.Y(), 1e-3)
	assert.InDelta(t, 0, forward.Z(), 1e-3)

	right := l.Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, right.Y(), 1e-5, "no roll")
}

func TestLookSystem_Eligibility(t *testing.T) {
	rig := newTestRig(t, SchemeCycle)
	right := MouseButtonRight
	motion := []mgl32.Vec2{{10, 0}, {10, 4}}

	// Off: both observers accumulate, only the main camera's is kept for the
	// resolver, and the free camera does not turn.
	rig.frame(InputFrame{Down: []Key{right}, Motion: motion})
	main, free := rig.mainLook(), rig.freeLook()
	assert.InDelta(t, -mgl32.DegToRad(2), main.Yaw, 1e-5)
	assert.InDelta(t, -mgl32.DegToRad(2), free.Yaw, 1e-5)
	assert.Equal(t, mgl32.QuatIdent(), rig.freeTransform().Rotation)

	// Enter Free.
	rig.frame(InputFrame{Down: []Key{KeyF6}})
	rig.frame(InputFrame{Down: []Key{right}, Motion: motion})
	main, free = rig.mainLook(), rig.freeLook()
	assert.InDelta(t, -mgl32.DegToRad(2), main.Yaw, 1e-5, "main camera is frozen in Free")
	assert.InDelta(t, -mgl32.DegToRad(4), free.Yaw, 1e-5)
	got := rig.freeTransform().Rotation
	assert.InDelta(t, free.Rotation().W, got.W, 1e-5)
	assertVecNear(t, free.Rotation().V, got.V, 1e-5)
}
