package camrig

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var (
	axisForward = mgl32.Vec3{0, 0, -1}
	axisRight   = mgl32.Vec3{1, 0, 0}
	axisUp      = mgl32.Vec3{0, 1, 0}
)

func TestIntegrateFreeRoam_DiagonalIsNotFaster(t *testing.T) {
	const dt, speed = 0.25, 8.0

	intents := []MoveIntent{
		{Forward: true},
		{Forward: true, Right: true},
		{Forward: true, Right: true, Up: true},
		{Backward: true, Left: true, Down: true},
	}
	for _, in := range intents {
		step := IntegrateFreeRoam(in, axisForward, axisRight, axisUp, dt, speed)
		assert.InDelta(t, speed*dt, step.Len(), 1e-5, "%+v", in)
	}

	diag := IntegrateFreeRoam(MoveIntent{Forward: true, Right: true}, axisForward, axisRight, axisUp, dt, speed)
	s := float32(speed * dt / math.Sqrt2)
	assertVecNear(t, mgl32.Vec3{s, 0, -s}, diag, 1e-5)
}

func TestIntegrateFreeRoam_OppositeKeysCancel(t *testing.T) {
	step := IntegrateFreeRoam(MoveIntent{Forward: true, Backward: true}, axisForward, axisRight, axisUp, 1, 4)
	assert.Equal(t, mgl32.Vec3{}, step)

	step = IntegrateFreeRoam(MoveIntent{Forward: true, Backward: true, Up: true}, axisForward, axisRight, axisUp, 1, 4)
	assertVecNear(t, mgl32.Vec3{0, 4, 0}, step, 1e-6)

	assert.Equal(t, mgl32.Vec3{}, IntegrateFreeRoam(MoveIntent{}, axisForward, axisRight, axisUp, 1, 4))
}

func TestIntegrateFreeRoam_UsesCameraAxesAndWorldUp(t *testing.T) {
	// A camera pitched down: forward dips, but Up stays world up.
	look := LookAccumulator{Pitch: mgl32.DegToRad(-45)}
	tr := NewTransform(mgl32.Vec3{})
	tr.Rotation = look.Rotation()

	step := IntegrateFreeRoam(MoveIntent{Forward: true}, tr.Forward(), tr.Right(), axisUp, 1, 1)
	assert.Less(t, step.Y(), float32(0))

	step = IntegrateFreeRoam(MoveIntent{Up: true}, tr.Forward(), tr.Right(), axisUp, 1, 1)
	assertVecNear(t, axisUp, step, 1e-6)
}

func TestFreeRoamSpeed_Effective(t *testing.T) {
	s := FreeRoamSpeed{BaseSpeed: 4, SpeedMultiplier: 1}
	assert.Equal(t, float32(8), s.Effective(2))
	assert.Equal(t, float32(2), s.Effective(0.5))
}

func TestToggleActiveCamera(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	assert.False(t, ToggleActiveCamera(cmd), "no cameras")

	cmd.AddEntity(NewCamera(true), MainCamera{})
	app.FlushCommands()
	assert.False(t, ToggleActiveCamera(cmd), "free camera missing")

	cmd.AddEntity(NewCamera(false), FreeCamera{})
	app.FlushCommands()

	for i := 0; i < 4; i++ {
		assert.True(t, ToggleActiveCamera(cmd))
		_, mainCam, _ := MakeQuery1[CameraComponent](cmd).WithTypes(MainCamera{}).Single()
		_, freeCam, _ := MakeQuery1[CameraComponent](cmd).WithTypes(FreeCamera{}).Single()
		assert.NotEqual(t, mainCam.Active, freeCam.Active, "exactly one camera is active")
		assert.Equal(t, i%2 == 1, mainCam.Active)
	}
}
