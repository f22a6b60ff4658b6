package camrig

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MoveIntent is the set of held free-roam direction keys.
type MoveIntent struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool
}

func moveIntent(input *Input, kb *Keybinds) MoveIntent {
	return MoveIntent{
		Forward:  kb.Pressed(input, ActionFreecamForward),
		Backward: kb.Pressed(input, ActionFreecamBackward),
		Left:     kb.Pressed(input, ActionFreecamLeft),
		Right:    kb.Pressed(input, ActionFreecamRight),
		Up:       kb.Pressed(input, ActionFreecamUp),
		Down:     kb.Pressed(input, ActionFreecamDown),
	}
}

// IntegrateFreeRoam returns this frame's displacement. forward and right are
// the camera's own axes, up is world up. The summed direction is normalized
// so diagonals are no faster than a single axis; opposite keys cancel.
func IntegrateFreeRoam(intent MoveIntent, forward, right, up mgl32.Vec3, dt, speed float32) mgl32.Vec3 {
	var dir mgl32.Vec3
	if intent.Forward {
		dir = dir.Add(forward)
	}
	if intent.Backward {
		dir = dir.Sub(forward)
	}
	if intent.Right {
		dir = dir.Add(right)
	}
	if intent.Left {
		dir = dir.Sub(right)
	}
	if intent.Up {
		dir = dir.Add(up)
	}
	if intent.Down {
		dir = dir.Sub(up)
	}

	if dir.LenSqr() < 1e-12 {
		return mgl32.Vec3{}
	}
	return dir.Normalize().Mul(speed * dt)
}

// FreeRoamSpeed holds the speed factors that do not change at runtime. The
// tier scale comes from ModeState.
type FreeRoamSpeed struct {
	BaseSpeed       float32
	SpeedMultiplier float32
}

func (s *FreeRoamSpeed) Effective(scale float32) float32 {
	return s.BaseSpeed * s.SpeedMultiplier * scale
}

func rigCameras(cmd *Commands) (mainCam, freeCam *CameraComponent, ok bool) {
	_, mainCam, ok = MakeQuery1[CameraComponent](cmd).
		WithTypes(MainCamera{}).
		Single()
	if !ok {
		return nil, nil, false
	}
	_, freeCam, ok = MakeQuery1[CameraComponent](cmd).
		WithTypes(FreeCamera{}).
		Single()
	if !ok {
		return nil, nil, false
	}
	return mainCam, freeCam, true
}

// ToggleActiveCamera swaps which of the main and free cameras is active.
// A missing or duplicated camera makes it a no-op.
func ToggleActiveCamera(cmd *Commands) bool {
	mainCam, freeCam, ok := rigCameras(cmd)
	if !ok {
		return false
	}
	mainActive := mainCam.Active
	mainCam.Active = !mainActive
	freeCam.Active = mainActive
	return true
}

// SetActiveCamera makes the free camera (free == true) or the main camera
// the only active one.
func SetActiveCamera(cmd *Commands, free bool) bool {
	mainCam, freeCam, ok := rigCameras(cmd)
	if !ok {
		return false
	}
	mainCam.Active = !free
	freeCam.Active = free
	return true
}

// Entering Free always looks through the free camera and leaving it hands
// the view back, whatever the toggle count did to the active flags.
func activateFreeCameraSystem(cmd *Commands) {
	SetActiveCamera(cmd, true)
}

func activateMainCameraSystem(cmd *Commands) {
	SetActiveCamera(cmd, false)
}

func freeRoamSystem(cmd *Commands, t *Time, input *Input, kb *Keybinds, modes *ViewModes, speed *FreeRoamSpeed) {
	if kb.JustPressed(input, ActionFreecamToggle) {
		ToggleActiveCamera(cmd)
	}

	state := modes.Snapshot()
	switch state.FreeRoam {
	case FreeRoamFree:
	case FreeRoamLocked, FreeRoamFollowBody, FreeRoamFollowHead:
		// Declared, but nothing moves the camera in these modes yet.
		return
	default:
		return
	}

	_, tr, cam, ok := MakeQuery2[TransformComponent, CameraComponent](cmd).
		WithTypes(FreeCamera{}).
		Single()
	if !ok || !cam.Active {
		return
	}
	step := IntegrateFreeRoam(
		moveIntent(input, kb),
		tr.Forward(), tr.Right(), mgl32.Vec3{0, 1, 0},
		t.DeltaSeconds(), speed.Effective(state.SpeedScale),
	)
	tr.Position = tr.Position.Add(step)
}
