package camrig

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch keeps the view just short of straight up or down.
var MaxPitch = mgl32.DegToRad(89.9)

// LookAccumulator is the persistent yaw/pitch of one observer, in radians.
// Sensitivity is in degrees per pixel of mouse motion.
type LookAccumulator struct {
	Yaw         float32
	Pitch       float32
	Sensitivity float32
}

func NewLookAccumulator(sensitivity float32) LookAccumulator {
	return LookAccumulator{Sensitivity: sensitivity}
}

// Update folds one frame of mouse motion into the accumulator and returns
// the resulting orientation. Nothing accumulates unless held; the pitch
// clamp is applied on every call either way.
func (l *LookAccumulator) Update(delta mgl32.Vec2, held bool) mgl32.Quat {
	if held {
		s := mgl32.DegToRad(l.Sensitivity)
		l.Yaw -= delta.X() * s
		l.Pitch -= delta.Y() * s
	}
	l.Pitch = mgl32.Clamp(l.Pitch, -MaxPitch, MaxPitch)
	return l.Rotation()
}

// Rotation composes yaw about world Y with pitch in the yawed frame.
func (l *LookAccumulator) Rotation() mgl32.Quat {
	yaw := mgl32.QuatRotate(l.Yaw, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(l.Pitch, mgl32.Vec3{1, 0, 0})
	return yaw.Mul(pitch)
}

// lookSystem feeds the frame's mouse motion to each observer allowed to
// look. The free camera always accumulates but only turns while free-roam
// is Free. The main camera accumulates outside Free; its pitch is applied by
// the resolver and its yaw turns the player body.
func lookSystem(cmd *Commands, input *Input, kb *Keybinds, modes *ViewModes) {
	mode := modes.Snapshot().FreeRoam
	delta := input.MouseDelta()
	held := kb.Pressed(input, ActionLookActivate)

	if _, tr, look, ok := MakeQuery2[TransformComponent, LookAccumulator](cmd).
		WithTypes(FreeCamera{}).
		Single(); ok {
		rot := look.Update(delta, held)
		if mode == FreeRoamFree {
			tr.Rotation = rot
		}
	}

	if mode == FreeRoamFree {
		return
	}
	if _, look, ok := MakeQuery1[LookAccumulator](cmd).
		WithTypes(MainCamera{}).
		Single(); ok {
		look.Update(delta, held)
	}
}
