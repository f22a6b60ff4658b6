package camrig

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraOffsets are the main camera placements per point of view. The third
// person and over-shoulder entries are world positions, not offsets from the
// player.
type CameraOffsets struct {
	FirstPerson  mgl32.Vec3
	ThirdPerson  mgl32.Vec3
	OverShoulder mgl32.Vec3
}

func DefaultCameraOffsets() CameraOffsets {
	return CameraOffsets{
		FirstPerson:  mgl32.Vec3{0, 0, 0},
		ThirdPerson:  mgl32.Vec3{0, 8, 10},
		OverShoulder: mgl32.Vec3{6, 5, 3},
	}
}

const (
	DefaultLookSensitivity = 0.1
	DefaultFreeRoamSpeed   = 4.0
)

var DefaultFreeCameraStart = mgl32.Vec3{0, 8, 10}

// CameraRigModule installs the view-mode state, both cameras and the systems
// that drive them. Zero numeric fields fall back to the defaults.
type CameraRigModule struct {
	Scheme          TransitionScheme
	Offsets         CameraOffsets
	MainSensitivity float32
	FreeSensitivity float32
	BaseSpeed       float32
	SpeedMultiplier float32
	FreeStart       mgl32.Vec3
}

func DefaultCameraRigModule() CameraRigModule {
	return CameraRigModule{
		Offsets:   DefaultCameraOffsets(),
		FreeStart: DefaultFreeCameraStart,
	}
}

func (mod CameraRigModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[Time](app); !ok {
		TimeModule{}.Install(app, cmd)
	}
	if _, ok := Resource[Input](app); !ok {
		InputModule{}.Install(app, cmd)
	}
	if _, ok := Resource[Keybinds](app); !ok {
		cmd.AddResources(DefaultKeybinds())
	}

	modes := NewViewModes(mod.Scheme)
	modes.log = app.Logger()
	offsets := mod.Offsets

	cmd.AddResources(
		modes,
		&offsets,
		&FreeRoamSpeed{
			BaseSpeed:       orDefault(mod.BaseSpeed, DefaultFreeRoamSpeed),
			SpeedMultiplier: orDefault(mod.SpeedMultiplier, 1),
		},
	)

	cmd.AddEntity(
		NewTransform(offsets.FirstPerson),
		NewCamera(true),
		NewLookAccumulator(orDefault(mod.MainSensitivity, DefaultLookSensitivity)),
		MainCamera{},
	)
	cmd.AddEntity(
		NewTransform(mod.FreeStart),
		NewCamera(false),
		NewLookAccumulator(orDefault(mod.FreeSensitivity, DefaultLookSensitivity)),
		FreeCamera{},
	)

	app.UseSystem(System(modeSwitchSystem).InStage(Update))
	app.UseSystem(System(lookSystem).InStage(Update))
	app.UseSystem(System(freeRoamSystem).InStage(Update))
	app.UseSystem(System(inputGateSystem).InStage(Update))
	app.UseSystem(
		System(transformResolverSystem).
			InStage(FixedPostSimulate),
	)
	app.UseSystem(
		System(modeCommitSystem).
			InStage(Finale),
	)
	app.UseSystem(
		System(activateFreeCameraSystem).
			InState(OnEnter(FreeRoamFree)),
	)
	app.UseSystem(
		System(activateMainCameraSystem).
			InState(OnExit(FreeRoamFree)),
	)
}

func orDefault(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

// ResolveMainCamera places the main camera for one fixed tick. pitch is the
// main camera's accumulated look pitch.
func ResolveMainCamera(pov PointOfView, player *TransformComponent, pitch float32, offsets *CameraOffsets) (mgl32.Vec3, mgl32.Quat) {
	switch pov {
	case ThirdPerson:
		return offsets.ThirdPerson, lookAtOrigin(offsets.ThirdPerson)
	case OverShoulder:
		return offsets.OverShoulder, lookAtOrigin(offsets.OverShoulder)
	default:
		yaw := YawOf(player.Rotation)
		rot := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).
			Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
		return player.Position.Add(offsets.FirstPerson), rot
	}
}

func lookAtOrigin(from mgl32.Vec3) mgl32.Quat {
	rot, ok := LookRotation(from, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	if !ok {
		return mgl32.QuatIdent()
	}
	return rot
}

// YawOf returns the heading of q about world Y, dropping pitch and roll.
// Zero yaw faces -Z.
func YawOf(q mgl32.Quat) float32 {
	f := q.Rotate(mgl32.Vec3{0, 0, -1})
	if f.X()*f.X()+f.Z()*f.Z() > 1e-8 {
		return float32(math.Atan2(float64(-f.X()), float64(-f.Z())))
	}
	// Facing straight up or down: read the heading off the right axis.
	r := q.Rotate(mgl32.Vec3{1, 0, 0})
	return float32(math.Atan2(float64(-r.Z()), float64(r.X())))
}

// LookRotation orients a -Z forward camera at eye toward target. ok is false
// when eye and target coincide.
func LookRotation(eye, target, up mgl32.Vec3) (mgl32.Quat, bool) {
	f := target.Sub(eye)
	if f.LenSqr() < 1e-12 {
		return mgl32.QuatIdent(), false
	}
	f = f.Normalize()

	r := f.Cross(up)
	if r.LenSqr() < 1e-12 {
		// Looking along up; any horizontal right axis works.
		r = mgl32.Vec3{1, 0, 0}
	}
	r = r.Normalize()
	u := r.Cross(f)

	basis := mgl32.Mat3FromCols(r, u, f.Mul(-1))
	return mgl32.Mat4ToQuat(basis.Mat4()).Normalize(), true
}

func transformResolverSystem(cmd *Commands, modes *ViewModes, offsets *CameraOffsets) {
	_, player, ok := MakeQuery1[TransformComponent](cmd).
		WithTypes(Player{}).
		Single()
	if !ok {
		return
	}
	_, cam, look, ok := MakeQuery2[TransformComponent, LookAccumulator](cmd).
		WithTypes(MainCamera{}).
		Single()
	if !ok {
		return
	}

	cam.Position, cam.Rotation = ResolveMainCamera(modes.Snapshot().PointOfView, player, look.Pitch, offsets)
}
