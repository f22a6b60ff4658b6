package camrig

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PlayerBodyComponent is a kinematic capsule standing on the y = 0 ground
// plane. It has no collision response besides that plane.
type PlayerBodyComponent struct {
	Velocity mgl32.Vec3
	Radius   float32
	Height   float32
	Speed    float32
	Grounded bool
}

// HalfHeight is the distance from the capsule centre to its bottom. Height
// is the length of the cylinder between the two caps.
func (b *PlayerBodyComponent) HalfHeight() float32 {
	return b.Height/2 + b.Radius
}

type PlayerWorld struct {
	Gravity mgl32.Vec3
}

// PlayerBodyModule spawns the player and moves it on fixed ticks. The body
// turns with the main camera's look yaw and only walks while it carries
// PlayerInputEnabled.
type PlayerBodyModule struct {
	Spawn   mgl32.Vec3
	Radius  float32
	Height  float32
	Speed   float32
	Gravity float32
}

func DefaultPlayerBodyModule() PlayerBodyModule {
	return PlayerBodyModule{
		Spawn:   mgl32.Vec3{0, 0.5, 0},
		Radius:  0.5,
		Height:  1.0,
		Speed:   4.0,
		Gravity: 9.81,
	}
}

func (mod PlayerBodyModule) Install(app *App, cmd *Commands) {
	def := DefaultPlayerBodyModule()
	cmd.AddResources(&PlayerWorld{
		Gravity: mgl32.Vec3{0, -orDefault(mod.Gravity, def.Gravity), 0},
	})

	cmd.AddEntity(
		NewTransform(mod.Spawn),
		PlayerBodyComponent{
			Radius: orDefault(mod.Radius, def.Radius),
			Height: orDefault(mod.Height, def.Height),
			Speed:  orDefault(mod.Speed, def.Speed),
		},
		Player{},
		PlayerInputEnabled{},
	)

	app.UseSystem(
		System(playerBodySystem).
			InStage(FixedSimulate),
	)
}

type WalkIntent struct {
	Forward, Right float32
}

func playerWalkIntent(input *Input, kb *Keybinds) WalkIntent {
	var w WalkIntent
	if kb.Pressed(input, ActionPlayerForward) {
		w.Forward++
	}
	if kb.Pressed(input, ActionPlayerBackward) {
		w.Forward--
	}
	if kb.Pressed(input, ActionPlayerRight) {
		w.Right++
	}
	if kb.Pressed(input, ActionPlayerLeft) {
		w.Right--
	}
	return w
}

// StepPlayerBody advances the body by one fixed step. yaw is the heading
// the body should face; walk is ignored when enabled is false.
func StepPlayerBody(tr *TransformComponent, body *PlayerBodyComponent, gravity mgl32.Vec3, yaw float32, walk WalkIntent, enabled bool, dt float32) {
	tr.Rotation = mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})

	var horizontal mgl32.Vec3
	if enabled {
		dir := tr.Forward().Mul(walk.Forward).Add(tr.Right().Mul(walk.Right))
		dir[1] = 0
		if dir.LenSqr() > 1e-12 {
			horizontal = dir.Normalize().Mul(body.Speed)
		}
	}
	body.Velocity[0] = horizontal.X()
	body.Velocity[2] = horizontal.Z()

	if !body.Grounded {
		body.Velocity = body.Velocity.Add(gravity.Mul(dt))
	}
	tr.Position = tr.Position.Add(body.Velocity.Mul(dt))

	floor := body.HalfHeight()
	if tr.Position.Y() <= floor {
		tr.Position[1] = floor
		body.Velocity[1] = 0
		body.Grounded = true
	} else {
		body.Grounded = false
	}
}

func playerBodySystem(cmd *Commands, t *Time, input *Input, kb *Keybinds, world *PlayerWorld) {
	dt := t.FixedSeconds()
	if dt <= 0 {
		return
	}

	var yaw float32
	if _, look, ok := MakeQuery1[LookAccumulator](cmd).
		WithTypes(MainCamera{}).
		Single(); ok {
		yaw = look.Yaw
	}

	eid, tr, body, ok := MakeQuery2[TransformComponent, PlayerBodyComponent](cmd).
		WithTypes(Player{}).
		Single()
	if !ok {
		return
	}
	enabled := HasComponent[PlayerInputEnabled](cmd, eid)
	StepPlayerBody(tr, body, world.Gravity, yaw, playerWalkIntent(input, kb), enabled, dt)
}
