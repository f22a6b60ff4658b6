package camrig

import (
	"github.com/go-gl/mathgl/mgl32"
)

type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Forward is the local -Z axis in world space.
func (tr *TransformComponent) Forward() mgl32.Vec3 {
	return tr.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Right is the local +X axis in world space.
func (tr *TransformComponent) Right() mgl32.Vec3 {
	return tr.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (tr *TransformComponent) Up() mgl32.Vec3 {
	return tr.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// CameraComponent marks a viewpoint. Exactly one camera is Active at a time.
type CameraComponent struct {
	Active bool
	Fov    float32 // degrees
	Near   float32
	Far    float32
}

func NewCamera(active bool) CameraComponent {
	return CameraComponent{Active: active, Fov: 70, Near: 0.1, Far: 500}
}

// ViewMatrix builds the world-to-view matrix for a camera transform.
func (c *CameraComponent) ViewMatrix(tr *TransformComponent) mgl32.Mat4 {
	return mgl32.LookAtV(tr.Position, tr.Position.Add(tr.Forward()), tr.Up())
}

func (c *CameraComponent) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// Player tags the simulated player body.
type Player struct{}

// MainCamera tags the player-following camera.
type MainCamera struct{}

// FreeCamera tags the detached free-roam camera.
type FreeCamera struct{}

// PlayerInputEnabled is present on the player while it may respond to
// movement keys.
type PlayerInputEnabled struct{}
