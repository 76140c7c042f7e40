package rtscam

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is an entity's world transform. For root entities it is
// authored directly; for children it is derived from LocalTransformComponent.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent is a child's transform relative to its parent.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func NewLocalTransform(position mgl32.Vec3) LocalTransformComponent {
	return LocalTransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Forward is -Z in the transform's frame.
func (t *TransformComponent) Forward() mgl32.Vec3 {
	return rotation(t.Rotation).Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *TransformComponent) Back() mgl32.Vec3 {
	return t.Forward().Mul(-1)
}

func (t *TransformComponent) Right() mgl32.Vec3 {
	return rotation(t.Rotation).Rotate(mgl32.Vec3{1, 0, 0})
}

func (t *TransformComponent) Left() mgl32.Vec3 {
	return t.Right().Mul(-1)
}

func (t *TransformComponent) Down() mgl32.Vec3 {
	return rotation(t.Rotation).Rotate(mgl32.Vec3{0, -1, 0})
}

// RotateLocalY turns the transform about its own Y axis.
func (t *TransformComponent) RotateLocalY(angle float32) {
	t.Rotation = rotation(t.Rotation).Mul(mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})).Normalize()
}

// rotation treats the zero quaternion of a zero-valued component as identity.
func rotation(q mgl32.Quat) mgl32.Quat {
	if q.W == 0 && q.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return q
}

func scaleOrOne(s mgl32.Vec3) mgl32.Vec3 {
	if s == (mgl32.Vec3{}) {
		return mgl32.Vec3{1, 1, 1}
	}
	return s
}
