package rtscam

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransform_Basis(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, tr.Forward())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, tr.Back())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, tr.Right())
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, tr.Left())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, tr.Down())
}

func TestTransform_ZeroValueIsIdentity(t *testing.T) {
	var tr TransformComponent
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, tr.Forward())
}

func TestTransform_RotateLocalY(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{})
	tr.RotateLocalY(math.Pi / 4)
	tr.RotateLocalY(math.Pi / 4)

	f := tr.Forward()
	assert.InDelta(t, -1, f.X(), 1e-5)
	assert.InDelta(t, 0, f.Y(), 1e-5)
	assert.InDelta(t, 0, f.Z(), 1e-5)
	assert.InDelta(t, 1, tr.Rotation.Len(), 1e-5)
}
