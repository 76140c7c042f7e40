package rtscam

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScene is a map-backed SceneAccessor.
type fakeScene struct {
	transforms map[EntityId]*TransformComponent
	locals     map[EntityId]*LocalTransformComponent
	children   map[EntityId][]EntityId
	eyes       map[EntityId]bool
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		transforms: make(map[EntityId]*TransformComponent),
		locals:     make(map[EntityId]*LocalTransformComponent),
		children:   make(map[EntityId][]EntityId),
		eyes:       make(map[EntityId]bool),
	}
}

func (s *fakeScene) Transform(eid EntityId) (*TransformComponent, bool) {
	tr, ok := s.transforms[eid]
	return tr, ok
}

func (s *fakeScene) LocalTransform(eid EntityId) (*LocalTransformComponent, bool) {
	lt, ok := s.locals[eid]
	return lt, ok
}

func (s *fakeScene) Children(eid EntityId) []EntityId { return s.children[eid] }
func (s *fakeScene) IsEye(eid EntityId) bool          { return s.eyes[eid] }

const (
	testCamera EntityId = 1
	testEye    EntityId = 2
)

// rig builds a camera at pos with one eye child.
func rig(pos mgl32.Vec3) *fakeScene {
	s := newFakeScene()
	tr := NewTransform(pos)
	s.transforms[testCamera] = &tr
	lt := NewLocalTransform(mgl32.Vec3{})
	s.locals[testEye] = &lt
	s.children[testCamera] = []EntityId{testEye}
	s.eyes[testEye] = true
	return s
}

// stubGround reports a fixed height, or misses when hit is false.
type stubGround struct {
	y     float32
	hit   bool
	casts []mgl32.Vec3
}

func (g *stubGround) CastDown(origin mgl32.Vec3) (GroundHit, bool) {
	g.casts = append(g.casts, origin)
	if !g.hit {
		return GroundHit{}, false
	}
	return GroundHit{Position: mgl32.Vec3{origin.X(), g.y, origin.Z()}, Distance: origin.Y() - g.y}, true
}

func initializedCamera() RtsCamera {
	cam := NewRtsCamera()
	cam.Initialized = true
	return cam
}

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestUpdateRtsCamera_Initialize(t *testing.T) {
	scene := rig(mgl32.Vec3{3, 4, 5})
	cam := NewRtsCamera()
	cam.Target = mgl32.Vec3{100, 100, 100}

	UpdateRtsCamera(scene, RtsCameraFrame{Dt: 0.016}, testCamera, &cam)

	assert.True(t, cam.Initialized)
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, cam.Target)
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, scene.transforms[testCamera].Position, "no jump on attach")

	eye := scene.locals[testEye]
	assert.InDelta(t, cam.CameraOffset(), eye.Position.Z(), 1e-5)
	want := mgl32.QuatRotate(cam.Angle-math.Pi/2, mgl32.Vec3{1, 0, 0})
	assert.True(t, eye.Rotation.ApproxEqualThreshold(want, 1e-5))
}

func TestUpdateRtsCamera_SnapWithZeroSmoothness(t *testing.T) {
	scene := rig(mgl32.Vec3{0, 0, 0})
	cam := initializedCamera()
	cam.Smoothness = 0
	cam.Target = mgl32.Vec3{5, 0, 5}

	UpdateRtsCamera(scene, RtsCameraFrame{Dt: 0.016}, testCamera, &cam)

	assert.Equal(t, mgl32.Vec3{5, 0, 5}, scene.transforms[testCamera].Position)
}

func TestUpdateRtsCamera_ConvergesWithoutOvershoot(t *testing.T) {
	for _, smoothness := range []float32{0, 0.3, 0.9, 0.99} {
		scene := rig(mgl32.Vec3{0, 0, 0})
		cam := initializedCamera()
		cam.Smoothness = smoothness
		p := mgl32.Vec3{10, 0, -4}
		cam.SnapTo(p)
		cam.SnapTo(p)

		prev := p.Len()
		for i := 0; i < 200; i++ {
			UpdateRtsCamera(scene, RtsCameraFrame{Dt: 0.016}, testCamera, &cam)
			pos := scene.transforms[testCamera].Position
			assert.LessOrEqual(t, pos.X(), p.X()+1e-4, "smoothness %v", smoothness)
			assert.GreaterOrEqual(t, pos.Z(), p.Z()-1e-4, "smoothness %v", smoothness)
			dist := p.Sub(pos).Len()
			assert.LessOrEqual(t, dist, prev+1e-5, "smoothness %v", smoothness)
			prev = dist
		}
		assert.Equal(t, p, cam.Target)
	}
}

func TestUpdateRtsCamera_ZoomClamps(t *testing.T) {
	tests := []struct {
		name   string
		start  float32
		events []ScrollEvent
		want   float32
	}{
		{"line in", 0, []ScrollEvent{{Unit: ScrollLine, Y: 1}}, 0.5},
		{"clamped high", 0.8, []ScrollEvent{{Unit: ScrollLine, Y: 3}}, 1},
		{"clamped low", 0.2, []ScrollEvent{{Unit: ScrollLine, Y: -5}}, 0},
		{"pixels scaled", 0, []ScrollEvent{{Unit: ScrollPixel, Y: 200}}, 0.1},
		{"summed", 0, []ScrollEvent{{Unit: ScrollLine, Y: 0.5}, {Unit: ScrollLine, Y: 0.5}}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := rig(mgl32.Vec3{})
			cam := initializedCamera()
			cam.Zoom = tt.start
			input := &Input{Scroll: tt.events}

			UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.016}, testCamera, &cam)
			assert.InDelta(t, tt.want, cam.Zoom, 1e-5)
		})
	}
}

func TestUpdateRtsCamera_ZoomStaysClampedOverManyFrames(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	cam := initializedCamera()
	input := &Input{}
	for i := 0; i < 20; i++ {
		input.Scroll = []ScrollEvent{{Unit: ScrollLine, Y: 1}}
		UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.016}, testCamera, &cam)
		assert.LessOrEqual(t, cam.Zoom, float32(1))
	}
	assert.Equal(t, float32(1), cam.Zoom)
}

func TestUpdateRtsCamera_KeyPan(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	cam := initializedCamera()
	cam.Speed = 3
	input := &Input{}
	input.Press(KeyW)

	UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.5}, testCamera, &cam)

	// Forward is -Z; 3 units/s * 0.5s * 2.
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -3}, cam.Target, 1e-5)
}

func TestUpdateRtsCamera_DiagonalNormalized(t *testing.T) {
	single := func(keys ...int) mgl32.Vec3 {
		scene := rig(mgl32.Vec3{})
		cam := initializedCamera()
		input := &Input{}
		for _, k := range keys {
			input.Press(k)
		}
		UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 1}, testCamera, &cam)
		return cam.Target
	}

	one := single(KeyW).Len()
	two := single(KeyW, KeyA).Len()
	assert.InDelta(t, one, two, 1e-5)

	diag := single(KeyW, KeyA)
	assert.InDelta(t, diag.X(), diag.Z(), 1e-5, "up+left heads along -X,-Z equally")

	opposite := single(KeyW, KeyS)
	assert.Equal(t, mgl32.Vec3{}, opposite, "opposing keys cancel to zero")
}

func TestUpdateRtsCamera_PanFollowsYaw(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	scene.transforms[testCamera].Rotation = mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})
	cam := initializedCamera()
	input := &Input{}
	input.Press(KeyW)

	UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.5}, testCamera, &cam)
	assertVec3InDelta(t, mgl32.Vec3{-1, 0, 0}, cam.Target, 1e-5)
}

func TestUpdateRtsCamera_EdgePan(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want mgl32.Vec3
	}{
		{"left", 5, 300, mgl32.Vec3{-1, 0, 0}},
		{"right", 795, 300, mgl32.Vec3{1, 0, 0}},
		{"top", 400, 5, mgl32.Vec3{0, 0, -1}},
		{"bottom", 400, 595, mgl32.Vec3{0, 0, 1}},
		{"center", 400, 300, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := rig(mgl32.Vec3{})
			cam := initializedCamera()
			input := &Input{
				MouseX: tt.x, MouseY: tt.y, CursorInWindow: true,
				WindowWidth: 800, WindowHeight: 600,
			}
			UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.5}, testCamera, &cam)
			assertVec3InDelta(t, tt.want, cam.Target, 1e-5)
		})
	}
}

func TestUpdateRtsCamera_EdgePanSuppressed(t *testing.T) {
	corner := func(mut func(*Input)) mgl32.Vec3 {
		scene := rig(mgl32.Vec3{})
		cam := initializedCamera()
		input := &Input{MouseX: 1, MouseY: 1, CursorInWindow: true, WindowWidth: 800, WindowHeight: 600}
		mut(input)
		UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.5}, testCamera, &cam)
		return cam.Target
	}

	assert.Equal(t, mgl32.Vec3{}, corner(func(in *Input) { in.CursorInWindow = false }), "no cursor")
	assert.Equal(t, mgl32.Vec3{}, corner(func(in *Input) { in.Press(MouseButtonMiddle) }), "rotating")
	assert.Equal(t, mgl32.Vec3{}, corner(func(in *Input) { in.WindowWidth, in.WindowHeight = 0, 0 }), "no window")

	keys := corner(func(in *Input) { in.Press(KeyD) })
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, keys, 1e-5)
}

func TestUpdateRtsCamera_LockPrecedence(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	cam := initializedCamera()
	cam.Speed = 1000
	input := &Input{}
	input.Press(KeyW)
	input.Press(KeyD)

	frame := RtsCameraFrame{
		Input: input,
		Dt:    1,
		Locks: []LockTarget{{Entity: 9, Position: mgl32.Vec3{7, 42, -3}}},
	}
	UpdateRtsCamera(scene, frame, testCamera, &cam)

	assert.Equal(t, float32(7), cam.Target.X())
	assert.Equal(t, float32(-3), cam.Target.Z())
	assert.Equal(t, float32(0), cam.Target.Y(), "lock never touches height")
}

func TestUpdateRtsCamera_NearestLockWins(t *testing.T) {
	scene := rig(mgl32.Vec3{10, 0, 0})
	cam := initializedCamera()
	cam.Target = mgl32.Vec3{10, 0, 0}

	frame := RtsCameraFrame{Locks: []LockTarget{
		{Entity: 3, Position: mgl32.Vec3{0, 0, 0}},
		{Entity: 4, Position: mgl32.Vec3{12, 50, 1}},
	}}
	UpdateRtsCamera(scene, frame, testCamera, &cam)
	assert.Equal(t, float32(12), cam.Target.X())
	assert.Equal(t, float32(1), cam.Target.Z())
}

func TestNearestLock_TieBreak(t *testing.T) {
	locks := []LockTarget{
		{Entity: 8, Position: mgl32.Vec3{1, 0, 0}},
		{Entity: 5, Position: mgl32.Vec3{-1, 0, 0}},
		{Entity: 6, Position: mgl32.Vec3{0, 0, 1}},
	}
	lock, ok := nearestLock(locks, mgl32.Vec3{})
	require.True(t, ok)
	assert.Equal(t, EntityId(5), lock.Entity)

	_, ok = nearestLock(nil, mgl32.Vec3{})
	assert.False(t, ok)
}

func TestUpdateRtsCamera_GroundFollow(t *testing.T) {
	scene := rig(mgl32.Vec3{2, 10, 2})
	cam := initializedCamera()
	cam.Target = mgl32.Vec3{2, 10, 2}
	ground := &stubGround{y: 1, hit: true}

	UpdateRtsCamera(scene, RtsCameraFrame{Ground: ground, Dt: 0.016}, testCamera, &cam)

	assert.InDelta(t, 1+cam.Height(), cam.Target.Y(), 1e-5)
	require.Len(t, ground.casts, 1, "one ray per frame")
	assert.Equal(t, mgl32.Vec3{2, 10, 2}, ground.casts[0], "cast from the pre-update translation")
}

func TestUpdateRtsCamera_GroundLossResilience(t *testing.T) {
	scene := rig(mgl32.Vec3{0, 10, 0})
	cam := initializedCamera()
	ground := &stubGround{y: 2, hit: true}

	UpdateRtsCamera(scene, RtsCameraFrame{Ground: ground, Dt: 0.016}, testCamera, &cam)
	lastY := cam.Target.Y()

	ground.hit = false
	for i := 0; i < 50; i++ {
		UpdateRtsCamera(scene, RtsCameraFrame{Ground: ground, Dt: 0.016}, testCamera, &cam)
		require.Equal(t, lastY, cam.Target.Y(), "frame %d", i)
	}

	UpdateRtsCamera(scene, RtsCameraFrame{Dt: 0.016}, testCamera, &cam)
	assert.Equal(t, lastY, cam.Target.Y(), "no caster at all is a miss")
}

func TestUpdateRtsCamera_EyeSmoothsTowardOffset(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	cam := initializedCamera()
	cam.Smoothness = 0.5
	scene.locals[testEye].Position[2] = 0

	UpdateRtsCamera(scene, RtsCameraFrame{Dt: 0.016}, testCamera, &cam)

	eye := scene.locals[testEye]
	assert.InDelta(t, cam.CameraOffset()*0.5, eye.Position.Z(), 1e-5)
	want := mgl32.QuatRotate(cam.Angle-math.Pi/2, mgl32.Vec3{1, 0, 0})
	assert.True(t, eye.Rotation.ApproxEqualThreshold(want, 1e-5), "pitch is rewritten every frame")
}

func TestUpdateRtsCamera_MissingEye(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	delete(scene.locals, testEye)
	scene.children[testCamera] = append(scene.children[testCamera], 77)
	cam := NewRtsCamera()
	cam.Smoothness = 0

	require.NotPanics(t, func() {
		UpdateRtsCamera(scene, RtsCameraFrame{Dt: 0.016}, testCamera, &cam)
	})
	assert.True(t, cam.Initialized)
}

func TestUpdateRtsCamera_MissingTransform(t *testing.T) {
	cam := NewRtsCamera()
	require.NotPanics(t, func() {
		UpdateRtsCamera(newFakeScene(), RtsCameraFrame{}, testCamera, &cam)
	})
	assert.False(t, cam.Initialized)
}

func TestUpdateRtsCamera_Rotate(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	cam := initializedCamera()
	input := &Input{WindowWidth: 800, WindowHeight: 600}
	input.Press(MouseButtonMiddle)
	input.MouseMotion = []mgl32.Vec2{{200, 5}, {200, -3}}

	UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.016}, testCamera, &cam)

	// Half the window width is a quarter turn, to the right for a rightward drag.
	forward := scene.transforms[testCamera].Forward()
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, forward, 1e-5)
}

func TestUpdateRtsCamera_RotateNeedsButtonAndWindow(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	cam := initializedCamera()
	input := &Input{WindowWidth: 800}
	input.MouseMotion = []mgl32.Vec2{{400, 0}}

	UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.016}, testCamera, &cam)
	assert.Equal(t, mgl32.QuatIdent(), scene.transforms[testCamera].Rotation)

	input.Press(MouseButtonMiddle)
	input.WindowWidth = 0
	UpdateRtsCamera(scene, RtsCameraFrame{Input: input, Dt: 0.016}, testCamera, &cam)
	assert.Equal(t, mgl32.QuatIdent(), scene.transforms[testCamera].Rotation)
}

func TestUpdateRtsCamera_Disabled(t *testing.T) {
	scene := rig(mgl32.Vec3{})
	cam := initializedCamera()
	cam.Enabled = false
	cam.Smoothness = 0
	input := &Input{WindowWidth: 800, WindowHeight: 600, CursorInWindow: true}
	input.Press(KeyW)
	input.Press(MouseButtonMiddle)
	input.Scroll = []ScrollEvent{{Unit: ScrollLine, Y: 1}}
	input.MouseMotion = []mgl32.Vec2{{400, 0}}

	frame := RtsCameraFrame{
		Input:  input,
		Dt:     1,
		Ground: &stubGround{y: 1, hit: true},
		Locks:  []LockTarget{{Entity: 9, Position: mgl32.Vec3{4, 0, 4}}},
	}
	UpdateRtsCamera(scene, frame, testCamera, &cam)

	assert.Zero(t, cam.Zoom, "zoom ignored")
	assert.Equal(t, mgl32.QuatIdent(), scene.transforms[testCamera].Rotation, "rotate ignored")
	assertVec3InDelta(t, mgl32.Vec3{4, 1 + cam.Height(), 4}, cam.Target, 1e-5)
	assertVec3InDelta(t, cam.Target, scene.transforms[testCamera].Position, 1e-5)
}

func TestUpdateRtsCamera_NilInput(t *testing.T) {
	scene := rig(mgl32.Vec3{1, 2, 3})
	cam := initializedCamera()
	cam.Target = mgl32.Vec3{1, 2, 3}

	require.NotPanics(t, func() {
		UpdateRtsCamera(scene, RtsCameraFrame{Dt: 0.016}, testCamera, &cam)
	})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Target)
}
