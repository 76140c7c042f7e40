package rtscam

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RtsCameraFrame is everything one frame of the camera pipeline reads besides
// the scene.
type RtsCameraFrame struct {
	// Input may be nil, which is the same as no input this frame.
	Input *Input
	// Dt is the frame delta in seconds.
	Dt float32
	// Ground may be nil, which is the same as never hitting ground.
	Ground GroundCaster
	Locks  []LockTarget
}

// LockTarget is a lock entity and its world position this frame.
type LockTarget struct {
	Entity   EntityId
	Position mgl32.Vec3
}

// UpdateRtsCamera runs one frame of the pipeline for the controller eid. The
// stages run in a fixed order: initialize, zoom, ground follow, eye, pan,
// lock, rotate, smooth. Translation is written only by the final smoothing
// step, and missing pieces of the scene skip the stage that needs them.
func UpdateRtsCamera(scene SceneAccessor, frame RtsCameraFrame, eid EntityId, cam *RtsCamera) {
	tr, ok := scene.Transform(eid)
	if !ok {
		return
	}
	input := frame.Input
	if !cam.Enabled {
		input = nil
	}

	if !cam.Initialized {
		initializeRtsCamera(scene, eid, cam, tr)
	}
	if input != nil {
		zoomRtsCamera(cam, input)
	}
	followGround(cam, tr, frame.Ground)
	updateEyes(scene, eid, cam)
	if input != nil {
		panRtsCamera(cam, tr, input, frame.Dt)
	}
	if lock, ok := nearestLock(frame.Locks, tr.Position); ok {
		cam.Target[0] = lock.Position.X()
		cam.Target[2] = lock.Position.Z()
	}
	if input != nil {
		rotateRtsCamera(cam, tr, input)
	}
	tr.Position = lerpVec3(tr.Position, cam.Target, 1-cam.Smoothness)
}

func initializeRtsCamera(scene SceneAccessor, eid EntityId, cam *RtsCamera, tr *TransformComponent) {
	cam.Target = tr.Position
	for _, eye := range eyesOf(scene, eid) {
		eye.Rotation = cam.eyePitch()
		eye.Position[2] = cam.CameraOffset()
	}
	cam.Initialized = true
}

// scrollSensitivity converts summed scroll lines to zoom.
const scrollSensitivity = 0.5

func zoomRtsCamera(cam *RtsCamera, input *Input) {
	cam.Zoom = clamp01(cam.Zoom + input.ScrollDelta()*scrollSensitivity)
}

func followGround(cam *RtsCamera, tr *TransformComponent, ground GroundCaster) {
	if ground == nil {
		return
	}
	hit, ok := ground.CastDown(tr.Position)
	if !ok {
		return
	}
	cam.Target[1] = hit.Position.Y() + cam.Height()
}

func updateEyes(scene SceneAccessor, eid EntityId, cam *RtsCamera) {
	for _, eye := range eyesOf(scene, eid) {
		eye.Rotation = cam.eyePitch()
		eye.Position[2] = lerp(eye.Position.Z(), cam.CameraOffset(), 1-cam.Smoothness)
	}
}

func eyesOf(scene SceneAccessor, eid EntityId) []*LocalTransformComponent {
	var eyes []*LocalTransformComponent
	for _, child := range scene.Children(eid) {
		if !scene.IsEye(child) {
			continue
		}
		if lt, ok := scene.LocalTransform(child); ok {
			eyes = append(eyes, lt)
		}
	}
	return eyes
}

func panRtsCamera(cam *RtsCamera, tr *TransformComponent, input *Input, dt float32) {
	forward := flatten(tr.Forward())
	right := flatten(tr.Right())

	var delta mgl32.Vec3
	if input.IsPressed(cam.KeyUp) {
		delta = delta.Add(forward.Mul(cam.Speed))
	}
	if input.IsPressed(cam.KeyDown) {
		delta = delta.Sub(forward.Mul(cam.Speed))
	}
	if input.IsPressed(cam.KeyLeft) {
		delta = delta.Sub(right.Mul(cam.Speed))
	}
	if input.IsPressed(cam.KeyRight) {
		delta = delta.Add(right.Mul(cam.Speed))
	}

	if delta.LenSqr() == 0 && !input.IsPressed(cam.ButtonRotate) {
		delta = edgePan(cam, input, forward, right)
	}

	cam.Target = cam.Target.Add(normalizeOrZero(delta).Mul(cam.Speed * dt * 2))
}

func edgePan(cam *RtsCamera, input *Input, forward, right mgl32.Vec3) mgl32.Vec3 {
	x, y, ok := input.Cursor()
	if !ok || input.WindowWidth <= 0 || input.WindowHeight <= 0 {
		return mgl32.Vec3{}
	}
	w, h := float32(input.WindowWidth), float32(input.WindowHeight)
	zone := h * cam.EdgePanWidth

	var delta mgl32.Vec3
	if x < zone {
		delta = delta.Sub(right.Mul(cam.Speed))
	}
	if x > w-zone {
		delta = delta.Add(right.Mul(cam.Speed))
	}
	if y < zone {
		delta = delta.Add(forward.Mul(cam.Speed))
	}
	if y > h-zone {
		delta = delta.Sub(forward.Mul(cam.Speed))
	}
	return delta
}

func rotateRtsCamera(cam *RtsCamera, tr *TransformComponent, input *Input) {
	if !input.IsPressed(cam.ButtonRotate) || input.WindowWidth <= 0 {
		return
	}
	dx := input.MotionDelta().X()
	if dx == 0 {
		return
	}
	// A drag across the full window width is half a turn.
	yaw := dx / float32(input.WindowWidth) * math.Pi
	tr.RotateLocalY(-yaw)
}

// nearestLock picks the lock closest to pos on the ground plane. Ties go to
// the lowest entity id.
func nearestLock(locks []LockTarget, pos mgl32.Vec3) (LockTarget, bool) {
	var best LockTarget
	bestDist := float32(math.Inf(1))
	found := false
	for _, lock := range locks {
		dx := lock.Position.X() - pos.X()
		dz := lock.Position.Z() - pos.Z()
		dist := dx*dx + dz*dz
		if !found || dist < bestDist || (dist == bestDist && lock.Entity < best.Entity) {
			best, bestDist, found = lock, dist, true
		}
	}
	return best, found
}

// flatten projects v onto the ground plane and renormalizes it.
func flatten(v mgl32.Vec3) mgl32.Vec3 {
	return normalizeOrZero(mgl32.Vec3{v.X(), 0, v.Z()})
}

func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
