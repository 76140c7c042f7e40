package rtscam

import (
	"maps"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type GroundShape int

const (
	GroundBox GroundShape = iota
	GroundSphere
)

// RtsCameraGround marks geometry the camera follows. The shape is centered on
// the entity's TransformComponent and scaled by it; box rotation is ignored.
type RtsCameraGround struct {
	Shape       GroundShape
	HalfExtents mgl32.Vec3
	Radius      float32
}

type GroundHit struct {
	Entity   EntityId
	Position mgl32.Vec3
	// Distance along the ray. Negative when the ray starts inside the shape.
	Distance float32
}

// GroundCaster answers the controller's one question about the world: what
// ground lies straight below origin.
type GroundCaster interface {
	CastDown(origin mgl32.Vec3) (GroundHit, bool)
}

// maxGroundCells caps the grid cells one volume or one ray may touch.
// Larger volumes are kept aside and tested on every cast.
const maxGroundCells = 4096

type groundVolume struct {
	shape  GroundShape
	bounds AABBComponent
	center mgl32.Vec3
	radius float32
}

type groundSource struct {
	transform TransformComponent
	ground    RtsCameraGround
}

// GroundIndex is the built-in GroundCaster over RtsCameraGround entities.
// UpdateGroundIndexSystem rebuilds it when ground entities change.
type GroundIndex struct {
	MaxDistance float32
	Gizmos      *DebugGizmos

	grid      *SpatialHashGrid
	volumes   map[EntityId]groundVolume
	oversized []EntityId
	sources   map[EntityId]groundSource
	builds    int
}

func NewGroundIndex(cellSize, maxDistance float32) *GroundIndex {
	if maxDistance <= 0 {
		maxDistance = 1000
	}
	return &GroundIndex{
		MaxDistance: maxDistance,
		grid:        NewSpatialHashGrid(cellSize),
		volumes:     make(map[EntityId]groundVolume),
		sources:     make(map[EntityId]groundSource),
	}
}

func (g *GroundIndex) Clear() {
	g.grid.Clear()
	clear(g.volumes)
	clear(g.sources)
	g.oversized = g.oversized[:0]
}

func (g *GroundIndex) Len() int {
	return len(g.volumes)
}

// Insert registers ground with the given world transform. Each entity is
// inserted once between calls to Clear.
func (g *GroundIndex) Insert(eid EntityId, tr TransformComponent, ground RtsCameraGround) {
	scale := scaleOrOne(tr.Scale)
	abs := mgl32.Vec3{
		float32(math.Abs(float64(scale.X()))),
		float32(math.Abs(float64(scale.Y()))),
		float32(math.Abs(float64(scale.Z()))),
	}

	vol := groundVolume{shape: ground.Shape, center: tr.Position}
	switch ground.Shape {
	case GroundSphere:
		vol.radius = ground.Radius * max(abs.X(), abs.Y(), abs.Z())
		r := mgl32.Vec3{vol.radius, vol.radius, vol.radius}
		vol.bounds = AABBComponent{Min: tr.Position.Sub(r), Max: tr.Position.Add(r)}
	default:
		half := mgl32.Vec3{
			ground.HalfExtents.X() * abs.X(),
			ground.HalfExtents.Y() * abs.Y(),
			ground.HalfExtents.Z() * abs.Z(),
		}
		vol.bounds = AABBComponent{Min: tr.Position.Sub(half), Max: tr.Position.Add(half)}
	}

	g.volumes[eid] = vol
	g.sources[eid] = groundSource{transform: tr, ground: ground}
	if g.grid.CellSpan(vol.bounds) > maxGroundCells {
		g.oversized = append(g.oversized, eid)
		return
	}
	g.grid.Insert(eid, vol.bounds)
}

// syncSources rebuilds the index from ground unless it already holds exactly
// that ground. It reports whether a rebuild happened.
func (g *GroundIndex) syncSources(ground map[EntityId]groundSource) bool {
	if maps.Equal(g.sources, ground) {
		return false
	}
	ids := slices.Sorted(maps.Keys(ground))
	g.Clear()
	for _, eid := range ids {
		src := ground[eid]
		g.Insert(eid, src.transform, src.ground)
	}
	g.builds++
	return true
}

// candidates lists the volumes a segment may hit, bounded by
// maxGroundCells grid lookups.
func (g *GroundIndex) candidates(a, b mgl32.Vec3) []EntityId {
	if g.grid.CellSpan(segmentBounds(a, b)) > maxGroundCells {
		return slices.Collect(maps.Keys(g.volumes))
	}
	return append(g.grid.QuerySegment(a, b), g.oversized...)
}

// Hits returns every ground intersection of the ray within maxDistance,
// nearest first. dir must be normalized.
func (g *GroundIndex) Hits(origin, dir mgl32.Vec3, maxDistance float32) []GroundHit {
	end := origin.Add(dir.Mul(maxDistance))

	var hits []GroundHit
	for _, eid := range g.candidates(origin, end) {
		vol := g.volumes[eid]

		var t float32
		var ok bool
		switch vol.shape {
		case GroundSphere:
			t, ok = raySphere(origin, dir, vol.center, vol.radius)
		default:
			t, ok = rayAABB(origin, dir, vol.bounds)
		}
		if !ok || t > maxDistance {
			continue
		}
		hits = append(hits, GroundHit{
			Entity:   eid,
			Position: origin.Add(dir.Mul(t)),
			Distance: t,
		})
	}

	slices.SortFunc(hits, func(a, b GroundHit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		case a.Entity < b.Entity:
			return -1
		case a.Entity > b.Entity:
			return 1
		}
		return 0
	})
	return hits
}

func (g *GroundIndex) CastDown(origin mgl32.Vec3) (GroundHit, bool) {
	down := mgl32.Vec3{0, -1, 0}
	hits := g.Hits(origin, down, g.MaxDistance)

	if len(hits) == 0 {
		g.Gizmos.Add(NewGizmoLine(origin, origin.Add(down.Mul(g.MaxDistance)), ColorGroundRay))
		return GroundHit{}, false
	}
	g.Gizmos.Add(NewGizmoLine(origin, hits[0].Position, ColorGroundRay))
	g.Gizmos.Add(NewGizmoSphere(hits[0].Position, 0.05, ColorGroundHit))
	return hits[0], true
}

// rayAABB is the slab test. A ray starting inside the box reports the entry
// face behind it, so a camera that sank into ground is pushed back on top.
func rayAABB(origin, dir mgl32.Vec3, box AABBComponent) (float32, bool) {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		lo, hi := box.Min[axis], box.Max[axis]
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = max(tNear, t1)
		tFar = min(tFar, t2)
		if tNear > tFar || tFar < 0 {
			return 0, false
		}
	}
	if math.IsInf(float64(tNear), -1) {
		return 0, false
	}
	return tNear, true
}

func raySphere(origin, dir, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	tFar := -b + sq
	if tFar < 0 {
		return 0, false
	}
	return -b - sq, true
}

// UpdateGroundIndexSystem rebuilds the index when a ground entity was added,
// removed, moved or reshaped.
func UpdateGroundIndexSystem(cmd *Commands, index *GroundIndex) {
	ground := make(map[EntityId]groundSource, len(index.sources))
	MakeQuery2[RtsCameraGround, TransformComponent](cmd).Map(func(eid EntityId, g *RtsCameraGround, tr *TransformComponent) bool {
		ground[eid] = groundSource{transform: *tr, ground: *g}
		return true
	})
	if index.syncSources(ground) {
		cameraLogger(cmd.Logger()).Debugf("ground index rebuilt, %d volumes, %d oversized", index.Len(), len(index.oversized))
	}
}
