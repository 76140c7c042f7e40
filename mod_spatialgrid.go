package rtscam

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABBComponent struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Contains reports whether p lies inside or on the box.
func (b AABBComponent) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// SpatialHashGrid buckets entity ids by the grid cells their boxes overlap.
// It is a broadphase: queries return candidates, not exact overlaps.
type SpatialHashGrid struct {
	cellSize float32
	cells    map[uint64][]EntityId
}

func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	if cellSize <= 0 {
		cellSize = 2.0
	}
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]EntityId),
	}
}

func (grid *SpatialHashGrid) Clear() {
	clear(grid.cells)
}

func (grid *SpatialHashGrid) Insert(id EntityId, aabb AABBComponent) {
	grid.eachCell(aabb, func(key uint64) {
		grid.cells[key] = append(grid.cells[key], id)
	})
}

func (grid *SpatialHashGrid) QueryAABB(aabb AABBComponent) []EntityId {
	unique := make(set[EntityId])
	var results []EntityId

	grid.eachCell(aabb, func(key uint64) {
		for _, id := range grid.cells[key] {
			if _, seen := unique[id]; !seen {
				unique[id] = struct{}{}
				results = append(results, id)
			}
		}
	})
	return results
}

// QuerySegment returns candidates whose cells overlap the bounding box of
// the segment from a to b.
func (grid *SpatialHashGrid) QuerySegment(a, b mgl32.Vec3) []EntityId {
	return grid.QueryAABB(segmentBounds(a, b))
}

func segmentBounds(a, b mgl32.Vec3) AABBComponent {
	return AABBComponent{
		Min: mgl32.Vec3{min(a.X(), b.X()), min(a.Y(), b.Y()), min(a.Z(), b.Z())},
		Max: mgl32.Vec3{max(a.X(), b.X()), max(a.Y(), b.Y()), max(a.Z(), b.Z())},
	}
}

// CellSpan is the number of cells aabb overlaps, +Inf when any bound is not
// finite.
func (grid *SpatialHashGrid) CellSpan(aabb AABBComponent) float64 {
	span := 1.0
	for axis := 0; axis < 3; axis++ {
		lo := float64(aabb.Min[axis] / grid.cellSize)
		hi := float64(aabb.Max[axis] / grid.cellSize)
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
			return math.Inf(1)
		}
		span *= max(math.Floor(hi)-math.Floor(lo)+1, 1)
	}
	return span
}

func (grid *SpatialHashGrid) eachCell(aabb AABBComponent, visit func(key uint64)) {
	minX, maxX := grid.getCellIndex(aabb.Min.X()), grid.getCellIndex(aabb.Max.X())
	minY, maxY := grid.getCellIndex(aabb.Min.Y()), grid.getCellIndex(aabb.Max.Y())
	minZ, maxZ := grid.getCellIndex(aabb.Min.Z()), grid.getCellIndex(aabb.Max.Z())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				visit(grid.hashKey(x, y, z))
			}
		}
	}
}

func (grid *SpatialHashGrid) getCellIndex(pos float32) int {
	return int(math.Floor(float64(pos / grid.cellSize)))
}

func (grid *SpatialHashGrid) hashKey(x, y, z int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
