package rtscam

import "github.com/go-gl/mathgl/mgl32"

type GizmoType int

const (
	GizmoLine GizmoType = iota
	GizmoSphere
)

var (
	ColorGroundRay  = [4]float32{1, 1, 0, 1}
	ColorGroundHit  = [4]float32{1, 0.5, 0, 1}
	ColorTarget     = [4]float32{0.6, 0.2, 0.8, 1}
	ColorTargetLine = [4]float32{1, 0.4, 0.7, 1}
)

// GizmoComponent is a wireframe shape for debug drawing.
type GizmoComponent struct {
	Type  GizmoType
	Color [4]float32

	// Line: Position is the start. Sphere: Position is the center.
	Position mgl32.Vec3
	LineEnd  mgl32.Vec3
	Radius   float32
}

func NewGizmoLine(start, end mgl32.Vec3, color [4]float32) GizmoComponent {
	return GizmoComponent{
		Type:     GizmoLine,
		Position: start,
		LineEnd:  end,
		Color:    color,
	}
}

func NewGizmoSphere(center mgl32.Vec3, radius float32, color [4]float32) GizmoComponent {
	return GizmoComponent{
		Type:     GizmoSphere,
		Position: center,
		Radius:   radius,
		Color:    color,
	}
}

// DebugGizmos collects the current frame's debug shapes for whatever draws
// them. Shapes are cleared at the start of every frame.
type DebugGizmos struct {
	Enabled bool
	Shapes  []GizmoComponent
}

func (g *DebugGizmos) Add(shape GizmoComponent) {
	if g == nil || !g.Enabled {
		return
	}
	g.Shapes = append(g.Shapes, shape)
}

func (g *DebugGizmos) Clear() {
	g.Shapes = g.Shapes[:0]
}

func debugGizmosClearSystem(g *DebugGizmos) {
	g.Clear()
}
