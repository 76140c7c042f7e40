package rtscam

import (
	"github.com/go-gl/mathgl/mgl32"
)

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate),
	)
}

// TransformHierarchySystem derives the world transform of every child from
// its parent's world transform and its local transform. Deep hierarchies
// settle over repeated passes.
func TransformHierarchySystem(cmd *Commands) {
	ecs := cmd.Ecs()

	for pass := 0; pass < 8; pass++ {
		changed := false
		MakeQuery3[LocalTransformComponent, Parent, TransformComponent](cmd).Map(func(eid EntityId, local *LocalTransformComponent, parent *Parent, world *TransformComponent) bool {
			parentWorld, ok := GetComponent[TransformComponent](ecs, parent.Entity)
			if !ok {
				return true
			}

			pScale := scaleOrOne(parentWorld.Scale)
			pRot := rotation(parentWorld.Rotation)
			lScale := scaleOrOne(local.Scale)

			// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos)
			scaledLocalPos := mgl32.Vec3{
				local.Position.X() * pScale.X(),
				local.Position.Y() * pScale.Y(),
				local.Position.Z() * pScale.Z(),
			}
			newPos := parentWorld.Position.Add(pRot.Rotate(scaledLocalPos))
			newRot := pRot.Mul(rotation(local.Rotation)).Normalize()
			newScale := mgl32.Vec3{
				pScale.X() * lScale.X(),
				pScale.Y() * lScale.Y(),
				pScale.Z() * lScale.Z(),
			}

			if newPos != world.Position || newRot != world.Rotation || newScale != world.Scale {
				world.Position = newPos
				world.Rotation = newRot
				world.Scale = newScale
				changed = true
			}
			return true
		})
		if !changed {
			return
		}
	}
}

// ChildrenIndex maps every parent to its children, each list in ascending
// id order.
func ChildrenIndex(cmd *Commands) map[EntityId][]EntityId {
	children := make(map[EntityId][]EntityId)
	MakeQuery1[Parent](cmd).Map(func(child EntityId, p *Parent) bool {
		children[p.Entity] = append(children[p.Entity], child)
		return true
	})
	return children
}
