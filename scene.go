package rtscam

// SceneAccessor is what the camera pipeline needs from the host scene.
type SceneAccessor interface {
	Transform(eid EntityId) (*TransformComponent, bool)
	LocalTransform(eid EntityId) (*LocalTransformComponent, bool)
	// Children returns child ids in ascending order.
	Children(eid EntityId) []EntityId
	IsEye(eid EntityId) bool
}

// ecsScene serves SceneAccessor from the ECS. The parent index is built once
// per frame.
type ecsScene struct {
	ecs      *Ecs
	children map[EntityId][]EntityId
}

func newEcsScene(cmd *Commands) *ecsScene {
	return &ecsScene{
		ecs:      cmd.Ecs(),
		children: ChildrenIndex(cmd),
	}
}

func (s *ecsScene) Transform(eid EntityId) (*TransformComponent, bool) {
	return GetComponent[TransformComponent](s.ecs, eid)
}

func (s *ecsScene) LocalTransform(eid EntityId) (*LocalTransformComponent, bool) {
	return GetComponent[LocalTransformComponent](s.ecs, eid)
}

func (s *ecsScene) Children(eid EntityId) []EntityId {
	return s.children[eid]
}

func (s *ecsScene) IsEye(eid EntityId) bool {
	return HasComponent[RtsCameraEye](s.ecs, eid)
}
