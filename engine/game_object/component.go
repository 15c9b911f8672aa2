package game_object

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
)

// Component is behaviour attached to a GameObject. The owning object forwards its lifecycle to every component.
type Component interface {
	// OnAddedToGameObject is called once when the component is added to obj.
	//
	// Parameters:
	//   - obj: the owning object
	OnAddedToGameObject(obj GameObject)

	// OnAddedToScene is called when the owning object enters a scene.
	OnAddedToScene()

	// OnRemovedFromScene is called when the owning object leaves a scene.
	OnRemovedFromScene()

	// OnUpdate advances the component by deltaTime seconds.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	OnUpdate(deltaTime float32)
}

// RenderComponent is a Component that contributes render objects to each frame's snapshot.
type RenderComponent interface {
	Component

	// OnRenderSnapshot adds the component's draws to snapshot, allocating frame memory from allocator.
	//
	// Parameters:
	//   - snapshot: the frame being built
	//   - allocator: the frame-scoped arena
	OnRenderSnapshot(snapshot *renderer.RenderSnapshot, allocator renderer.FrameAllocator)
}

// PoseComponent is a Component whose update is split into a parallel-safe prepare phase and a serial commit phase.
// PreparePose may only touch the component itself and shared read-only resources; CommitPose may touch the scene.
type PoseComponent interface {
	Component

	// PreparePose runs the parallel-safe part of an update.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	PreparePose(deltaTime float32)

	// CommitPose runs the serial part of an update.
	CommitPose()
}

// GetComponent returns the first component of obj with type T.
//
// Parameters:
//   - obj: the object to search
//
// Returns:
//   - T: the component, or the zero value
//   - bool: whether one was found
func GetComponent[T Component](obj GameObject) (T, bool) {
	for _, c := range obj.Components() {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}
