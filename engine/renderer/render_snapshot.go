package renderer

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderSkinnedAnimation is the skinning palette of one animated model for one frame:
// one world * inverse bind pose matrix per bone. Matrices is arena memory owned by the frame.
type RenderSkinnedAnimation struct {
	Matrices []mgl32.Mat4
}

// RenderObject is one draw submitted to a RenderSnapshot.
type RenderObject struct {
	// MaterialGroup is the render material group handle of the object's material.
	MaterialGroup uint64
	// Mesh is the render mesh handle.
	Mesh uint64
	// SkinnedAnimation is the skinning palette, or nil for static meshes.
	SkinnedAnimation *RenderSkinnedAnimation
	// WorldTransform places the mesh in the world.
	WorldTransform mgl32.Mat4
	// BoundingSphere is the mesh's world-space bounding sphere.
	BoundingSphere common.Sphere
	// CastsShadow reports whether the object is drawn into shadow maps.
	CastsShadow bool
	// Layer is the render layer bitmask.
	Layer uint32
}

// RenderSnapshot collects everything the renderer needs for one frame.
// It is filled during the scene's snapshot traversal and handed to Renderer.Render.
type RenderSnapshot struct {
	frameID           uint64
	frustum           *common.Frustum
	objects           []RenderObject
	skinnedAnimations []*RenderSkinnedAnimation
	culled            int
}

// NewRenderSnapshot creates an empty snapshot for the given frame.
//
// Parameters:
//   - frameID: monotonically increasing frame number
//
// Returns:
//   - *RenderSnapshot: the snapshot
func NewRenderSnapshot(frameID uint64) *RenderSnapshot {
	return &RenderSnapshot{frameID: frameID}
}

// Reset empties the snapshot for reuse on a new frame, keeping its capacity.
func (s *RenderSnapshot) Reset(frameID uint64) {
	s.frameID = frameID
	s.frustum = nil
	clear(s.objects)
	s.objects = s.objects[:0]
	clear(s.skinnedAnimations)
	s.skinnedAnimations = s.skinnedAnimations[:0]
	s.culled = 0
}

// FrameID returns the frame this snapshot belongs to.
func (s *RenderSnapshot) FrameID() uint64 {
	return s.frameID
}

// SetFrustum enables culling: objects whose bounding sphere lies outside f are dropped by AddRenderObject.
// Passing nil disables culling.
func (s *RenderSnapshot) SetFrustum(f *common.Frustum) {
	s.frustum = f
}

// AddRenderObject appends a draw to the snapshot unless it is culled by the frustum.
//
// Parameters:
//   - obj: the render object
func (s *RenderSnapshot) AddRenderObject(obj RenderObject) {
	if s.frustum != nil && !s.frustum.IntersectsSphere(obj.BoundingSphere) {
		s.culled++
		return
	}
	s.objects = append(s.objects, obj)
}

// AddRenderSkinnedAnimation hands a skinning palette to the snapshot, which keeps it alive until the frame ends.
//
// Parameters:
//   - anim: the palette built from the frame allocator
func (s *RenderSnapshot) AddRenderSkinnedAnimation(anim *RenderSkinnedAnimation) {
	s.skinnedAnimations = append(s.skinnedAnimations, anim)
}

// RenderObjects returns the draws collected so far. The slice is owned by the snapshot.
func (s *RenderSnapshot) RenderObjects() []RenderObject {
	return s.objects
}

// RenderSkinnedAnimations returns the palettes collected so far. The slice is owned by the snapshot.
func (s *RenderSnapshot) RenderSkinnedAnimations() []*RenderSkinnedAnimation {
	return s.skinnedAnimations
}

// CulledCount returns how many render objects were rejected by the frustum.
func (s *RenderSnapshot) CulledCount() int {
	return s.culled
}
