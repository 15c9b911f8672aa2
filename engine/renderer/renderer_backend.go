package renderer

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeHeadless selects the backend that only records frame statistics.
	BackendTypeHeadless RendererBackendType = iota

	// BackendTypeCustom marks a renderer whose backend was supplied through WithBackend.
	BackendTypeCustom
)

// FrameStats summarizes one submitted snapshot.
type FrameStats struct {
	// FrameID is the snapshot's frame number.
	FrameID uint64
	// RenderObjects is the number of draws submitted.
	RenderObjects int
	// SkinnedAnimations is the number of skinning palettes submitted.
	SkinnedAnimations int
	// BoneMatrices is the total number of palette matrices.
	BoneMatrices int
	// MaterialGroups is the number of distinct render material groups drawn.
	MaterialGroups int
	// ShadowCasters is the number of draws flagged as shadow casting.
	ShadowCasters int
	// Culled is the number of draws rejected by frustum culling.
	Culled int
}

// RendererBackend consumes render snapshots. The Renderer serializes calls to Submit.
type RendererBackend interface {
	// Submit draws the snapshot. The snapshot and its palettes are only valid for the duration of the call.
	//
	// Parameters:
	//   - snapshot: the frame to draw
	//
	// Returns:
	//   - error: an error if the frame could not be drawn
	Submit(snapshot *RenderSnapshot) error
}

// StatsFromSnapshot computes the FrameStats of a snapshot.
//
// Parameters:
//   - snapshot: the snapshot to summarize
//
// Returns:
//   - FrameStats: the summary
func StatsFromSnapshot(snapshot *RenderSnapshot) FrameStats {
	stats := FrameStats{
		FrameID:           snapshot.FrameID(),
		RenderObjects:     len(snapshot.RenderObjects()),
		SkinnedAnimations: len(snapshot.RenderSkinnedAnimations()),
		Culled:            snapshot.CulledCount(),
	}
	groups := make(map[uint64]struct{})
	for _, obj := range snapshot.RenderObjects() {
		groups[obj.MaterialGroup] = struct{}{}
		if obj.CastsShadow {
			stats.ShadowCasters++
		}
	}
	stats.MaterialGroups = len(groups)
	for _, anim := range snapshot.RenderSkinnedAnimations() {
		stats.BoneMatrices += len(anim.Matrices)
	}
	return stats
}
