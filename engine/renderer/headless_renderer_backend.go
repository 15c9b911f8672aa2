package renderer

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// headlessRendererBackend draws nothing and only logs what it was given.
type headlessRendererBackend struct{}

var _ RendererBackend = &headlessRendererBackend{}

func newHeadlessRendererBackend() RendererBackend {
	return &headlessRendererBackend{}
}

func (b *headlessRendererBackend) Submit(snapshot *RenderSnapshot) error {
	stats := StatsFromSnapshot(snapshot)
	common.Logger().Debug("renderer: frame submitted",
		"frame", stats.FrameID,
		"objects", stats.RenderObjects,
		"skinned", stats.SkinnedAnimations,
		"culled", stats.Culled,
	)
	return nil
}
