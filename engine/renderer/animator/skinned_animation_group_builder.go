package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// SkinnedAnimationGroupBuilderOption is a functional option for configuring a SkinnedAnimationGroup during construction.
type SkinnedAnimationGroupBuilderOption func(*skinnedAnimationGroup)

// WithAnimation is an option builder that attaches a clip at a blendline position during construction.
//
// Parameters:
//   - clip: the clip to attach
//   - blendlinePosition: the clip's coordinate on the blendline
//
// Returns:
//   - SkinnedAnimationGroupBuilderOption: a function that attaches the clip to a group
func WithAnimation(clip *model.AnimationClip, blendlinePosition float32) SkinnedAnimationGroupBuilderOption {
	return func(g *skinnedAnimationGroup) {
		g.AttachAnimation(clip, blendlinePosition)
	}
}
