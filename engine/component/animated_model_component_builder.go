package component

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/material"
)

// AnimatedModelComponentBuilderOption is a functional option for configuring an AnimatedModelComponent during construction.
type AnimatedModelComponentBuilderOption func(*animatedModelComponent)

// WithModel is an option builder that sets the model and, optionally, its materials.
// With no materials the slots stay empty, one material is applied to every mesh, and otherwise there must be one per mesh.
//
// Parameters:
//   - m: a loaded model with a skeleton
//   - materials: zero, one or one-per-mesh loaded materials
//
// Returns:
//   - AnimatedModelComponentBuilderOption: a function that applies the model to a component
func WithModel(m model.Model, materials ...material.Material) AnimatedModelComponentBuilderOption {
	return func(c *animatedModelComponent) {
		switch len(materials) {
		case 0:
			c.SetModel(m)
		case 1:
			c.SetModelWithMaterial(m, materials[0])
		default:
			c.SetModelWithMaterials(m, materials)
		}
	}
}

// WithAnimation is an option builder that sets the initial animation. It requires a model.
//
// Parameters:
//   - clip: the clip to play
//   - playbackType: once or looping
//
// Returns:
//   - AnimatedModelComponentBuilderOption: a function that applies the animation to a component
func WithAnimation(clip *model.AnimationClip, playbackType PlaybackType) AnimatedModelComponentBuilderOption {
	return func(c *animatedModelComponent) {
		c.SetAnimation(clip, playbackType)
	}
}

// WithBlendType is an option builder that sets the curve used when blending clips on the blendline.
//
// Parameters:
//   - blendType: the curve
//
// Returns:
//   - AnimatedModelComponentBuilderOption: a function that applies the blend type to a component
func WithBlendType(blendType animator.BlendType) AnimatedModelComponentBuilderOption {
	return func(c *animatedModelComponent) {
		c.blendType = blendType
	}
}

// WithPlaybackSpeed is an option builder that sets the playback speed multiplier.
//
// Parameters:
//   - speed: the multiplier
//
// Returns:
//   - AnimatedModelComponentBuilderOption: a function that applies the speed to a component
func WithPlaybackSpeed(speed float32) AnimatedModelComponentBuilderOption {
	return func(c *animatedModelComponent) {
		c.speed = speed
	}
}

// WithShadowCasting is an option builder that sets whether render objects cast shadows.
//
// Parameters:
//   - enabled: the flag
//
// Returns:
//   - AnimatedModelComponentBuilderOption: a function that applies the flag to a component
func WithShadowCasting(enabled bool) AnimatedModelComponentBuilderOption {
	return func(c *animatedModelComponent) {
		c.shadowCasting = enabled
	}
}

// WithRenderLayer is an option builder that sets the render layer bitmask.
//
// Parameters:
//   - layer: the layer mask
//
// Returns:
//   - AnimatedModelComponentBuilderOption: a function that applies the layer to a component
func WithRenderLayer(layer uint32) AnimatedModelComponentBuilderOption {
	return func(c *animatedModelComponent) {
		c.renderLayer = layer
	}
}
