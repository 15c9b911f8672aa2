package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the bone hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithMeshes is an option builder that sets the render meshes of the Model.
// Meshes without inverse bind pose matrices inherit the skeleton's, so apply WithSkeleton first.
//
// Parameters:
//   - meshes: the render meshes
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...RenderMesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = meshes
		if m.skeleton == nil {
			return
		}
		for i := range m.meshes {
			if m.meshes[i].InverseBindPoseMatrices == nil {
				m.meshes[i].InverseBindPoseMatrices = m.skeleton.InverseBindMatrices()
			}
		}
	}
}

// WithAnimations is an option builder that sets the animation clips of the Model.
//
// Parameters:
//   - animations: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations ...*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = animations
	}
}

// WithAABB is an option builder that sets the model-space bounding box.
//
// Parameters:
//   - aabb: the bounding box
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding box option to a model
func WithAABB(aabb common.AABB) ModelBuilderOption {
	return func(m *model) {
		m.aabb = aabb
	}
}

// WithLoadState is an option builder that overrides the initial load state.
//
// Parameters:
//   - state: the initial load state
//
// Returns:
//   - ModelBuilderOption: a function that applies the load state option to a model
func WithLoadState(state common.LoadState) ModelBuilderOption {
	return func(m *model) {
		m.loadState.Store(int32(state))
	}
}
