package material

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the albedo/diffuse RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithMetallic is an option builder that sets the metallic factor of the material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithRenderMaterialGroup is an option builder that sets the render material group handle.
//
// Parameters:
//   - group: the group handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the group option to a material
func WithRenderMaterialGroup(group uint64) MaterialBuilderOption {
	return func(m *material) {
		m.renderMaterialGroup = group
	}
}

// WithLoadState is an option builder that overrides the initial load state.
//
// Parameters:
//   - state: the initial load state
//
// Returns:
//   - MaterialBuilderOption: a function that applies the load state option to a material
func WithLoadState(state common.LoadState) MaterialBuilderOption {
	return func(m *material) {
		m.loadState.Store(int32(state))
	}
}
