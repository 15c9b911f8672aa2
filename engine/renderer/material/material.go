package material

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// material is the implementation of the Material interface.
type material struct {
	name                string
	baseColor           [4]float32
	metallic            float32
	roughness           float32
	renderMaterialGroup uint64
	loadState           atomic.Int32
}

// Material defines the interface for a render material: surface properties plus the handle of the
// render material group the renderer batches draws by.
//
// Surface properties (name, base color, metallic, roughness) are set at load time and are read-only
// through this interface. The load state is mutable so asynchronous loaders can publish progress.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// Metallic retrieves the metallic factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// RenderMaterialGroup retrieves the handle of the render material group this material belongs to.
	// Render objects sharing a group can be drawn with the same pipeline state.
	//
	// Returns:
	//   - uint64: the group handle
	RenderMaterialGroup() uint64

	// LoadState reports how far loading of this material has progressed.
	//
	// Returns:
	//   - common.LoadState: the current load state
	LoadState() common.LoadState

	// SetLoadState updates the load state. Safe to call from a loader goroutine.
	//
	// Parameters:
	//   - state: the new load state
	SetLoadState(state common.LoadState)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance with the specified options applied.
// The material starts in common.LoadStateLoaded unless WithLoadState says otherwise.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions to configure the Material
//
// Returns:
//   - Material: a new instance of Material configured with the provided options
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
		roughness: 1,
	}
	m.loadState.Store(int32(common.LoadStateLoaded))
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) RenderMaterialGroup() uint64 {
	return m.renderMaterialGroup
}

func (m *material) LoadState() common.LoadState {
	return common.LoadState(m.loadState.Load())
}

func (m *material) SetLoadState(state common.LoadState) {
	m.loadState.Store(int32(state))
}
