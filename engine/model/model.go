package model

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// model is the implementation of the Model interface.
type model struct {
	name       string
	loadState  atomic.Int32
	skeleton   *Skeleton
	meshes     []RenderMesh
	animations []*AnimationClip
	aabb       common.AABB
}

// Model defines the interface for a skinned model resource.
// A Model bundles the render meshes, the skeleton they are bound to, the animation clips authored for it
// and a model-space bounding box. It is produced by the Loader and shared read-only by every component
// that instances it.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// LoadState reports how far loading of this model has progressed.
	// Components only accept models in the common.LoadStateLoaded state.
	//
	// Returns:
	//   - common.LoadState: the current load state
	LoadState() common.LoadState

	// SetLoadState updates the load state. Safe to call from a loader goroutine.
	//
	// Parameters:
	//   - state: the new load state
	SetLoadState(state common.LoadState)

	// Skeleton retrieves the bone hierarchy for this model.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// MeshCount returns the number of render meshes.
	//
	// Returns:
	//   - int: the mesh count
	MeshCount() int

	// Mesh returns the render mesh at index i.
	//
	// Parameters:
	//   - i: the mesh index
	//
	// Returns:
	//   - *RenderMesh: the mesh, owned by the model
	Mesh(i int) *RenderMesh

	// MeshIndexByName returns the index of the named mesh, or -1 if not found.
	//
	// Parameters:
	//   - name: the mesh name
	//
	// Returns:
	//   - int: the mesh index, or -1
	MeshIndexByName(name string) int

	// AABB returns the model-space axis-aligned bounding box.
	//
	// Returns:
	//   - common.AABB: the bounding box
	AABB() common.AABB

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// Animation returns the clip with the given name, or nil.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - *AnimationClip: the clip, or nil if not found
	Animation(name string) *AnimationClip

	// AnimationCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// AnimationNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the animation clip names
	AnimationNames() []string

	// GetAnimationIndex returns the index of an animation by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - int: the animation index, or -1 if not found
	GetAnimationIndex(name string) int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// The model starts in common.LoadStateLoaded unless WithLoadState says otherwise.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	m.loadState.Store(int32(common.LoadStateLoaded))
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) LoadState() common.LoadState {
	return common.LoadState(m.loadState.Load())
}

func (m *model) SetLoadState(state common.LoadState) {
	m.loadState.Store(int32(state))
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) MeshCount() int {
	return len(m.meshes)
}

func (m *model) Mesh(i int) *RenderMesh {
	return &m.meshes[i]
}

func (m *model) MeshIndexByName(name string) int {
	for i := range m.meshes {
		if m.meshes[i].Name == name {
			return i
		}
	}
	return -1
}

func (m *model) AABB() common.AABB {
	return m.aabb
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) Animation(name string) *AnimationClip {
	if i := m.GetAnimationIndex(name); i >= 0 {
		return m.animations[i]
	}
	return nil
}

func (m *model) AnimationCount() int {
	return len(m.animations)
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, anim := range m.animations {
		names[i] = anim.Name
	}
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	for i, anim := range m.animations {
		if anim.Name == name {
			return i
		}
	}
	return -1
}
