package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the part of a scene a GameObject needs to know about. It is implemented by scene.Scene.
type Scene interface {
	// Name returns the scene identifier.
	Name() string
}

type gameObject struct {
	mu sync.RWMutex

	name      string
	handle    Handle
	registry  *Registry
	enabled   atomic.Bool
	destroyed atomic.Bool

	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3

	parent     *gameObject
	children   []*gameObject
	scene      Scene
	components []Component

	pendingComponents []Component
}

// GameObject defines the interface for a scene entity: a local transform inside a parent/child hierarchy,
// membership of at most one scene and a list of components.
//
// Every GameObject is registered in a Registry on construction. Other systems keep weak references to it
// through its Handle, which stops resolving once the object is destroyed.
type GameObject interface {
	// ID returns the object's unique identifier within its registry.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Handle returns the object's weak reference.
	//
	// Returns:
	//   - Handle: the handle
	Handle() Handle

	// Registry returns the registry the object is stored in.
	//
	// Returns:
	//   - *Registry: the registry
	Registry() *Registry

	// Enabled returns whether this object is enabled for updates and rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for updates and rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the local translation.
	//
	// Returns:
	//   - mgl32.Vec3: the translation relative to the parent
	Position() mgl32.Vec3

	// SetPosition sets the local translation.
	//
	// Parameters:
	//   - p: the translation relative to the parent
	SetPosition(p mgl32.Vec3)

	// Rotation returns the local orientation.
	//
	// Returns:
	//   - mgl32.Quat: the orientation relative to the parent
	Rotation() mgl32.Quat

	// SetRotation sets the local orientation.
	//
	// Parameters:
	//   - q: the orientation relative to the parent
	SetRotation(q mgl32.Quat)

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the per-axis scale
	Scale() mgl32.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: the per-axis scale
	SetScale(s mgl32.Vec3)

	// LocalMatrix composes the local transform as T * R * S.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	LocalMatrix() mgl32.Mat4

	// SetLocalMatrix replaces the local transform with the decomposition of m.
	//
	// Parameters:
	//   - m: an affine matrix without shear
	SetLocalMatrix(m mgl32.Mat4)

	// WorldMatrix returns the parent's world matrix times the local matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// Parent returns the parent object, or nil for roots.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns a copy of the child list.
	//
	// Returns:
	//   - []GameObject: the children
	Children() []GameObject

	// AddChild makes child a child of this object. A child that already has a parent is moved.
	// The child joins this object's scene.
	//
	// Parameters:
	//   - child: the object to adopt
	AddChild(child GameObject)

	// RemoveFromParent detaches the object from its parent and from the scene it joined through the parent.
	RemoveFromParent()

	// Scene returns the scene the object is in, or nil.
	//
	// Returns:
	//   - Scene: the scene or nil
	Scene() Scene

	// SetScene moves the object and its descendants into scene, or out of any scene when nil.
	// Components are notified through OnAddedToScene and OnRemovedFromScene.
	//
	// Parameters:
	//   - scene: the new scene, or nil
	SetScene(scene Scene)

	// AddComponent attaches c to the object and calls its OnAddedToGameObject hook.
	// When the object is already in a scene, OnAddedToScene follows.
	//
	// Parameters:
	//   - c: the component
	AddComponent(c Component)

	// Components returns a copy of the component list.
	//
	// Returns:
	//   - []Component: the components
	Components() []Component

	// Destroy removes the object from its parent and scene, destroys its children and releases its handle.
	Destroy()

	// Destroyed reports whether Destroy was called.
	//
	// Returns:
	//   - bool: true after Destroy
	Destroyed() bool
}

var _ GameObject = &gameObject{}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by objects created without WithRegistry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewGameObject creates a new GameObject configured with the given options and registers it.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		registry: defaultRegistry,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	obj.handle = obj.registry.Register(obj)
	for _, c := range obj.pendingComponents {
		obj.AddComponent(c)
	}
	obj.pendingComponents = nil
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.handle.ID()
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Handle() Handle {
	return g.handle
}

func (g *gameObject) Registry() *Registry {
	return g.registry
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.translation
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.translation = p
}

func (g *gameObject) Rotation() mgl32.Quat {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) SetRotation(q mgl32.Quat) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = q.Normalize()
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) LocalMatrix() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return common.ComposeTRS(g.translation, g.rotation, g.scale)
}

func (g *gameObject) SetLocalMatrix(m mgl32.Mat4) {
	t, r, s := common.DecomposeTRS(m)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.translation, g.rotation, g.scale = t, r, s
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	local := g.LocalMatrix()
	g.mu.RLock()
	parent := g.parent
	g.mu.RUnlock()
	if parent == nil {
		return local
	}
	return parent.WorldMatrix().Mul4(local)
}

func (g *gameObject) Parent() GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

func (g *gameObject) AddChild(child GameObject) {
	c, ok := child.(*gameObject)
	if !ok || c == nil {
		panic("game_object: unsupported child implementation")
	}
	if c == g {
		panic("game_object: an object cannot be its own child")
	}
	for p := g; p != nil; p = p.parentLocked() {
		if p == c {
			panic("game_object: adding the child would create a cycle")
		}
	}
	if c.Parent() != nil {
		c.RemoveFromParent()
	}

	c.mu.Lock()
	c.parent = g
	c.mu.Unlock()

	g.mu.Lock()
	g.children = append(g.children, c)
	scene := g.scene
	g.mu.Unlock()

	if scene != nil && c.Scene() != scene {
		c.SetScene(scene)
	}
}

func (g *gameObject) parentLocked() *gameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parent
}

func (g *gameObject) RemoveFromParent() {
	parent := g.parentLocked()
	if parent == nil {
		return
	}

	parent.mu.Lock()
	for i, c := range parent.children {
		if c == g {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	parent.mu.Unlock()

	g.mu.Lock()
	g.parent = nil
	g.mu.Unlock()

	if g.Scene() != nil {
		g.SetScene(nil)
	}
}

func (g *gameObject) Scene() Scene {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scene
}

func (g *gameObject) SetScene(scene Scene) {
	g.mu.Lock()
	previous := g.scene
	g.scene = scene
	children := append([]*gameObject(nil), g.children...)
	components := append([]Component(nil), g.components...)
	g.mu.Unlock()

	if previous != nil {
		for _, c := range components {
			c.OnRemovedFromScene()
		}
	}
	if scene != nil {
		for _, c := range components {
			c.OnAddedToScene()
		}
	}
	for _, child := range children {
		child.SetScene(scene)
	}
}

func (g *gameObject) AddComponent(c Component) {
	if c == nil {
		panic("game_object: component cannot be nil")
	}
	g.mu.Lock()
	g.components = append(g.components, c)
	scene := g.scene
	g.mu.Unlock()

	c.OnAddedToGameObject(g)
	if scene != nil {
		c.OnAddedToScene()
	}
}

func (g *gameObject) Components() []Component {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Component(nil), g.components...)
}

func (g *gameObject) Destroy() {
	if !g.destroyed.CompareAndSwap(false, true) {
		return
	}
	g.RemoveFromParent()
	if g.Scene() != nil {
		g.SetScene(nil)
	}
	for _, child := range g.Children() {
		child.Destroy()
	}
	g.registry.Release(g.handle)
}

func (g *gameObject) Destroyed() bool {
	return g.destroyed.Load()
}
