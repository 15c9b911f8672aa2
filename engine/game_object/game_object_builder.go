package game_object

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: the object name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithRegistry sets the Registry the GameObject is stored in. Defaults to DefaultRegistry.
//
// Parameters:
//   - r: the registry, ignored when nil
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the registry
func WithRegistry(r *Registry) GameObjectBuilderOption {
	return func(obj *gameObject) {
		if r != nil {
			obj.registry = r
		}
	}
}

// WithEnabled sets whether the GameObject is enabled for updates and rendering. Objects start enabled.
//
// Parameters:
//   - enabled: true to update and render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial local translation of the GameObject.
//
// Parameters:
//   - p: the translation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.translation = p
	}
}

// WithRotation sets the initial local orientation of the GameObject.
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(q mgl32.Quat) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = q.Normalize()
	}
}

// WithScale sets the initial local scale of the GameObject.
//
// Parameters:
//   - s: the per-axis scale
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(s mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = s
	}
}

// WithComponents adds components to the GameObject once it is constructed.
//
// Parameters:
//   - components: the components to add
//
// Returns:
//   - GameObjectBuilderOption: functional option to add the components
func WithComponents(components ...Component) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.pendingComponents = append(obj.pendingComponents, components...)
	}
}
