// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadState describes how far a resource has progressed through loading.
type LoadState int

const (
	// LoadStateNotLoaded is the zero value: nothing has been requested yet.
	LoadStateNotLoaded LoadState = iota
	// LoadStateLoading means an asynchronous load is in flight.
	LoadStateLoading
	// LoadStateLoaded means the resource is ready for use.
	LoadStateLoaded
	// LoadStateFailed means loading finished with an error.
	LoadStateFailed
)

// String returns a readable name for the state.
func (s LoadState) String() string {
	switch s {
	case LoadStateNotLoaded:
		return "not_loaded"
	case LoadStateLoading:
		return "loading"
	case LoadStateLoaded:
		return "loaded"
	case LoadStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sphere is a bounding sphere.
type Sphere struct {
	// Center is the sphere's center point.
	Center mgl32.Vec3
	// Radius is the sphere's radius.
	Radius float32
}

// Transform returns the sphere moved into the space described by m.
// The center is transformed as a point and the radius is scaled by the largest axis scale of m.
//
// Parameters:
//   - m: the transform to apply
//
// Returns:
//   - Sphere: the transformed sphere
func (s Sphere) Transform(m mgl32.Mat4) Sphere {
	return Sphere{
		Center: TransformPoint(m, s.Center),
		Radius: s.Radius * MaxScale(m),
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	// Min is the corner with the smallest coordinates.
	Min mgl32.Vec3
	// Max is the corner with the largest coordinates.
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
//
// Returns:
//   - [8]mgl32.Vec3: corners ordered by (x, y, z) bit pattern, min first
func (b AABB) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out[i] = c
	}
	return out
}

// Transform transforms all eight corners by m and returns the component-wise bounds of the result.
// The box stays axis aligned, so it is loose for rotated transforms.
//
// Parameters:
//   - m: the transform to apply
//
// Returns:
//   - AABB: the enclosing axis-aligned box of the transformed corners
func (b AABB) Transform(m mgl32.Mat4) AABB {
	out := AABB{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, c := range b.Corners() {
		p := TransformPoint(m, c)
		for axis := 0; axis < 3; axis++ {
			out.Min[axis] = min(out.Min[axis], p[axis])
			out.Max[axis] = max(out.Max[axis], p[axis])
		}
	}
	return out
}

// BoundingSphere returns a sphere centered on the box with a radius of half the box diagonal.
func (b AABB) BoundingSphere() Sphere {
	return Sphere{
		Center: b.Center(),
		Radius: b.Size().Len() * 0.5,
	}
}

// OOBB is an oriented bounding box: a local-space AABB together with the transform that places it in the world.
type OOBB struct {
	// Local is the box in object space.
	Local AABB
	// Transform maps object space to world space.
	Transform mgl32.Mat4
}

// Corners returns the eight world-space corners of the box.
func (o OOBB) Corners() [8]mgl32.Vec3 {
	corners := o.Local.Corners()
	for i, c := range corners {
		corners[i] = TransformPoint(o.Transform, c)
	}
	return corners
}
