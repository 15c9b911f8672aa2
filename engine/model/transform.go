package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// IdentityTransform returns the transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes the transform as T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return common.ComposeTRS(t.Translation, t.Rotation, t.Scale)
}

// LerpTransform interpolates between a and b. Translation and scale are interpolated linearly
// and rotation uses a normalized lerp along the shortest arc.
//
// Parameters:
//   - a: the transform at amount 0
//   - b: the transform at amount 1
//   - amount: the interpolation factor, usually within [0, 1]
//
// Returns:
//   - Transform: the interpolated transform
func LerpTransform(a, b Transform, amount float32) Transform {
	return Transform{
		Translation: lerpVec3(a.Translation, b.Translation, amount),
		Rotation:    nlerpQuat(a.Rotation, b.Rotation, amount),
		Scale:       lerpVec3(a.Scale, b.Scale, amount),
	}
}

func lerpVec3(a, b mgl32.Vec3, amount float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(amount))
}

// nlerpQuat flips b onto a's hemisphere before lerping; mgl32.QuatNlerp does not.
func nlerpQuat(a, b mgl32.Quat, amount float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatNlerp(a, b, amount)
}
