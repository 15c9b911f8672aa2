package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a perspective projection matrix.
// Uses the WebGPU clip space depth range [0, 1] rather than the OpenGL [-1, 1] range mgl32.Perspective targets.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
// A degenerate eye/center pair yields the identity matrix.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	if eye.ApproxEqual(center) {
		return mgl32.Ident4()
	}
	return mgl32.LookAtV(eye, center, up)
}

// ComposeTRS builds a model matrix as T * R * S.
//
// Parameters:
//   - translation: translation in parent space
//   - rotation: unit quaternion orientation
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the composed column-major matrix
func ComposeTRS(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	m := rotation.Normalize().Mat4()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] *= scale[col]
		}
	}
	m[12], m[13], m[14] = translation[0], translation[1], translation[2]
	return m
}

// DecomposeTRS splits an affine matrix without shear into translation, rotation and scale.
// A negative determinant is folded into the X scale.
//
// Parameters:
//   - m: the matrix to decompose
//
// Returns:
//   - mgl32.Vec3: translation
//   - mgl32.Quat: rotation
//   - mgl32.Vec3: scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	translation := m.Col(3).Vec3()
	sx, sy, sz := mgl32.Extract3DScale(m)
	scale := mgl32.Vec3{sx, sy, sz}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}

	var rot mgl32.Mat4
	for col := 0; col < 3; col++ {
		s := scale[col]
		if s == 0 {
			s = 1
		}
		for row := 0; row < 3; row++ {
			rot[col*4+row] = m[col*4+row] / s
		}
	}
	rot[15] = 1
	return translation, mgl32.Mat4ToQuat(rot).Normalize(), scale
}

// TransformPoint applies the full affine transform of m to p.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// MaxScale returns the largest axis scale encoded in m.
func MaxScale(m mgl32.Mat4) float32 {
	return mgl32.ExtractMaxScale(m)
}
