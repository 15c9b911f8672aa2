package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestComposeDecomposeRoundTrip(t *testing.T) {
	translation := mgl32.Vec3{1, -2, 3}
	rotation := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	scale := mgl32.Vec3{2, 2, 0.5}

	m := ComposeTRS(translation, rotation, scale)
	gotT, gotR, gotS := DecomposeTRS(m)

	if !gotT.ApproxEqualThreshold(translation, eps) {
		t.Errorf("translation = %v", gotT)
	}
	if !gotR.OrientationEqualThreshold(rotation, eps) {
		t.Errorf("rotation = %v", gotR)
	}
	if !gotS.ApproxEqualThreshold(scale, eps) {
		t.Errorf("scale = %v", gotS)
	}
}

func TestComposeTRSMatchesMatrixProduct(t *testing.T) {
	translation := mgl32.Vec3{4, 5, 6}
	rotation := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	scale := mgl32.Vec3{1, 2, 3}

	want := mgl32.Translate3D(4, 5, 6).Mul4(rotation.Mat4()).Mul4(mgl32.Scale3D(1, 2, 3))
	if got := ComposeTRS(translation, rotation, scale); !got.ApproxEqualThreshold(want, eps) {
		t.Errorf("ComposeTRS = %v, want %v", got, want)
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := LookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	tests := []struct {
		name   string
		sphere Sphere
		want   bool
	}{
		{"in front", Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}, true},
		{"behind camera", Sphere{Center: mgl32.Vec3{0, 0, 20}, Radius: 1}, false},
		{"far left", Sphere{Center: mgl32.Vec3{-100, 0, 0}, Radius: 1}, false},
		{"straddling edge", Sphere{Center: mgl32.Vec3{-6.2, 0, 0}, Radius: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IntersectsSphere(tt.sphere); got != tt.want {
				t.Errorf("IntersectsSphere = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookAtDegenerateIsIdentity(t *testing.T) {
	p := mgl32.Vec3{1, 1, 1}
	if got := LookAt(p, p, mgl32.Vec3{0, 1, 0}); got != mgl32.Ident4() {
		t.Errorf("LookAt = %v", got)
	}
}
