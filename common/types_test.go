package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func TestAABBTransformTranslatesCorners(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 2, 1}}
	got := box.Transform(mgl32.Translate3D(10, 0, -5))

	if !got.Min.ApproxEqualThreshold(mgl32.Vec3{9, 0, -6}, eps) {
		t.Errorf("min = %v", got.Min)
	}
	if !got.Max.ApproxEqualThreshold(mgl32.Vec3{11, 2, -4}, eps) {
		t.Errorf("max = %v", got.Max)
	}
}

func TestAABBTransformRotationStaysAxisAligned(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(45))
	got := box.Transform(rot)

	want := float32(1.41421)
	if !mgl32.FloatEqualThreshold(got.Max[0], want, eps) || !mgl32.FloatEqualThreshold(got.Min[2], -want, eps) {
		t.Errorf("rotated box = %+v, want half-extent %v on x/z", got, want)
	}
	if !mgl32.FloatEqualThreshold(got.Max[1], 1, eps) {
		t.Errorf("y extent changed: %v", got.Max[1])
	}
}

func TestAABBBoundingSphereUsesHalfDiagonal(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 2, 2}}
	s := box.BoundingSphere()

	if !s.Center.ApproxEqualThreshold(mgl32.Vec3{1, 1, 1}, eps) {
		t.Errorf("center = %v", s.Center)
	}
	if !mgl32.FloatEqualThreshold(s.Radius, 1.7320508, eps) {
		t.Errorf("radius = %v", s.Radius)
	}
}

func TestSphereTransformScalesRadiusByMaxAxis(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{0, 1, 0}, Radius: 2}
	m := mgl32.Translate3D(5, 0, 0).Mul4(mgl32.Scale3D(1, 3, 2))
	got := s.Transform(m)

	if !got.Center.ApproxEqualThreshold(mgl32.Vec3{5, 3, 0}, eps) {
		t.Errorf("center = %v", got.Center)
	}
	if !mgl32.FloatEqualThreshold(got.Radius, 6, eps) {
		t.Errorf("radius = %v", got.Radius)
	}
}

func TestOOBBCorners(t *testing.T) {
	o := OOBB{
		Local:     AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
		Transform: mgl32.Translate3D(0, 5, 0),
	}
	corners := o.Corners()
	if !corners[0].ApproxEqualThreshold(mgl32.Vec3{0, 5, 0}, eps) {
		t.Errorf("corner 0 = %v", corners[0])
	}
	if !corners[7].ApproxEqualThreshold(mgl32.Vec3{1, 6, 1}, eps) {
		t.Errorf("corner 7 = %v", corners[7])
	}
}

func TestLoadStateString(t *testing.T) {
	cases := map[LoadState]string{
		LoadStateNotLoaded: "not_loaded",
		LoadStateLoading:   "loading",
		LoadStateLoaded:    "loaded",
		LoadStateFailed:    "failed",
		LoadState(42):      "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Errorf("Coalesce ints = %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce empty = %q", got)
	}
}
