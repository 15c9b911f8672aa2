package model

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func bone(name string, parent int32, translation mgl32.Vec3) Bone {
	t := IdentityTransform()
	t.Translation = translation
	return Bone{Name: name, ParentIndex: parent, LocalTransform: t}
}

func TestNewSkeletonRejectsBadHierarchies(t *testing.T) {
	tests := []struct {
		name  string
		bones []Bone
	}{
		{"duplicate name", []Bone{bone("root", -1, mgl32.Vec3{}), bone("root", 0, mgl32.Vec3{})}},
		{"parent after child", []Bone{bone("a", 1, mgl32.Vec3{}), bone("b", -1, mgl32.Vec3{})}},
		{"self parent", []Bone{bone("a", 0, mgl32.Vec3{})}},
		{"unnamed", []Bone{bone("", -1, mgl32.Vec3{})}},
		{"parent below -1", []Bone{bone("a", -2, mgl32.Vec3{})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSkeleton(tt.bones); !errors.Is(err, ErrInvalidSkeleton) {
				t.Fatalf("NewSkeleton error = %v, want ErrInvalidSkeleton", err)
			}
		})
	}
}

func TestNewSkeletonIndexesBones(t *testing.T) {
	s, err := NewSkeleton([]Bone{
		bone("root", -1, mgl32.Vec3{}),
		bone("spine", 0, mgl32.Vec3{0, 1, 0}),
		bone("prop", -1, mgl32.Vec3{}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.NodeIndexByName("spine"); got != 1 {
		t.Errorf("NodeIndexByName(spine) = %d", got)
	}
	if got := s.NodeIndexByName("tail"); got != -1 {
		t.Errorf("NodeIndexByName(tail) = %d, want -1", got)
	}
	if len(s.RootBoneIndices) != 2 || s.RootBoneIndices[0] != 0 || s.RootBoneIndices[1] != 2 {
		t.Errorf("RootBoneIndices = %v", s.RootBoneIndices)
	}
}

func TestComputeInverseBindMatrices(t *testing.T) {
	s, err := NewSkeleton([]Bone{
		bone("root", -1, mgl32.Vec3{1, 0, 0}),
		bone("child", 0, mgl32.Vec3{0, 2, 0}),
	})
	if err != nil {
		t.Fatal(err)
	}
	s.ComputeInverseBindMatrices()

	world := s.BindPoseWorldMatrices()
	if !world[1].ApproxEqualThreshold(mgl32.Translate3D(1, 2, 0), 1e-5) {
		t.Errorf("child world = %v", world[1])
	}
	for i, b := range s.Bones {
		if got := world[i].Mul4(b.InverseBindMatrix); !got.ApproxEqualThreshold(mgl32.Ident4(), 1e-5) {
			t.Errorf("bone %d world*inverseBind = %v", i, got)
		}
	}
}
