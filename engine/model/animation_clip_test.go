package model

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func twoBoneSkeleton(t *testing.T) *Skeleton {
	t.Helper()
	s, err := NewSkeleton([]Bone{
		bone("root", -1, mgl32.Vec3{0, 0, 0}),
		bone("arm", 0, mgl32.Vec3{0, 5, 0}),
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSampleInterpolatesAndClamps(t *testing.T) {
	s := twoBoneSkeleton(t)
	clip := &AnimationClip{
		Name:     "raise",
		Duration: 2,
		Channels: []AnimationChannel{{
			BoneIndex: 0,
			PositionKeys: []VectorKeyframe{
				{Time: 0.5, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 1.5, Value: mgl32.Vec3{10, 0, 0}},
			},
		}},
	}

	tests := []struct {
		time float32
		want float32
	}{
		{0, 0},
		{0.5, 0},
		{1, 5},
		{1.5, 10},
		{2, 10},
	}
	out := make([]Transform, s.BoneCount())
	for _, tt := range tests {
		clip.Sample(tt.time, s, out)
		if !mgl32.FloatEqualThreshold(out[0].Translation[0], tt.want, 1e-5) {
			t.Errorf("Sample(%v).x = %v, want %v", tt.time, out[0].Translation[0], tt.want)
		}
	}
}

func TestSampleFallsBackToBindPose(t *testing.T) {
	s := twoBoneSkeleton(t)
	clip := &AnimationClip{
		Duration: 1,
		Channels: []AnimationChannel{{
			BoneIndex:    0,
			RotationKeys: []QuaternionKeyframe{{Time: 0, Value: mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})}},
		}},
	}
	out := make([]Transform, s.BoneCount())
	clip.Sample(0.5, s, out)

	if out[1] != s.Bones[1].LocalTransform {
		t.Errorf("unanimated bone = %+v, want bind pose", out[1])
	}
	if out[0].Translation != s.Bones[0].LocalTransform.Translation {
		t.Errorf("unkeyed translation changed: %v", out[0].Translation)
	}
	if !out[0].Rotation.OrientationEqualThreshold(mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0}), 1e-5) {
		t.Errorf("single key rotation = %v", out[0].Rotation)
	}
}

func TestValidate(t *testing.T) {
	s := twoBoneSkeleton(t)
	tests := []struct {
		name string
		clip AnimationClip
		ok   bool
	}{
		{"valid", AnimationClip{Duration: 1, Channels: []AnimationChannel{{BoneIndex: 1}}}, true},
		{"bone out of range", AnimationClip{Duration: 1, Channels: []AnimationChannel{{BoneIndex: 2}}}, false},
		{"negative duration", AnimationClip{Duration: -1}, false},
		{"unsorted keys", AnimationClip{Duration: 1, Channels: []AnimationChannel{{
			BoneIndex:    0,
			PositionKeys: []VectorKeyframe{{Time: 1}, {Time: 0}},
		}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.clip.Validate(s)
			if tt.ok && err != nil {
				t.Fatalf("Validate = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidClip) {
				t.Fatalf("Validate = %v, want ErrInvalidClip", err)
			}
		})
	}
}

func TestLerpTransformTakesShortestArc(t *testing.T) {
	a := IdentityTransform()
	b := IdentityTransform()
	b.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}).Scale(-1)

	mid := LerpTransform(a, b, 0.5)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 0, 1})
	if !mid.Rotation.OrientationEqualThreshold(want, 1e-4) {
		t.Errorf("mid rotation = %v, want %v", mid.Rotation, want)
	}
}

func TestModelMeshesInheritSkeletonInverseBind(t *testing.T) {
	s := twoBoneSkeleton(t)
	s.ComputeInverseBindMatrices()
	m := NewModel(
		WithName("hero"),
		WithSkeleton(s),
		WithMeshes(RenderMesh{Name: "body"}, RenderMesh{Name: "head"}),
		WithAnimations(&AnimationClip{Name: "idle", Duration: 1}),
	)

	if m.MeshCount() != 2 {
		t.Fatalf("MeshCount = %d", m.MeshCount())
	}
	if got := len(m.Mesh(1).InverseBindPoseMatrices); got != s.BoneCount() {
		t.Errorf("inverse bind count = %d", got)
	}
	if m.MeshIndexByName("head") != 1 || m.MeshIndexByName("tail") != -1 {
		t.Errorf("MeshIndexByName mismatch")
	}
	if m.Animation("idle") == nil || m.Animation("run") != nil {
		t.Errorf("Animation lookup mismatch")
	}
}
