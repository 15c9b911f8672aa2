package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func testSkeleton(t *testing.T) *model.Skeleton {
	t.Helper()
	root := model.IdentityTransform()
	arm := model.IdentityTransform()
	arm.Translation = mgl32.Vec3{0, 1, 0}
	s, err := model.NewSkeleton([]model.Bone{
		{Name: "root", ParentIndex: -1, LocalTransform: root},
		{Name: "arm", ParentIndex: 0, LocalTransform: arm},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.ComputeInverseBindMatrices()
	return s
}

// slideClip moves the root from 0 to dx along x over one second and turns it by angle degrees around z.
func slideClip(name string, dx, angle float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: 1,
		Channels: []model.AnimationChannel{{
			BoneIndex: 0,
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 1, Value: mgl32.Vec3{dx, 0, 0}},
			},
			RotationKeys: []model.QuaternionKeyframe{
				{Time: 0, Value: mgl32.QuatIdent()},
				{Time: 1, Value: mgl32.QuatRotate(mgl32.DegToRad(angle), mgl32.Vec3{0, 0, 1})},
			},
		}},
	}
}

func posesEqual(a, b []model.Transform) bool {
	for i := range a {
		if !a[i].Translation.ApproxEqualThreshold(b[i].Translation, eps) ||
			!a[i].Scale.ApproxEqualThreshold(b[i].Scale, eps) ||
			!a[i].Rotation.OrientationEqualThreshold(b[i].Rotation, eps) {
			return false
		}
	}
	return true
}

func TestBuildAnimationDataBlendsBracketingClipsEvenly(t *testing.T) {
	s := testSkeleton(t)
	clipA := slideClip("walk", 2, 0)
	clipB := slideClip("run", 6, 40)

	g := NewSkinnedAnimationGroup(s)
	g.AttachAnimation(clipA, 0)
	g.AttachAnimation(clipB, 1)

	for _, tm := range []float32{0, 0.25, 0.5, 1} {
		g.BuildAnimationData(BlendTypeLinear, tm, 0.5)

		a := make([]model.Transform, s.BoneCount())
		b := make([]model.Transform, s.BoneCount())
		clipA.Sample(tm, s, a)
		clipB.Sample(tm, s, b)
		want := make([]model.Transform, s.BoneCount())
		for i := range want {
			want[i] = model.LerpTransform(a[i], b[i], 0.5)
		}
		if !posesEqual(g.Pose(), want) {
			t.Errorf("t=%v: pose %+v, want 50/50 blend %+v", tm, g.Pose(), want)
		}
	}
}

func TestBuildAnimationDataClampsToEndClips(t *testing.T) {
	s := testSkeleton(t)
	clipA := slideClip("walk", 2, 0)
	clipB := slideClip("run", 6, 0)
	g := NewSkinnedAnimationGroup(s, WithAnimation(clipB, 1), WithAnimation(clipA, 0))

	if got := g.Animations(); got[0] != clipA || got[1] != clipB {
		t.Fatalf("clips not sorted by blendline: %v", got)
	}

	tests := []struct {
		blendline float32
		wantX     float32
	}{
		{-3, 2},
		{0, 2},
		{0.25, 3},
		{1, 6},
		{9, 6},
	}
	for _, tt := range tests {
		g.BuildAnimationData(BlendTypeLinear, 1, tt.blendline)
		if got := g.Pose()[0].Translation[0]; !mgl32.FloatEqualThreshold(got, tt.wantX, eps) {
			t.Errorf("blendline %v: x = %v, want %v", tt.blendline, got, tt.wantX)
		}
	}
}

func TestSharedBlendlinePositionUsesFirstAttached(t *testing.T) {
	s := testSkeleton(t)
	first := slideClip("first", 1, 0)
	second := slideClip("second", 5, 0)
	g := NewSkinnedAnimationGroup(s)
	g.AttachAnimation(first, 0)
	g.AttachAnimation(second, 0)

	g.BuildAnimationData(BlendTypeLinear, 1, 0)
	if got := g.Pose()[0].Translation[0]; !mgl32.FloatEqualThreshold(got, 1, eps) {
		t.Errorf("x = %v, want first attached clip", got)
	}
}

func TestBlendGroupFactorIsOtherWeight(t *testing.T) {
	s := testSkeleton(t)
	active := NewSkinnedAnimationGroup(s, WithAnimation(slideClip("a", 0, 0), 0))
	outgoing := NewSkinnedAnimationGroup(s, WithAnimation(slideClip("b", 4, 0), 0))

	tests := []struct {
		factor float32
		wantX  float32
	}{
		{1, 4},
		{0.75, 3},
		{0, 0},
	}
	for _, tt := range tests {
		active.BuildAnimationData(BlendTypeLinear, 1, 0)
		outgoing.BuildAnimationData(BlendTypeLinear, 1, 0)
		active.BlendGroup(BlendTypeLinear, outgoing, tt.factor)
		if got := active.Pose()[0].Translation[0]; !mgl32.FloatEqualThreshold(got, tt.wantX, eps) {
			t.Errorf("factor %v: x = %v, want %v", tt.factor, got, tt.wantX)
		}
	}
}

func TestBlendGroupIgnoresUnpreparedOther(t *testing.T) {
	s := testSkeleton(t)
	active := NewSkinnedAnimationGroup(s, WithAnimation(slideClip("a", 2, 0), 0))
	active.BuildAnimationData(BlendTypeLinear, 1, 0)
	before := append([]model.Transform(nil), active.Pose()...)

	active.BlendGroup(BlendTypeLinear, NewSkinnedAnimationGroup(s), 1)
	if !posesEqual(active.Pose(), before) {
		t.Error("blending an unprepared group changed the pose")
	}
}

func TestBuildMatricesWalksHierarchy(t *testing.T) {
	s := testSkeleton(t)
	g := NewSkinnedAnimationGroup(s, WithAnimation(slideClip("a", 3, 90), 0))
	g.BuildAnimationData(BlendTypeLinear, 1, 0)
	g.BuildMatrices()

	// root at x=3 turned 90 degrees around z; the arm's local +y offset becomes -x
	armPos := g.MatrixAtIndex(1).Col(3).Vec3()
	if !armPos.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, eps) {
		t.Errorf("arm position = %v", armPos)
	}
}

func TestBuildRenderSkinnedAnimationAtBindPoseIsIdentity(t *testing.T) {
	s := testSkeleton(t)
	g := NewSkinnedAnimationGroup(s, WithAnimation(&model.AnimationClip{Name: "still", Duration: 1}, 0))
	g.BuildAnimationData(BlendTypeLinear, 0, 0)
	g.BuildMatrices()

	alloc := renderer.NewFrameAllocator(16)
	anim := g.BuildRenderSkinnedAnimation(alloc, s.InverseBindMatrices())
	for i, m := range anim.Matrices {
		if !m.ApproxEqualThreshold(mgl32.Ident4(), eps) {
			t.Errorf("palette[%d] = %v, want identity", i, m)
		}
	}
	if alloc.Stats().MatricesUsed != s.BoneCount() {
		t.Errorf("palette not allocated from the frame allocator")
	}
}

func TestBuildRenderSkinnedAnimationPanics(t *testing.T) {
	s := testSkeleton(t)
	alloc := renderer.NewFrameAllocator(16)

	t.Run("unprepared", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewSkinnedAnimationGroup(s).BuildRenderSkinnedAnimation(alloc, s.InverseBindMatrices())
	})

	t.Run("count mismatch", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		g := NewSkinnedAnimationGroup(s, WithAnimation(slideClip("a", 1, 0), 0))
		g.BuildAnimationData(BlendTypeLinear, 0, 0)
		g.BuildRenderSkinnedAnimation(alloc, make([]mgl32.Mat4, 1))
	})
}

func TestAnimationLengthIsLongestClip(t *testing.T) {
	s := testSkeleton(t)
	g := NewSkinnedAnimationGroup(s)
	if g.AnimationLength() != 0 {
		t.Error("empty group has a length")
	}
	g.AttachAnimation(&model.AnimationClip{Duration: 1.5}, 0)
	long := &model.AnimationClip{Duration: 3}
	g.AttachAnimation(long, 1)
	if got := g.AnimationLength(); got != 3 {
		t.Errorf("AnimationLength = %v", got)
	}
	g.DetachAnimation(long)
	if got := g.AnimationLength(); got != 1.5 {
		t.Errorf("AnimationLength after detach = %v", got)
	}
	g.BuildAnimationData(BlendTypeLinear, 0, 0)
	g.ClearAnimations()
	if g.IsPrepared() || len(g.Animations()) != 0 {
		t.Error("ClearAnimations left state behind")
	}
}

func TestBlendTypeShape(t *testing.T) {
	for _, b := range []BlendType{BlendTypeLinear, BlendTypeEaseIn, BlendTypeEaseOut, BlendTypeEaseInOut, BlendTypeSmooth} {
		t.Run(b.String(), func(t *testing.T) {
			if b.Shape(0) != 0 || b.Shape(1) != 1 || b.Shape(-1) != 0 || b.Shape(2) != 1 {
				t.Error("end points not preserved")
			}
			prev := float32(0)
			for i := 1; i <= 10; i++ {
				v := b.Shape(float32(i) / 10)
				if v < prev {
					t.Fatalf("not monotonic at %d", i)
				}
				prev = v
			}
			parsed, ok := ParseBlendType(b.String())
			if !ok || parsed != b {
				t.Errorf("ParseBlendType(%q) = %v, %v", b.String(), parsed, ok)
			}
		})
	}
	if got := BlendTypeLinear.Shape(0.3); !mgl32.FloatEqualThreshold(got, 0.3, eps) {
		t.Errorf("linear shape = %v", got)
	}
	if got := BlendTypeEaseIn.Shape(0.5); !mgl32.FloatEqualThreshold(got, 0.25, eps) {
		t.Errorf("ease in shape = %v", got)
	}
}
