package component

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

type testScene struct{}

func (testScene) Name() string { return "test" }

func testModel(t *testing.T, meshes int, clips ...*model.AnimationClip) model.Model {
	t.Helper()
	arm := model.IdentityTransform()
	arm.Translation = mgl32.Vec3{0, 1, 0}
	s, err := model.NewSkeleton([]model.Bone{
		{Name: "root", ParentIndex: -1, LocalTransform: model.IdentityTransform()},
		{Name: "arm", ParentIndex: 0, LocalTransform: arm},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.ComputeInverseBindMatrices()

	names := []string{"body", "head", "tail"}
	ms := make([]model.RenderMesh, meshes)
	for i := range ms {
		ms[i] = model.RenderMesh{
			Name:           names[i],
			Handle:         uint64(i + 1),
			BoundingSphere: common.Sphere{Radius: 1},
		}
	}
	return model.NewModel(
		model.WithName("rig"),
		model.WithSkeleton(s),
		model.WithMeshes(ms...),
		model.WithAnimations(clips...),
		model.WithAABB(common.AABB{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 2, 1}}),
	)
}

func testMaterial(name string, group uint64) material.Material {
	return material.NewMaterial(material.WithName(name), material.WithRenderMaterialGroup(group))
}

// holdClip keeps the root at x for duration seconds.
func holdClip(name string, x, duration float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Channels: []model.AnimationChannel{{
			BoneIndex: 0,
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: mgl32.Vec3{x, 0, 0}},
				{Time: duration, Value: mgl32.Vec3{x, 0, 0}},
			},
		}},
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func rootX(t *testing.T, c AnimatedModelComponent) float32 {
	t.Helper()
	m, ok := c.BoneMatrix("root")
	if !ok {
		t.Fatal("root bone matrix unavailable")
	}
	return m.Col(3).X()
}

func newOwned(t *testing.T, options ...AnimatedModelComponentBuilderOption) (AnimatedModelComponent, game_object.GameObject) {
	t.Helper()
	c := NewAnimatedModelComponent(options...)
	owner := game_object.NewGameObject(
		game_object.WithRegistry(game_object.NewRegistry()),
		game_object.WithComponents(c),
	)
	return c, owner
}

func TestOncePlaybackCompletesExactlyOnce(t *testing.T) {
	clip := holdClip("wave", 0, 1)
	c, _ := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(clip, PlaybackTypeOnce))

	completions := 0
	c.AnimationCompletionEvent().Connect(func(AnimatedModelComponent) { completions++ })

	for range 3 {
		c.UpdateAnimation(0.4)
	}
	if !c.IsFinished() {
		t.Fatal("once animation not finished")
	}
	if c.PlaybackPosition() != 1 {
		t.Errorf("position = %v, want clip length", c.PlaybackPosition())
	}
	c.UpdateAnimation(0.4)
	if completions != 1 {
		t.Errorf("completion fired %d times", completions)
	}
	if c.PlaybackPosition() != 1 {
		t.Errorf("position moved after finishing: %v", c.PlaybackPosition())
	}
}

func TestLoopingPlaybackWrapsAndCountsLoops(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("idle", 0, 1), PlaybackTypeLooping))

	loops := 0
	c.AnimationLoopedEvent().Connect(func(AnimatedModelComponent) { loops++ })

	c.UpdateAnimation(2.5)
	if loops != 2 {
		t.Errorf("looped %d times, want 2", loops)
	}
	if !mgl32.FloatEqualThreshold(c.PlaybackPosition(), 0.5, eps) {
		t.Errorf("position = %v, want 0.5", c.PlaybackPosition())
	}
	if c.IsFinished() {
		t.Error("looping animation reported finished")
	}

	c.SetPlaybackSpeedMultiplier(-1)
	c.UpdateAnimation(0.75)
	if loops != 3 || !mgl32.FloatEqualThreshold(c.PlaybackPosition(), 0.75, eps) {
		t.Errorf("reverse wrap: loops %d position %v", loops, c.PlaybackPosition())
	}
}

func TestFadeToWithoutPreparedPoseSwitchesImmediately(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("a", 0, 1), PlaybackTypeLooping))

	c.FadeTo(holdClip("b", 4, 1), PlaybackTypeLooping, animator.BlendTypeLinear, 1)
	if c.IsFading() {
		t.Fatal("fade started from an unprepared group")
	}
	c.UpdateAnimation(0)
	if got := rootX(t, c); !mgl32.FloatEqualThreshold(got, 4, eps) {
		t.Errorf("root x = %v, want the new clip", got)
	}
}

func TestCrossfadeRunsFromOutgoingToIncomingPose(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("a", 0, 1), PlaybackTypeLooping))
	c.UpdateAnimation(0)

	changed := 0
	c.AnimationChangedEvent().Connect(func(AnimatedModelComponent) { changed++ })
	c.FadeTo(holdClip("b", 4, 1), PlaybackTypeLooping, animator.BlendTypeLinear, 1)
	if changed != 1 {
		t.Errorf("changed fired %d times", changed)
	}
	if !c.IsFading() {
		t.Fatal("fade did not start")
	}

	c.UpdateAnimation(0)
	if got := rootX(t, c); !mgl32.FloatEqualThreshold(got, 0, eps) {
		t.Errorf("fade start: root x = %v, want outgoing pose", got)
	}

	last := float32(0)
	for _, want := range []float32{1, 2, 3} {
		c.UpdateAnimation(0.25)
		got := rootX(t, c)
		if !mgl32.FloatEqualThreshold(got, want, eps) {
			t.Errorf("progress %v: root x = %v, want %v", c.FadeProgress(), got, want)
		}
		if got < last {
			t.Errorf("crossfade went backwards: %v after %v", got, last)
		}
		last = got
	}

	c.UpdateAnimation(0.25)
	if c.IsFading() {
		t.Error("fade still running after its duration")
	}
	if got := rootX(t, c); got != 4 {
		t.Errorf("fade end: root x = %v, want exactly 4", got)
	}
}

func TestBlendlineMixesAttachedClips(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)))
	c.AttachAnimation(holdClip("walk", 2, 1), 0)
	c.AttachAnimation(holdClip("run", 6, 1), 1)
	c.SetBlendlinePosition(0.5)

	if got := rootX(t, c); !mgl32.FloatEqualThreshold(got, 4, eps) {
		t.Errorf("root x = %v, want even mix", got)
	}
	if n := len(c.Animations()); n != 2 {
		t.Errorf("%d animations", n)
	}
}

func TestSetModelResizesMaterials(t *testing.T) {
	skin := testMaterial("skin", 7)
	c := NewAnimatedModelComponent(WithModel(testModel(t, 3), skin))
	if len(c.Materials()) != 3 {
		t.Fatalf("materials = %d", len(c.Materials()))
	}

	c.SetModel(testModel(t, 1))
	if mats := c.Materials(); len(mats) != 1 || mats[0] != skin {
		t.Errorf("shrink: %v", mats)
	}
	c.SetModel(testModel(t, 2))
	if mats := c.Materials(); len(mats) != 2 || mats[0] != skin || mats[1] != nil {
		t.Errorf("grow: %v", mats)
	}

	c.SetMaterialForMeshName(testMaterial("hair", 8), "head")
	if c.Material(1).RenderMaterialGroup() != 8 {
		t.Error("mesh name lookup assigned the wrong slot")
	}
}

func TestContractViolationsPanic(t *testing.T) {
	unloaded := testModel(t, 1)
	unloaded.SetLoadState(common.LoadStateLoading)
	pending := material.NewMaterial(material.WithLoadState(common.LoadStateLoading))

	mustPanic(t, "unset model", func() { NewAnimatedModelComponent().SetAnimation(holdClip("a", 0, 1), PlaybackTypeOnce) })
	mustPanic(t, "unloaded model", func() { NewAnimatedModelComponent(WithModel(unloaded)) })
	mustPanic(t, "unloaded material", func() { NewAnimatedModelComponent(WithModel(testModel(t, 1), pending)) })
	mustPanic(t, "material count", func() {
		NewAnimatedModelComponent().SetModelWithMaterials(testModel(t, 2), []material.Material{testMaterial("m", 1)})
	})
	mustPanic(t, "mesh name", func() {
		NewAnimatedModelComponent(WithModel(testModel(t, 1))).SetMaterialForMeshName(testMaterial("m", 1), "wing")
	})
	mustPanic(t, "render without owner", func() {
		c := NewAnimatedModelComponent(WithModel(testModel(t, 1), testMaterial("m", 1)))
		c.OnRenderSnapshot(renderer.NewRenderSnapshot(1), renderer.NewFrameAllocator(0))
	})
}

func TestRenderWithoutPreparedAnimationPanics(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1), testMaterial("m", 1)))
	mustPanic(t, "unprepared", func() {
		c.OnRenderSnapshot(renderer.NewRenderSnapshot(1), renderer.NewFrameAllocator(0))
	})
}

func TestRenderSnapshotEmitsObjectPerMesh(t *testing.T) {
	skin := testMaterial("skin", 42)
	c, owner := newOwned(t,
		WithModel(testModel(t, 2), skin),
		WithAnimation(holdClip("idle", 0, 1), PlaybackTypeLooping),
		WithRenderLayer(4),
	)
	owner.SetPosition(mgl32.Vec3{10, 0, 0})

	snapshot := renderer.NewRenderSnapshot(1)
	c.OnRenderSnapshot(snapshot, renderer.NewFrameAllocator(renderer.DefaultFrameArenaPageSize))

	objects := snapshot.RenderObjects()
	if len(objects) != 2 {
		t.Fatalf("%d render objects, want 2", len(objects))
	}
	for i, obj := range objects {
		if obj.MaterialGroup != 42 {
			t.Errorf("object %d material group = %d", i, obj.MaterialGroup)
		}
		if obj.Mesh != uint64(i+1) {
			t.Errorf("object %d mesh = %d", i, obj.Mesh)
		}
		if obj.Layer != 4 || !obj.CastsShadow {
			t.Errorf("object %d flags: layer %d shadow %v", i, obj.Layer, obj.CastsShadow)
		}
		if !obj.BoundingSphere.Center.ApproxEqualThreshold(mgl32.Vec3{10, 0, 0}, eps) {
			t.Errorf("object %d sphere center = %v", i, obj.BoundingSphere.Center)
		}
		for b, m := range obj.SkinnedAnimation.Matrices {
			if !m.ApproxEqualThreshold(mgl32.Ident4(), eps) {
				t.Errorf("object %d bone %d palette not identity at bind pose: %v", i, b, m)
			}
		}
	}
	if len(snapshot.RenderSkinnedAnimations()) != 2 {
		t.Errorf("%d palettes", len(snapshot.RenderSkinnedAnimations()))
	}
}

func TestPlaybackPositionNormalizedRoundTrip(t *testing.T) {
	c := NewAnimatedModelComponent(WithModel(testModel(t, 1)), WithAnimation(holdClip("a", 0, 2), PlaybackTypeOnce))

	c.SetPlaybackPositionNormalized(0.25)
	if c.PlaybackPosition() != 0.5 || c.PlaybackPositionNormalized() != 0.25 {
		t.Errorf("position %v normalized %v", c.PlaybackPosition(), c.PlaybackPositionNormalized())
	}
	c.SetPlaybackPosition(9)
	if c.PlaybackPosition() != 2 {
		t.Errorf("position not clamped: %v", c.PlaybackPosition())
	}
	c.ClearAnimations()
	if c.PlaybackPositionNormalized() != 0 {
		t.Error("normalized position of an empty group is not 0")
	}
}

func TestAttachedEntityFollowsBone(t *testing.T) {
	c, owner := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("a", 0, 1), PlaybackTypeLooping))
	owner.SetPosition(mgl32.Vec3{3, 0, 0})
	c.UpdateAnimation(0)

	sword := game_object.NewGameObject(game_object.WithRegistry(owner.Registry()))
	c.AttachEntity(sword, "root")
	if !sword.WorldMatrix().ApproxEqualThreshold(owner.WorldMatrix(), eps) {
		t.Errorf("root attachment world = %v, want owner world", sword.WorldMatrix())
	}

	shield := game_object.NewGameObject(game_object.WithRegistry(owner.Registry()))
	c.AttachEntity(shield, "arm")
	c.SetAnimation(holdClip("b", 2, 1), PlaybackTypeLooping)
	c.UpdateAnimation(0)
	if got := shield.WorldMatrix().Col(3).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{5, 1, 0}, eps) {
		t.Errorf("arm attachment world position = %v", got)
	}

	mustPanic(t, "missing bone", func() {
		c.AttachEntity(game_object.NewGameObject(game_object.WithRegistry(owner.Registry())), "tail")
	})
	mustPanic(t, "double attach", func() { c.AttachEntity(sword, "arm") })

	c.DetachEntity(sword)
	if sword.Parent() != nil || len(c.AttachedEntities()) != 1 {
		t.Error("detach did not unparent the entity")
	}
}

func TestAttachEntityWithParentWarns(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	c, owner := newOwned(t, WithModel(testModel(t, 1)))
	other := game_object.NewGameObject(game_object.WithRegistry(owner.Registry()))
	child := game_object.NewGameObject(game_object.WithRegistry(owner.Registry()))
	other.AddChild(child)

	c.AttachEntity(child, "root")
	if child.Parent() != other || len(c.AttachedEntities()) != 0 {
		t.Error("entity with a parent was attached")
	}
	if !strings.Contains(buf.String(), "already has a parent") {
		t.Errorf("no warning logged: %q", buf.String())
	}
}

func TestDestroyedAttachmentsArePruned(t *testing.T) {
	c, owner := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("a", 0, 1), PlaybackTypeLooping))
	c.UpdateAnimation(0)

	gem := game_object.NewGameObject(game_object.WithRegistry(owner.Registry()))
	c.AttachEntity(gem, "arm")
	gem.Destroy()
	c.UpdateAnimation(0.1)
	if n := len(c.AttachedEntities()); n != 0 {
		t.Errorf("%d attachments after destroy", n)
	}

	hat := game_object.NewGameObject(game_object.WithRegistry(owner.Registry()))
	c.AttachEntity(hat, "root")
	owner.SetScene(testScene{})
	owner.SetScene(nil)
	if hat.Parent() != nil {
		t.Error("leaving the scene did not detach entities")
	}
}

func TestFadeOutLeavesBindPose(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("a", 2, 1), PlaybackTypeLooping))
	c.UpdateAnimation(0)

	c.FadeOut(animator.BlendTypeEaseInOut, 0.5)
	if len(c.Animations()) != 0 || !c.IsFading() {
		t.Fatal("fade out did not move the animation to the fading slot")
	}
	c.UpdateAnimation(0.25)
	if p := c.FadeProgress(); !mgl32.FloatEqualThreshold(p, 0.5, eps) {
		t.Errorf("fade progress = %v", p)
	}
	if got := rootX(t, c); !mgl32.FloatEqualThreshold(got, 1, eps) {
		t.Errorf("midway root x = %v, want 1", got)
	}
	c.UpdateAnimation(0.25)
	if got := rootX(t, c); got != 0 {
		t.Errorf("root x = %v after fade out, want bind pose", got)
	}
}

func TestBoundsFollowOwner(t *testing.T) {
	c, owner := newOwned(t, WithModel(testModel(t, 1)))
	owner.SetPosition(mgl32.Vec3{0, 5, 0})

	box := c.AABB()
	if !box.Min.ApproxEqualThreshold(mgl32.Vec3{-1, 5, -1}, eps) || !box.Max.ApproxEqualThreshold(mgl32.Vec3{1, 7, 1}, eps) {
		t.Errorf("AABB = %+v", box)
	}
	if s := c.BoundingSphere(); !s.Center.ApproxEqualThreshold(mgl32.Vec3{0, 6, 0}, eps) {
		t.Errorf("sphere center = %v", s.Center)
	}
	if o := c.OOBB(); o.Local != c.Model().AABB() {
		t.Error("OOBB local box is not the model box")
	}
}

func TestOnceOvershootThenRender(t *testing.T) {
	shared := testMaterial("shared", 9)
	c, _ := newOwned(t,
		WithModel(testModel(t, 2), shared),
		WithAnimation(holdClip("swing", 1, 2), PlaybackTypeOnce),
	)
	completions := 0
	c.AnimationCompletionEvent().Connect(func(AnimatedModelComponent) { completions++ })

	c.UpdateAnimation(2.5)
	if !c.IsFinished() || c.PlaybackPosition() != 2 || completions != 1 {
		t.Fatalf("finished %v position %v completions %d", c.IsFinished(), c.PlaybackPosition(), completions)
	}

	snapshot := renderer.NewRenderSnapshot(1)
	c.OnRenderSnapshot(snapshot, renderer.NewFrameAllocator(0))
	objects := snapshot.RenderObjects()
	if len(objects) != 2 || objects[0].MaterialGroup != 9 || objects[1].MaterialGroup != 9 {
		t.Errorf("objects = %+v", objects)
	}
}

func TestFinishedOnceResumesWhenSwitchedToLooping(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("wave", 0, 1), PlaybackTypeOnce))
	loops := 0
	c.AnimationLoopedEvent().Connect(func(AnimatedModelComponent) { loops++ })

	c.UpdateAnimation(1.5)
	if !c.IsFinished() {
		t.Fatal("once animation not finished")
	}

	c.SetPlaybackType(PlaybackTypeLooping)
	if c.IsFinished() {
		t.Error("looping animation still reports finished")
	}
	c.UpdateAnimation(0.25)
	if got := c.PlaybackPosition(); !mgl32.FloatEqualThreshold(got, 0.25, eps) {
		t.Errorf("position = %v after switch, want 0.25", got)
	}
	c.UpdateAnimation(0.25)
	if got := c.PlaybackPosition(); !mgl32.FloatEqualThreshold(got, 0.5, eps) {
		t.Errorf("position = %v, want 0.5", got)
	}
	if loops != 1 {
		t.Errorf("loops = %d, want 1", loops)
	}
}

func TestOnceWithoutClipsNeverCompletes(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)))
	completions := 0
	c.AnimationCompletionEvent().Connect(func(AnimatedModelComponent) { completions++ })

	c.UpdateAnimation(0.1)
	c.UpdateAnimation(0.1)
	if completions != 0 || c.IsFinished() {
		t.Errorf("empty component: completions %d finished %v", completions, c.IsFinished())
	}

	c.SetAnimation(holdClip("a", 1, 1), PlaybackTypeOnce)
	c.FadeOut(animator.BlendTypeLinear, 0.5)
	c.UpdateAnimation(0.1)
	if completions != 0 {
		t.Errorf("completion fired after fade out: %d", completions)
	}
}

func TestLoopingLargeStepTerminates(t *testing.T) {
	c, _ := newOwned(t, WithModel(testModel(t, 1)), WithAnimation(holdClip("tick", 0, 0.01), PlaybackTypeLooping))
	loops := 0
	c.AnimationLoopedEvent().Connect(func(AnimatedModelComponent) { loops++ })

	c.UpdateAnimation(1e9)
	if p := c.PlaybackPosition(); p < 0 || p >= 0.01 {
		t.Errorf("position = %v, want inside [0, 0.01)", p)
	}
	if loops == 0 {
		t.Error("no loop events")
	}

	c.UpdateAnimation(0.035)
	if p := c.PlaybackPosition(); p < 0 || p >= 0.01 {
		t.Errorf("position = %v after small step", p)
	}
}

func TestForeignClipPanics(t *testing.T) {
	foreign := &model.AnimationClip{
		Name:     "tail-wag",
		Duration: 1,
		Channels: []model.AnimationChannel{{BoneIndex: 7}},
	}
	c, _ := newOwned(t, WithModel(testModel(t, 1)))

	for name, fn := range map[string]func(){
		"SetAnimation":    func() { c.SetAnimation(foreign, PlaybackTypeOnce) },
		"AttachAnimation": func() { c.AttachAnimation(foreign, 0) },
		"FadeTo":          func() { c.FadeTo(foreign, PlaybackTypeOnce, animator.BlendTypeLinear, 0.2) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				msg, _ := r.(string)
				if !strings.HasPrefix(msg, "component: ") || !strings.Contains(msg, "tail-wag") {
					t.Errorf("panic = %v", r)
				}
			}()
			fn()
		})
	}
}
