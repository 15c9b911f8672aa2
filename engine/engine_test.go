package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/component"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type failingBackend struct{}

func (failingBackend) Submit(*renderer.RenderSnapshot) error {
	return errors.New("device lost")
}

func walkerScene(t *testing.T, name string) scene.Scene {
	t.Helper()
	s, err := model.NewSkeleton([]model.Bone{
		{Name: "root", ParentIndex: -1, LocalTransform: model.IdentityTransform()},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.ComputeInverseBindMatrices()

	walk := &model.AnimationClip{
		Name:     "walk",
		Duration: 1,
		Channels: []model.AnimationChannel{{
			BoneIndex: 0,
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 1, Value: mgl32.Vec3{2, 0, 0}},
			},
		}},
	}
	m := model.NewModel(
		model.WithName("walker"),
		model.WithSkeleton(s),
		model.WithMeshes(model.RenderMesh{Name: "body", Handle: 1, BoundingSphere: common.Sphere{Radius: 1}}),
		model.WithAnimations(walk),
	)

	sc := scene.NewScene(name, scene.WithComputeWorkers(1))
	t.Cleanup(sc.Close)
	c := component.NewAnimatedModelComponent(
		component.WithModel(m, material.NewMaterial(material.WithName("skin"), material.WithRenderMaterialGroup(7))),
		component.WithAnimation(walk, component.PlaybackTypeLooping),
	)
	sc.Add(sc.NewGameObject(game_object.WithName("walker"), game_object.WithComponents(c)))
	return sc
}

func TestStepSubmitsSkinnedDraws(t *testing.T) {
	e := NewEngine(WithScene(0, walkerScene(t, "main")))

	var palettes int
	e.SetRenderCallback(func(s *renderer.RenderSnapshot) {
		for _, a := range s.RenderSkinnedAnimations() {
			palettes += len(a.Matrices)
		}
	})

	stats, err := e.Step(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RenderObjects != 1 || stats.SkinnedAnimations != 1 || stats.MaterialGroups != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if palettes != 1 {
		t.Errorf("callback saw %d palette matrices, want 1", palettes)
	}
	if stats.FrameID != 1 {
		t.Errorf("frame id = %d, want 1", stats.FrameID)
	}
	if e.Renderer().FrameCount() != 1 {
		t.Errorf("renderer frame count = %d", e.Renderer().FrameCount())
	}
}

func TestStepSkipsInactiveScenes(t *testing.T) {
	idle := walkerScene(t, "idle")
	idle.SetActive(false)
	e := NewEngine(WithScene(0, walkerScene(t, "main")), WithScene(1, idle))

	ticks := 0
	e.SetTickCallback(func(dt float32) {
		ticks++
		if dt != 0.25 {
			t.Errorf("dt = %v", dt)
		}
	})
	stats, err := e.Step(0.25)
	if err != nil {
		t.Fatal(err)
	}
	if ticks != 1 {
		t.Errorf("tick callback ran %d times", ticks)
	}
	if stats.RenderObjects != 1 {
		t.Errorf("render objects = %d, want 1", stats.RenderObjects)
	}

	e.RemoveScene(0)
	if e.Scene(0) != nil || len(e.Scenes()) != 1 {
		t.Error("scene not removed")
	}
}

func TestStepWrapsRendererError(t *testing.T) {
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, renderer.WithBackend(failingBackend{}))
	e := NewEngine(WithRenderer(r), WithScene(0, walkerScene(t, "main")))

	called := false
	e.SetRenderCallback(func(*renderer.RenderSnapshot) { called = true })
	if _, err := e.Step(0.1); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("render callback ran for a failed frame")
	}
}

func TestConfigFeedsEngine(t *testing.T) {
	cfg := config.Default()
	cfg.TickRate = 30
	e := NewEngine(WithConfig(cfg)).(*engine)
	if e.engineTickRate != time.Second/30 {
		t.Errorf("tick rate = %v", e.engineTickRate)
	}
	if e.Config() == cfg {
		t.Error("engine should keep its own copy of the config")
	}

	e = NewEngine(WithConfig(cfg), WithTickRate(120)).(*engine)
	if e.engineTickRate != time.Second/120 {
		t.Errorf("explicit tick rate ignored: %v", e.engineTickRate)
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	e := NewEngine(WithTickRate(500), WithScene(0, walkerScene(t, "main")))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for e.Renderer().FrameCount() < 3 {
		select {
		case <-deadline:
			t.Fatal("engine did not produce frames")
		case <-time.After(time.Millisecond):
		}
	}
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestCallbacksMayCallIntoEngine(t *testing.T) {
	e := NewEngine(WithScene(0, walkerScene(t, "main")))

	var seen scene.Scene
	e.SetTickCallback(func(float32) {
		seen = e.Scene(0)
		e.EnableProfiler()
	})
	e.SetRenderCallback(func(*renderer.RenderSnapshot) {
		if len(e.Scenes()) != 1 {
			t.Error("render callback saw wrong scene count")
		}
		e.SetRenderCallback(nil)
	})

	done := make(chan error, 1)
	go func() {
		_, err := e.Step(1.0 / 60)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Step blocked while a callback used the engine")
	}
	if seen == nil {
		t.Error("tick callback did not get the scene")
	}
}
