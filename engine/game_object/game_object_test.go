package game_object

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type testScene struct{ name string }

func (s *testScene) Name() string { return s.name }

type recordingComponent struct {
	owner   GameObject
	added   int
	removed int
	updates []float32
}

func (c *recordingComponent) OnAddedToGameObject(obj GameObject) { c.owner = obj }
func (c *recordingComponent) OnAddedToScene()                    { c.added++ }
func (c *recordingComponent) OnRemovedFromScene()                { c.removed++ }
func (c *recordingComponent) OnUpdate(dt float32)                { c.updates = append(c.updates, dt) }

func TestRegistryHandlesGoStale(t *testing.T) {
	r := NewRegistry()
	a := NewGameObject(WithRegistry(r), WithName("a"))
	h := a.Handle()

	if got, ok := r.Resolve(h); !ok || got != a {
		t.Fatal("fresh handle did not resolve")
	}
	a.Destroy()
	if _, ok := r.Resolve(h); ok {
		t.Fatal("destroyed handle still resolves")
	}

	b := NewGameObject(WithRegistry(r), WithName("b"))
	if b.Handle().Index != h.Index {
		t.Fatalf("slot not reused: %v vs %v", b.Handle(), h)
	}
	if _, ok := r.Resolve(h); ok {
		t.Error("old handle resolves to the slot's new occupant")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d", r.Len())
	}
	if r.Release(h) {
		t.Error("released a stale handle")
	}
	if _, ok := r.Resolve(Handle{}); ok {
		t.Error("zero handle resolved")
	}
}

func TestWorldMatrixComposesParents(t *testing.T) {
	r := NewRegistry()
	parent := NewGameObject(WithRegistry(r), WithPosition(mgl32.Vec3{1, 0, 0}), WithScale(mgl32.Vec3{2, 2, 2}))
	child := NewGameObject(WithRegistry(r), WithPosition(mgl32.Vec3{0, 1, 0}))
	parent.AddChild(child)

	got := child.WorldMatrix().Col(3).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{1, 2, 0}, 1e-5) {
		t.Errorf("child world position = %v", got)
	}
	if child.Parent() != parent || len(parent.Children()) != 1 {
		t.Error("hierarchy not linked")
	}
}

func TestSetLocalMatrixRoundTrip(t *testing.T) {
	obj := NewGameObject(WithRegistry(NewRegistry()))
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.5)).Mul4(mgl32.Scale3D(2, 2, 2))
	obj.SetLocalMatrix(want)
	if got := obj.LocalMatrix(); !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("LocalMatrix = %v, want %v", got, want)
	}
}

func TestSceneMembershipFollowsHierarchy(t *testing.T) {
	r := NewRegistry()
	scene := &testScene{name: "main"}
	root := NewGameObject(WithRegistry(r))
	comp := &recordingComponent{}
	child := NewGameObject(WithRegistry(r), WithComponents(comp))

	if comp.owner != child {
		t.Fatal("OnAddedToGameObject not called")
	}

	root.SetScene(scene)
	root.AddChild(child)
	if child.Scene() != scene || comp.added != 1 {
		t.Fatalf("child did not join the scene: scene=%v added=%d", child.Scene(), comp.added)
	}

	child.RemoveFromParent()
	if child.Scene() != nil || comp.removed != 1 {
		t.Errorf("child did not leave the scene: removed=%d", comp.removed)
	}
}

func TestAddChildRejectsCycles(t *testing.T) {
	r := NewRegistry()
	a := NewGameObject(WithRegistry(r))
	b := NewGameObject(WithRegistry(r))
	a.AddChild(b)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	b.AddChild(a)
}

func TestDestroyReleasesDescendants(t *testing.T) {
	r := NewRegistry()
	root := NewGameObject(WithRegistry(r))
	child := NewGameObject(WithRegistry(r))
	root.AddChild(child)

	root.Destroy()
	if !child.Destroyed() || r.Len() != 0 {
		t.Errorf("descendants not destroyed: len=%d", r.Len())
	}
}

func TestGetComponent(t *testing.T) {
	comp := &recordingComponent{}
	obj := NewGameObject(WithRegistry(NewRegistry()), WithComponents(comp))

	got, ok := GetComponent[*recordingComponent](obj)
	if !ok || got != comp {
		t.Error("GetComponent did not find the component")
	}
}
