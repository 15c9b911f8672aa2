package scene

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/camera"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
)

// Scene owns a tree of GameObjects, advances their components every frame and collects their draws into
// render snapshots. Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Thread-safe for concurrent access, although Update and BuildSnapshot are meant to be called from one loop.
type Scene interface {
	game_object.Scene

	// SetName sets the scene's identifier.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Active returns whether this scene is currently active for updates and rendering.
	//
	// Returns:
	//   - bool: the flag
	Active() bool

	// SetActive sets whether this scene is active for updates and rendering.
	//
	// Parameters:
	//   - active: the flag
	SetActive(active bool)

	// Camera returns the scene's camera, or nil.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetCamera replaces the scene's camera. A nil camera disables frustum culling.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// CullingDisabled returns whether frustum culling is explicitly disabled for this scene.
	//
	// Returns:
	//   - bool: true if culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled enables or disables frustum culling for this scene.
	//
	// Parameters:
	//   - disabled: true to disable culling, false to enable it
	SetCullingDisabled(disabled bool)

	// Registry returns the registry that objects created through NewGameObject are registered with.
	//
	// Returns:
	//   - *game_object.Registry: the registry
	Registry() *game_object.Registry

	// NewGameObject creates a GameObject registered with the scene's registry. It is not added to the scene.
	//
	// Parameters:
	//   - options: functional options to configure the object
	//
	// Returns:
	//   - game_object.GameObject: the new object
	NewGameObject(options ...game_object.GameObjectBuilderOption) game_object.GameObject

	// Add adds a root GameObject to the scene; its children follow it in.
	// Panics if obj is nil, already has a parent, or belongs to another scene.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a root GameObject by its ID.
	//
	// Parameters:
	//   - id: the object's ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove takes a root GameObject and its children out of the scene without destroying them.
	//
	// Parameters:
	//   - id: the object's ID
	Remove(id uint64)

	// Clear removes every root object.
	Clear()

	// Count returns the number of root objects.
	//
	// Returns:
	//   - int: the count
	Count() int

	// Objects returns the root objects in insertion order.
	//
	// Returns:
	//   - []game_object.GameObject: the roots
	Objects() []game_object.GameObject

	// Update advances every enabled object's components by deltaTime.
	// Pose components prepare their poses in parallel on the scene's worker pool and commit them serially
	// afterwards in traversal order, so events fire on the caller's goroutine.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	//
	// Returns:
	//   - UpdateStats: counts for the profiler
	Update(deltaTime float32) UpdateStats

	// BuildSnapshot updates the camera and lets every enabled render component add its draws to snapshot.
	// When the scene has a camera and culling is enabled the snapshot culls against the camera frustum.
	//
	// Parameters:
	//   - snapshot: the frame being built
	//   - allocator: the frame-scoped arena
	BuildSnapshot(snapshot *renderer.RenderSnapshot, allocator renderer.FrameAllocator)

	// Close stops the scene's worker pool. The scene must not be updated afterwards.
	Close()
}

// UpdateStats describes the work done by one Scene.Update call.
type UpdateStats struct {
	Objects        int
	PoseComponents int
	Components     int
	PoseTime       time.Duration
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry *game_object.Registry
	roots    []game_object.GameObject

	cam             camera.Camera
	cullingDisabled bool
	frustum         common.Frustum

	// computePool runs the parallel pose phase of Update. Workers persist across frames.
	computePool    worker.DynamicWorkerPool
	computeWorkers int

	// reused across frames
	objects []game_object.GameObject
}

var _ Scene = &scene{}

// NewScene creates a new Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         true,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}
	if s.registry == nil {
		s.registry = game_object.NewRegistry()
	}

	// Created after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, time.Second)

	for _, obj := range s.roots {
		obj.SetScene(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) Registry() *game_object.Registry {
	return s.registry
}

func (s *scene) NewGameObject(options ...game_object.GameObjectBuilderOption) game_object.GameObject {
	return game_object.NewGameObject(append([]game_object.GameObjectBuilderOption{game_object.WithRegistry(s.registry)}, options...)...)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: cannot add a nil GameObject")
	}
	if obj.Parent() != nil {
		panic(fmt.Sprintf("scene: %q has a parent, add its root instead", obj.Name()))
	}
	if current := obj.Scene(); current != nil && current != game_object.Scene(s) {
		panic(fmt.Sprintf("scene: %q already belongs to scene %q", obj.Name(), current.Name()))
	}

	s.mu.Lock()
	for _, root := range s.roots {
		if root == obj {
			s.mu.Unlock()
			return obj.ID()
		}
	}
	s.roots = append(s.roots, obj)
	s.mu.Unlock()

	obj.SetScene(s)
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, root := range s.roots {
		if root.ID() == id {
			return root
		}
	}
	return nil
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	var removed game_object.GameObject
	for i, root := range s.roots {
		if root.ID() == id {
			removed = root
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if removed != nil {
		removed.SetScene(nil)
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	roots := s.roots
	s.roots = nil
	s.mu.Unlock()

	for _, root := range roots {
		root.SetScene(nil)
	}
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roots)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]game_object.GameObject(nil), s.roots...)
}

// collect flattens the enabled part of the tree depth-first into s.objects.
// Destroyed roots are dropped from the scene on the way.
func (s *scene) collect() []game_object.GameObject {
	s.mu.Lock()
	live := s.roots[:0]
	for _, root := range s.roots {
		if !root.Destroyed() && root.Scene() == game_object.Scene(s) {
			live = append(live, root)
		}
	}
	clear(s.roots[len(live):])
	s.roots = live
	roots := append([]game_object.GameObject(nil), live...)
	s.mu.Unlock()

	out := s.objects[:0]
	var walk func(obj game_object.GameObject)
	walk = func(obj game_object.GameObject) {
		if !obj.Enabled() {
			return
		}
		out = append(out, obj)
		for _, child := range obj.Children() {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	s.objects = out
	return out
}

func (s *scene) Update(deltaTime float32) UpdateStats {
	objects := s.collect()
	stats := UpdateStats{Objects: len(objects)}

	// Phase 1: parallel pose preparation. A WaitGroup is the per-frame barrier because
	// pool.Wait() blocks until workers idle-exit.
	start := time.Now()
	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicVal any
	)
	taskID := 0
	for _, obj := range objects {
		for _, c := range obj.Components() {
			pc, ok := c.(game_object.PoseComponent)
			if !ok {
				continue
			}
			stats.PoseComponents++
			wg.Add(1)
			s.computePool.SubmitTask(worker.Task{
				ID:      taskID,
				Payload: obj.ID(),
				Do: func() (any, error) {
					defer wg.Done()
					defer func() {
						if r := recover(); r != nil {
							panicMu.Lock()
							if panicVal == nil {
								panicVal = r
							}
							panicMu.Unlock()
						}
					}()
					pc.PreparePose(deltaTime)
					return nil, nil
				},
			})
			taskID++
		}
	}
	wg.Wait()
	stats.PoseTime = time.Since(start)
	if panicVal != nil {
		panic(panicVal)
	}

	// Phase 2: serial commit and plain updates in traversal order.
	for _, obj := range objects {
		for _, c := range obj.Components() {
			stats.Components++
			if pc, ok := c.(game_object.PoseComponent); ok {
				pc.CommitPose()
				continue
			}
			c.OnUpdate(deltaTime)
		}
	}
	return stats
}

func (s *scene) BuildSnapshot(snapshot *renderer.RenderSnapshot, allocator renderer.FrameAllocator) {
	s.mu.Lock()
	cam := s.cam
	culling := cam != nil && !s.cullingDisabled
	if culling {
		cam.Update()
		s.frustum = cam.Frustum()
		snapshot.SetFrustum(&s.frustum)
	} else {
		snapshot.SetFrustum(nil)
	}
	s.mu.Unlock()

	for _, obj := range s.collect() {
		for _, c := range obj.Components() {
			if rc, ok := c.(game_object.RenderComponent); ok {
				rc.OnRenderSnapshot(snapshot, allocator)
			}
		}
	}
}

func (s *scene) Close() {
	s.computePool.Stop()
}
