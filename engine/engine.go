package engine

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
)

type engine struct {
	mu *sync.Mutex

	// frameMu serializes Step; callbacks run under it but not under mu.
	frameMu sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	cfg *config.Config

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(snapshot *renderer.RenderSnapshot)

	scenes map[int]scene.Scene

	renderer  renderer.Renderer
	allocator renderer.FrameAllocator
	snapshot  *renderer.RenderSnapshot
	frameID   uint64
}

// Engine drives scenes on a fixed tick: every frame it updates the active scenes, collects their draws into a
// render snapshot, submits the snapshot to the renderer and then reclaims the frame allocator.
// Scenes are processed in ascending key order.
type Engine interface {
	// Config returns the configuration the engine was built with.
	//
	// Returns:
	//   - *config.Config: the resolved configuration
	Config() *config.Config

	// Renderer returns the renderer frames are submitted to.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler turns on per-interval statistics logging.
	EnableProfiler()

	// DisableProfiler turns off statistics logging.
	DisableProfiler()

	// SetTickRate changes the number of frames per second of Run. Takes effect on the next tick.
	//
	// Parameters:
	//   - fps: frames per second; non-positive values select 60
	SetTickRate(fps float64)

	// SetTickCallback sets a function called at the start of every frame, before scenes update.
	// Callbacks may call back into the engine, except Step.
	//
	// Parameters:
	//   - callback: receives the frame delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback sets a function called after the renderer consumed the snapshot and before the
	// frame allocator is reset. Skinning palettes in the snapshot are only valid during the call.
	//
	// Parameters:
	//   - callback: receives the frame's snapshot
	SetRenderCallback(callback func(snapshot *renderer.RenderSnapshot))

	// AddScene registers a scene under key, replacing any scene already there.
	//
	// Parameters:
	//   - key: ordering key
	//   - s: the scene
	AddScene(key int, s scene.Scene)

	// RemoveScene unregisters the scene under key. The scene is not closed.
	//
	// Parameters:
	//   - key: ordering key
	RemoveScene(key int)

	// Scene returns the scene under key, or nil.
	//
	// Parameters:
	//   - key: ordering key
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene(key int) scene.Scene

	// Scenes returns a copy of the registered scenes.
	//
	// Returns:
	//   - map[int]scene.Scene: scenes by key
	Scenes() map[int]scene.Scene

	// Step runs one frame with an explicit delta time.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	//
	// Returns:
	//   - renderer.FrameStats: the submitted frame's counts
	//   - error: the renderer's error, wrapped
	Step(deltaTime float32) (renderer.FrameStats, error)

	// Run steps frames at the tick rate until Quit is called. It blocks.
	Run()

	// Quit stops Run. Safe to call more than once and from any goroutine.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine. Without WithRenderer frames go to a headless renderer.
//
// Parameters:
//   - options: functional options to configure the engine
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		cfg:             config.Default(),
	}

	for _, opt := range options {
		opt(e)
	}

	e.cfg.Resolve()
	if e.engineTickRate == 0 {
		if e.cfg.TickRate <= 0 {
			e.cfg.TickRate = config.DefaultTickRate
		}
		e.engineTickRate = time.Second / time.Duration(e.cfg.TickRate)
	}
	e.profilingEnabled = e.profilingEnabled || e.cfg.Profiling
	e.profiler = profiler.NewProfiler(e.cfg.ProfilerInterval)
	if e.renderer == nil {
		e.renderer = renderer.NewHeadlessRenderer()
	}
	e.allocator = renderer.NewFrameAllocator(e.cfg.FrameArenaPageSize)
	e.snapshot = renderer.NewRenderSnapshot(0)
	return e
}

func (e *engine) Config() *config.Config {
	return e.cfg
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Step(deltaTime float32) (renderer.FrameStats, error) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	e.mu.Lock()
	tickCallback := e.tickCallback
	renderCallback := e.renderCallback
	profiling := e.profilingEnabled
	e.mu.Unlock()

	if tickCallback != nil {
		tickCallback(deltaTime)
	}

	e.mu.Lock()
	active := e.activeScenes()
	e.mu.Unlock()

	var updates scene.UpdateStats
	for _, s := range active {
		u := s.Update(deltaTime)
		updates.Objects += u.Objects
		updates.PoseComponents += u.PoseComponents
		updates.Components += u.Components
		updates.PoseTime += u.PoseTime
	}

	e.frameID++
	e.snapshot.Reset(e.frameID)
	for _, s := range active {
		s.BuildSnapshot(e.snapshot, e.allocator)
	}

	err := e.renderer.Render(e.snapshot)
	stats := renderer.StatsFromSnapshot(e.snapshot)
	if err == nil && renderCallback != nil {
		renderCallback(e.snapshot)
	}

	if profiling {
		e.profiler.Tick(profiler.FrameSample{Update: updates, Render: stats, Arena: e.allocator.Stats()})
	}
	e.allocator.Reset()

	if err != nil {
		return stats, fmt.Errorf("engine: %w", err)
	}
	return stats, nil
}

// activeScenes returns the active scenes in key order. Caller must hold the mutex.
func (e *engine) activeScenes() []scene.Scene {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var active []scene.Scene
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

func (e *engine) Run() {
	e.running.Store(true)
	common.Logger().Info("engine: started", "tick", e.engineTickRate)
	e.wg.Add(1)
	go e.handleEngine()
	e.wg.Wait()
	e.running.Store(false)
	e.frameMu.Lock()
	frames := e.frameID
	e.frameMu.Unlock()
	common.Logger().Info("engine: stopped", "frames", frames)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleEngine is the fixed-tick loop of Run.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if _, err := e.Step(dt); err != nil {
				common.Logger().Error("engine: frame failed", "error", err)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(snapshot *renderer.RenderSnapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
