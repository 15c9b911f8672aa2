package renderer

import (
	"fmt"
	"sync"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	frames    uint64
	lastStats FrameStats
}

// Renderer defines the interface for the rendering system.
//
// The Renderer is the sink at the end of the frame: the engine fills a RenderSnapshot by traversing its scenes,
// then hands it to Render. The Renderer delegates drawing to a backend, which allows for multiple implementations
// to exist (a headless statistics backend, a debug rasterizer, a GPU backend).
type Renderer interface {
	// Render submits one frame to the backend and records its statistics.
	//
	// Parameters:
	//   - snapshot: the frame to draw
	//
	// Returns:
	//   - error: the backend's error, wrapped
	Render(snapshot *RenderSnapshot) error

	// LastFrameStats returns the statistics of the most recently submitted frame.
	//
	// Returns:
	//   - FrameStats: the statistics
	LastFrameStats() FrameStats

	// FrameCount returns the number of frames submitted successfully.
	//
	// Returns:
	//   - uint64: the frame count
	FrameCount() uint64

	// BackendType reports which backend the renderer drives.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given backend type.
// WithBackend overrides the backend and switches the type to BackendTypeCustom.
//
// Parameters:
//   - backendType: the built-in backend to use
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeHeadless:
			fallthrough
		default:
			r.backend = newHeadlessRendererBackend()
		}
	}
	return r
}

// NewHeadlessRenderer creates a Renderer that records statistics without drawing.
//
// Returns:
//   - Renderer: the headless renderer
func NewHeadlessRenderer() Renderer {
	return NewRenderer(BackendTypeHeadless)
}

func (r *renderer) Render(snapshot *RenderSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.Submit(snapshot); err != nil {
		return fmt.Errorf("renderer: frame %d: %w", snapshot.FrameID(), err)
	}
	r.frames++
	r.lastStats = StatsFromSnapshot(snapshot)
	return nil
}

func (r *renderer) LastFrameStats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStats
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}
