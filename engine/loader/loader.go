package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/material"
)

var (
	// ErrUnsupportedFormat is returned when no backend reads the file extension.
	ErrUnsupportedFormat = errors.New("loader: unsupported asset format")

	// ErrInvalidAsset is returned when an asset decodes but describes an invalid model.
	ErrInvalidAsset = errors.New("loader: invalid asset")
)

// LoaderBackendType identifies the asset file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeYAML selects the YAML asset backend.
	BackendTypeYAML LoaderBackendType = iota
)

// Asset is everything one asset file describes.
type Asset struct {
	Name  string
	Model model.Model

	// MeshMaterials holds the material of each mesh in mesh order. Meshes without one have a nil entry.
	MeshMaterials []material.Material

	// Materials holds every material of the file by name.
	Materials map[string]material.Material
}

// Pending tracks an asset being loaded by LoadAsync.
type Pending struct {
	state atomic.Int32
	done  chan struct{}
	asset *Asset
	err   error
}

// LoadState reports LoadStateLoading until the load finished, then LoadStateLoaded or LoadStateFailed.
func (p *Pending) LoadState() common.LoadState {
	return common.LoadState(p.state.Load())
}

// Wait blocks until the load finished and returns its result.
func (p *Pending) Wait() (*Asset, error) {
	<-p.done
	return p.asset, p.err
}

func (p *Pending) finish(asset *Asset, err error) {
	p.asset, p.err = asset, err
	if err != nil {
		p.state.Store(int32(common.LoadStateFailed))
	} else {
		p.state.Store(int32(common.LoadStateLoaded))
	}
	close(p.done)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	assetCache map[string]*Asset

	backend loaderBackend
	handles atomic.Uint64

	poolOnce sync.Once
	pool     worker.DynamicWorkerPool
	workers  int
}

// Loader loads and caches animated model assets.
// It abstracts the file format behind a backend and manages a cache of previously loaded assets.
type Loader interface {
	// Load imports an asset file and caches the result.
	// If the asset is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the asset
	//
	// Returns:
	//   - *Asset: the loaded and cached asset
	//   - error: ErrUnsupportedFormat, ErrInvalidAsset or an I/O error, wrapped with the path
	Load(path string) (*Asset, error)

	// LoadReader imports an asset from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded asset
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*Asset, error)

	// LoadAsync loads an asset on the loader's worker pool. done, when not nil, runs on a worker goroutine
	// after the Pending handle reports its final state.
	//
	// Parameters:
	//   - path: the file path to the asset
	//   - done: optional completion callback
	//
	// Returns:
	//   - *Pending: the handle to poll or wait on
	LoadAsync(path string, done func(*Asset, error)) *Pending

	// Get retrieves a cached asset by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Asset: the cached asset or nil
	Get(name string) *Asset

	// Assets returns a copy of the asset cache.
	//
	// Returns:
	//   - map[string]*Asset: all cached assets keyed by name
	Assets() map[string]*Asset

	// Close stops the worker pool used by LoadAsync.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeYAML)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		assetCache: make(map[string]*Asset),
		workers:    2,
	}

	switch backendType {
	case BackendTypeYAML:
		l.backend = newYAMLLoaderBackend(func() uint64 { return l.handles.Add(1) })
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*Asset, error) {
	l.mu.RLock()
	if cached, ok := l.assetCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if err := l.resolveBackend(path); err != nil {
		return nil, err
	}

	asset, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	if cached, ok := l.assetCache[path]; ok {
		asset = cached
	} else {
		l.assetCache[path] = asset
	}
	l.mu.Unlock()

	common.Logger().Info("loader: asset loaded",
		"path", path,
		"bones", asset.Model.Skeleton().BoneCount(),
		"meshes", asset.Model.MeshCount(),
		"animations", asset.Model.AnimationCount(),
	)
	return asset, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*Asset, error) {
	l.mu.RLock()
	if cached, ok := l.assetCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	asset, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.assetCache[name] = asset
	l.mu.Unlock()

	return asset, nil
}

func (l *loader) LoadAsync(path string, done func(*Asset, error)) *Pending {
	p := &Pending{done: make(chan struct{})}
	p.state.Store(int32(common.LoadStateLoading))

	l.poolOnce.Do(func() {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 64, time.Second)
	})
	l.pool.SubmitTask(worker.Task{
		Payload: path,
		Do: func() (any, error) {
			asset, err := l.Load(path)
			if err != nil {
				common.Logger().Warn("loader: async load failed", "path", path, "error", err)
			}
			p.finish(asset, err)
			if done != nil {
				done(asset, err)
			}
			return asset, err
		},
	})
	return p
}

func (l *loader) Get(name string) *Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[name]
}

func (l *loader) Assets() map[string]*Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Asset, len(l.assetCache))
	for k, v := range l.assetCache {
		result[k] = v
	}
	return result
}

func (l *loader) Close() {
	if l.pool != nil {
		l.pool.Stop()
	}
}

// resolveBackend checks that the backend reads the file extension.
func (l *loader) resolveBackend(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if l.backend == nil || !slices.Contains(l.backend.Extensions(), ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return nil
}
