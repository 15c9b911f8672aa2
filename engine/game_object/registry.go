package game_object

import (
	"sync"
)

// Handle is a weak reference to a GameObject: a slot index plus the generation the slot had when the
// object was registered. A handle goes stale when its object is destroyed, even if the slot is reused.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero handle, which never resolves.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

// ID packs the handle into a single integer.
func (h Handle) ID() uint64 {
	return uint64(h.Generation)<<32 | uint64(h.Index)
}

type registrySlot struct {
	generation uint32
	obj        GameObject
}

// Registry is a generation-checked slot map of GameObjects. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	slots []registrySlot
	free  []uint32
	live  int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores obj and returns its handle. Freed slots are reused with a bumped generation.
//
// Parameters:
//   - obj: the object to store
//
// Returns:
//   - Handle: the handle that resolves to obj until Release
func (r *Registry) Register(obj GameObject) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, registrySlot{})
	}
	slot := &r.slots[idx]
	slot.generation++
	slot.obj = obj
	r.live++
	return Handle{Index: idx, Generation: slot.generation}
}

// Resolve returns the object behind h if it is still registered.
//
// Parameters:
//   - h: the handle to resolve
//
// Returns:
//   - GameObject: the object, or nil when the handle is stale
//   - bool: whether the handle resolved
func (r *Registry) Resolve(h Handle) (GameObject, bool) {
	if h.IsZero() {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(h.Index) >= len(r.slots) {
		return nil, false
	}
	slot := r.slots[h.Index]
	if slot.generation != h.Generation || slot.obj == nil {
		return nil, false
	}
	return slot.obj, true
}

// Release frees the slot behind h. Stale handles are ignored.
//
// Parameters:
//   - h: the handle to release
//
// Returns:
//   - bool: whether a live object was released
func (r *Registry) Release(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.IsZero() || int(h.Index) >= len(r.slots) {
		return false
	}
	slot := &r.slots[h.Index]
	if slot.generation != h.Generation || slot.obj == nil {
		return false
	}
	slot.obj = nil
	r.free = append(r.free, h.Index)
	r.live--
	return true
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live
}
