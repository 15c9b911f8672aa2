package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultFrameArenaPageSize is the number of matrices held by one arena page when no size is configured.
const DefaultFrameArenaPageSize = 4096

// frameAllocator is the implementation of the FrameAllocator interface.
type frameAllocator struct {
	pageSize    int
	pages       [][]mgl32.Mat4
	current     int
	offset      int
	allocations int
	used        int
	peak        int
}

// FrameAllocator is a bump arena whose allocations live for exactly one render frame.
// Every allocation is released at once by Reset, after the renderer consumed the frame's snapshot.
// Slices handed out must not be retained past that Reset; their memory is reused by the next frame.
//
// A FrameAllocator is not safe for concurrent use.
type FrameAllocator interface {
	// AllocMatrices returns a zeroed slice of n matrices backed by arena memory.
	// Requests larger than a page get a dedicated page that is kept for reuse.
	//
	// Parameters:
	//   - n: the number of matrices
	//
	// Returns:
	//   - []mgl32.Mat4: a slice with len and cap n
	AllocMatrices(n int) []mgl32.Mat4

	// Reset reclaims every allocation made since the previous Reset.
	Reset()

	// Stats reports usage of the current frame.
	//
	// Returns:
	//   - FrameAllocatorStats: allocation count, matrices in use, peak use and page count
	Stats() FrameAllocatorStats
}

// FrameAllocatorStats is a snapshot of arena usage.
type FrameAllocatorStats struct {
	// Allocations is the number of AllocMatrices calls since the last Reset.
	Allocations int
	// MatricesUsed is the number of matrices handed out since the last Reset.
	MatricesUsed int
	// PeakMatricesUsed is the largest MatricesUsed observed at any Reset.
	PeakMatricesUsed int
	// Pages is the number of pages currently owned by the arena.
	Pages int
}

var _ FrameAllocator = &frameAllocator{}

// NewFrameAllocator creates a FrameAllocator with the given page size in matrices.
// A non-positive page size selects DefaultFrameArenaPageSize.
//
// Parameters:
//   - pageSize: the number of matrices per page
//
// Returns:
//   - FrameAllocator: the arena
func NewFrameAllocator(pageSize int) FrameAllocator {
	if pageSize <= 0 {
		pageSize = DefaultFrameArenaPageSize
	}
	return &frameAllocator{
		pageSize: pageSize,
		pages:    [][]mgl32.Mat4{make([]mgl32.Mat4, pageSize)},
	}
}

func (a *frameAllocator) AllocMatrices(n int) []mgl32.Mat4 {
	if n <= 0 {
		return nil
	}
	a.allocations++
	a.used += n

	for a.current < len(a.pages) {
		page := a.pages[a.current]
		if a.offset+n <= len(page) {
			out := page[a.offset : a.offset+n : a.offset+n]
			a.offset += n
			clear(out)
			return out
		}
		a.current++
		a.offset = 0
	}

	page := make([]mgl32.Mat4, max(n, a.pageSize))
	a.pages = append(a.pages, page)
	a.current = len(a.pages) - 1
	a.offset = n
	return page[:n:n]
}

func (a *frameAllocator) Reset() {
	a.peak = max(a.peak, a.used)
	a.current = 0
	a.offset = 0
	a.allocations = 0
	a.used = 0
}

func (a *frameAllocator) Stats() FrameAllocatorStats {
	return FrameAllocatorStats{
		Allocations:      a.allocations,
		MatricesUsed:     a.used,
		PeakMatricesUsed: max(a.peak, a.used),
		Pages:            len(a.pages),
	}
}
