package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
)

// FrameSample is what one engine frame reports to the profiler.
type FrameSample struct {
	Update scene.UpdateStats
	Render renderer.FrameStats
	Arena  renderer.FrameAllocatorStats
}

// Report is one interval's aggregate, as logged.
type Report struct {
	FPS            float64
	PoseComponents int
	AvgPoseTime    time.Duration
	RenderObjects  int
	BoneMatrices   int
	Culled         int
	ArenaPeak      int
	ArenaPages     int
	HeapMB         float64
	AllocRateMB    float64
	GCCount        uint32
}

// Profiler tracks frame rate, animation work and memory statistics for performance monitoring.
// Outputs stats to the engine logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	now            func() time.Time

	poseTime time.Duration
	last     FrameSample
	arenaMax int
}

// NewProfiler creates a new Profiler logging every interval. A non-positive interval defaults to 1 second.
//
// Parameters:
//   - interval: time between reports
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per frame with that frame's sample.
// Logs a report when the update interval has elapsed.
//
// Parameters:
//   - sample: the frame's statistics
//
// Returns:
//   - Report: the logged report, zero when nothing was logged
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(sample FrameSample) (Report, bool) {
	p.frameCount++
	p.poseTime += sample.Update.PoseTime
	p.arenaMax = max(p.arenaMax, sample.Arena.PeakMatricesUsed)
	p.last = sample

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Report{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	r := Report{
		FPS:            float64(p.frameCount) / elapsed.Seconds(),
		PoseComponents: sample.Update.PoseComponents,
		AvgPoseTime:    p.poseTime / time.Duration(p.frameCount),
		RenderObjects:  sample.Render.RenderObjects,
		BoneMatrices:   sample.Render.BoneMatrices,
		Culled:         sample.Render.Culled,
		ArenaPeak:      p.arenaMax,
		ArenaPages:     sample.Arena.Pages,
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:    float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:        p.memStats.NumGC,
	}
	common.Logger().Info("profiler",
		"fps", r.FPS,
		"pose_components", r.PoseComponents,
		"avg_pose_time", r.AvgPoseTime,
		"render_objects", r.RenderObjects,
		"bone_matrices", r.BoneMatrices,
		"culled", r.Culled,
		"arena_peak", r.ArenaPeak,
		"arena_pages", r.ArenaPages,
		"heap_mb", r.HeapMB,
		"alloc_rate_mb", r.AllocRateMB,
		"gc", r.GCCount,
	)

	p.frameCount = 0
	p.poseTime = 0
	p.arenaMax = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return r, true
}
