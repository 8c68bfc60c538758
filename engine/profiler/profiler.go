package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/phoenix-go/engine/renderer"
)

// Report is one interval of display performance.
type Report struct {
	FPS float64

	// Draws, Views and ClipSets are averaged per frame over the interval.
	Draws    float64
	Views    float64
	ClipSets float64

	// Tasks is the number of posted tasks run during the interval.
	Tasks int

	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate, renderer load and memory statistics.
// Reports are handed to the sink at a configurable interval.
type Profiler struct {
	frameCount     int
	draws          int
	views          int
	clipSets       int
	tasks          int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now  func() time.Time
	sink func(Report)
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and reports are logged.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		sink:           logReport,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with the frame's renderer statistics.
// Hands a Report to the sink when the update interval has elapsed.
//
// Parameters:
//   - stats: the statistics of the frame just rendered
//   - tasks: the number of posted tasks run before the frame
//
// Returns:
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick(stats renderer.FrameStats, tasks int) bool {
	p.frameCount++
	p.draws += stats.Draws
	p.views += stats.Views
	p.clipSets += stats.ClipSets
	p.tasks += tasks

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	r := Report{
		FPS:      frames / elapsed.Seconds(),
		Draws:    float64(p.draws) / frames,
		Views:    float64(p.views) / frames,
		ClipSets: float64(p.clipSets) / frames,
		Tasks:    p.tasks,
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows and tracks churn, Sys is the process footprint.
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	r.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	r.GCCount = gcCount
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > r.MaxPauseUs {
				r.MaxPauseUs = pause
			}
		}
	}

	p.sink(r)

	p.frameCount, p.draws, p.views, p.clipSets, p.tasks = 0, 0, 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

func logReport(r Report) {
	log.Printf("[Profiler] FPS: %.2f | Draws: %.1f | Views: %.1f | Clip sets: %.1f | Tasks: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		r.FPS, r.Draws, r.Views, r.ClipSets, r.Tasks, r.HeapMB, r.AllocRateMB, r.GCCount, r.LastPauseUs, r.MaxPauseUs, r.SysMB)
}
