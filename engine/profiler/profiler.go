// Package profiler times the phases of a single render and samples memory statistics.
package profiler

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"
)

// Phase is one timed step of a render.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Profiler records consecutive phase durations for one render.
// Memory statistics are only sampled when its logger is at debug level.
// It is not safe for concurrent use.
type Profiler struct {
	logger   *log.Logger
	enabled  bool
	start    time.Time
	last     time.Time
	phases   []Phase
	memStats runtime.MemStats
	startGC  uint32
	startTot uint64
	now      func() time.Time
	readMem  func(*runtime.MemStats)
}

// NewProfiler creates a Profiler whose first phase starts now.
//
// Parameters:
//   - logger: where Report writes; its level decides whether memory is sampled
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *log.Logger) *Profiler {
	return newProfiler(logger, time.Now, runtime.ReadMemStats)
}

func newProfiler(logger *log.Logger, now func() time.Time, readMem func(*runtime.MemStats)) *Profiler {
	p := &Profiler{
		logger:  logger,
		enabled: logger.GetLevel() <= log.DebugLevel,
		now:     now,
		readMem: readMem,
	}
	if p.enabled {
		p.readMem(&p.memStats)
		p.startGC = p.memStats.NumGC
		p.startTot = p.memStats.TotalAlloc
	}
	p.start = now()
	p.last = p.start
	return p
}

// Mark ends the current phase under the given name and starts the next one.
//
// Parameters:
//   - name: the name of the phase that just finished
//
// Returns:
//   - time.Duration: how long the phase took
func (p *Profiler) Mark(name string) time.Duration {
	t := p.now()
	d := t.Sub(p.last)
	p.phases = append(p.phases, Phase{Name: name, Duration: d})
	p.last = t
	return d
}

// Phases returns the phases marked so far, in order.
//
// Returns:
//   - []Phase: the recorded phases
func (p *Profiler) Phases() []Phase {
	return p.phases
}

// Total returns the time since the profiler was created up to the last mark.
//
// Returns:
//   - time.Duration: the summed phase time
func (p *Profiler) Total() time.Duration {
	return p.last.Sub(p.start)
}

// Report logs every phase and the heap activity since creation at debug level.
// It does nothing when the logger was above debug level at creation.
func (p *Profiler) Report() {
	if !p.enabled {
		return
	}
	p.readMem(&p.memStats)
	// Alloc: live heap; TotalAlloc grows forever so the delta is this render's churn
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	churnMB := float64(p.memStats.TotalAlloc-p.startTot) / 1024 / 1024

	kv := make([]any, 0, len(p.phases)*2+8)
	for _, ph := range p.phases {
		kv = append(kv, ph.Name, ph.Duration.Round(time.Microsecond))
	}
	kv = append(kv,
		"total", p.Total().Round(time.Microsecond),
		"heap_mb", round2(allocMB),
		"alloc_mb", round2(churnMB),
		"gc", p.memStats.NumGC-p.startGC,
	)
	p.logger.Debug("render profile", kv...)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
