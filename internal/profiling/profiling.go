package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates per-frame CPU time per named section.
// A nil *Profiler is valid and records nothing.
type Profiler struct {
	mu          sync.Mutex
	frameTotals map[string]time.Duration
	now         func() time.Time
}

func New() *Profiler {
	return &Profiler{
		frameTotals: make(map[string]time.Duration),
		now:         time.Now,
	}
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer p.Track("renderer.geometry")()
func (p *Profiler) Track(name string) func() {
	if p == nil {
		return func() {}
	}
	start := p.now()
	return func() {
		d := p.now().Sub(start)
		p.mu.Lock()
		p.frameTotals[name] += d
		p.mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func (p *Profiler) ResetFrame() {
	if p == nil {
		return
	}
	p.mu.Lock()
	clear(p.frameTotals)
	p.mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.frameTotals))
	for k, v := range p.frameTotals {
		out[k] = v
	}
	return out
}

// Total returns the sum of every section recorded this frame
func (p *Profiler) Total() time.Duration {
	var sum time.Duration
	for _, d := range p.Snapshot() {
		sum += d
	}
	return sum
}

// TopN formats top N durations from the current frame totals.
// Example: "renderer.geometry:4.2ms, renderer.composite:0.8ms"
func (p *Profiler) TopN(n int) string {
	ss := p.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, list[i].name+":"+formatMs(ms))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops ".0"
func formatMs(ms float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(ms, 'f', 1, 64), ".0") + "ms"
}
