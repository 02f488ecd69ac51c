package lumina

import (
	"time"
)

// FrameStats holds timing and counts for the last frame.
type FrameStats struct {
	Frame       uint64
	Layout      time.Duration
	Input       time.Duration
	Render      time.Duration
	Total       time.Duration
	Events      int
	Widgets     int
	Rendered    bool
	Skipped     uint64 // frames whose render pass was skipped so far
	CacheHits   int
	CacheMisses int
}

// Stats returns the last frame's stats.
func (f *Framework) Stats() FrameStats { return f.stats }

// debugLog logs the frame's stats when debug mode is on.
func (f *Framework) debugLog() {
	if !f.debug {
		return
	}
	s := f.stats
	logger().Debug("frame",
		"frame", s.Frame,
		"layout", s.Layout,
		"input", s.Input,
		"render", s.Render,
		"total", s.Total,
		"events", s.Events,
		"widgets", s.Widgets,
		"rendered", s.Rendered,
		"cache_hits", s.CacheHits,
		"cache_misses", s.CacheMisses,
	)
}

const debugMaxTreeDepth = 32

// debugCheckDepth warns if a widget sits deeper than debugMaxTreeDepth.
func (f *Framework) debugCheckDepth(id WidgetID) {
	depth := 0
	for cur, ok := id, true; ok; cur, ok = f.parents[cur] {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger().Warn("widget tree depth exceeds threshold",
			"widget", id.Short(), "depth", depth, "threshold", debugMaxTreeDepth)
	}
}
