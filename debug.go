package pixeloid

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame timing and cache metrics.
// Only populated when Engine.debug is true.
type frameStats struct {
	queryTime     time.Duration
	compositeTime time.Duration
	evictTime     time.Duration
	objectCount   int
	cacheEntries  int
	cacheBytes    int

	lastPrint time.Time
}

// statsClock measures phase durations. The zero-value clock (debug off)
// makes lap() free.
type statsClock struct {
	enabled bool
	last    time.Time
}

func newStatsClock(enabled bool) statsClock {
	c := statsClock{enabled: enabled}
	if enabled {
		c.last = time.Now()
	}
	return c
}

func (c *statsClock) lap() time.Duration {
	if !c.enabled {
		return 0
	}
	now := time.Now()
	d := now.Sub(c.last)
	c.last = now
	return d
}

// debugLog prints frame and cache stats to stderr, rate-limited to about
// once per second so a 60 TPS loop doesn't flood the terminal.
func (e *Engine) debugLog() {
	now := time.Now()
	if now.Sub(e.stats.lastPrint) < time.Second {
		return
	}
	e.stats.lastPrint = now

	cs := e.cache.Stats()
	total := e.stats.queryTime + e.stats.compositeTime + e.stats.evictTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[pixeloid] query: %v | composite: %v | evict: %v | total: %v\n",
		e.stats.queryTime, e.stats.compositeTime, e.stats.evictTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[pixeloid] zoom: %d | objects: %d | cached: %d (%.1f MiB) | hits: %d | misses: %d | rerenders: %d | evictions: %d | degraded: %d\n",
		e.cam.Zoom, e.stats.objectCount, e.stats.cacheEntries,
		float64(e.stats.cacheBytes)/(1024*1024),
		cs.Hits, cs.Misses, cs.Rerenders, cs.Evictions, cs.Degraded)
}
