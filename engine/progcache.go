package engine

import (
	"container/list"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultCacheCapacity bounds the program cache. Continuously edited
// program text would grow the cache without bound, so entries beyond the
// capacity are evicted least-recently-used.
const DefaultCacheCapacity = 64

// CompileFunc compiles complete program source text into a compute
// pipeline.
type CompileFunc func(source string) (*wgpu.ComputePipeline, error)

// ProgramCache compiles and caches transform programs keyed by their exact
// source text. A program that fails to compile is permanently bound to the
// identity pipeline for the lifetime of its cache entry, so re-running a
// broken stage costs nothing and never aborts a tick. The identity entry
// itself is pinned and never evicted.
type ProgramCache struct {
	mu       sync.Mutex
	compile  CompileFunc
	identity *wgpu.ComputePipeline
	release  func(*wgpu.ComputePipeline)
	capacity int
	order    *list.List // front is most recently used
	entries  map[string]*list.Element
}

type cacheEntry struct {
	source   string
	pipeline *wgpu.ComputePipeline
	err      error // non-nil: compile failed and pipeline is the identity
}

// NewProgramCache builds a cache around compile. identity is the fallback
// pipeline for failed programs. release, if non-nil, is called on pipelines
// dropped by eviction or Cleanup (never on identity). capacity <= 0 selects
// DefaultCacheCapacity.
func NewProgramCache(compile CompileFunc, identity *wgpu.ComputePipeline, capacity int, release func(*wgpu.ComputePipeline)) *ProgramCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ProgramCache{
		compile:  compile,
		identity: identity,
		release:  release,
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get returns the pipeline for source, compiling it on first use. When the
// program failed to compile, the identity pipeline is returned together
// with the recorded *CompileError so callers can keep reporting the failure
// without recompiling; the cache never holds a program that failed to link.
func (pc *ProgramCache) Get(source string) (*wgpu.ComputePipeline, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if el, ok := pc.entries[source]; ok {
		pc.order.MoveToFront(el)
		e := el.Value.(*cacheEntry)
		return e.pipeline, e.err
	}
	e := &cacheEntry{source: source}
	e.pipeline, e.err = pc.compile(source)
	if e.err != nil {
		e.pipeline = pc.identity
		e.err = &CompileError{Source: source, Err: e.err}
	}
	pc.entries[source] = pc.order.PushFront(e)
	for pc.order.Len() > pc.capacity {
		pc.evictOldest()
	}
	return e.pipeline, e.err
}

// Identity returns the pinned identity pipeline.
func (pc *ProgramCache) Identity() *wgpu.ComputePipeline {
	return pc.identity
}

// Len returns the number of cached entries.
func (pc *ProgramCache) Len() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.order.Len()
}

func (pc *ProgramCache) evictOldest() {
	el := pc.order.Back()
	if el == nil {
		return
	}
	e := pc.order.Remove(el).(*cacheEntry)
	delete(pc.entries, e.source)
	if pc.release != nil && e.pipeline != pc.identity {
		pc.release(e.pipeline)
	}
}

// Cleanup drops every entry and releases the identity pipeline.
func (pc *ProgramCache) Cleanup() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for pc.order.Len() > 0 {
		pc.evictOldest()
	}
	if pc.release != nil && pc.identity != nil {
		pc.release(pc.identity)
		pc.identity = nil
	}
}
