// Package engine executes filter pipelines against live frames. The GPU
// Engine runs every stage as a WebGPU compute pass over double-buffered
// storage buffers; CPU is a host implementation with identical semantics
// built on package filters, used where no adapter is available and as the
// reference the GPU path is tested against.
package engine

import "github.com/soypat/fxpipe"

// Renderer is the per-tick contract shared by the GPU and CPU engines.
//
// The tick protocol is Resize (once, and after any dimension change),
// then per tick LoadFrame followed by Execute, then Readback as needed.
// Renderers are single-threaded: calls must not overlap, and the pipeline
// may only be edited between ticks. Execute snapshots the stage list, so
// an edit racing a tick boundary can never tear a tick in progress.
type Renderer interface {
	// Resize reallocates all frame-sized resources. It is a no-op when the
	// dimensions are unchanged and destructive otherwise: the loaded frame
	// and previous-raw-frame snapshot are dropped.
	Resize(width, height int) error
	// LoadFrame uploads the current raw frame. The frame dimensions must
	// match the last Resize.
	LoadFrame(f *fxpipe.Frame) error
	// Execute runs every active stage of the pipeline in order over the
	// loaded frame. Per-stage failures are isolated and reported in the
	// returned issues; a non-nil error means the tick did not run at all.
	// After the stage loop the raw source frame is snapshotted as the
	// previous frame consumed by the next tick's motion stage.
	Execute(p *fxpipe.Pipeline) ([]StageIssue, error)
	// Readback returns the final buffer of the last Execute as a flat
	// RGBA8 array in top-left-origin row order. With no Execute since the
	// last LoadFrame it returns the loaded frame.
	Readback() ([]byte, error)
	// Cleanup releases all resources owned by the renderer.
	Cleanup()
}
