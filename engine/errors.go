package engine

import "fmt"

// ResourceError reports a failure to acquire or allocate a GPU resource.
// It is fatal for the operation that raised it: construction-time resource
// errors abort setup entirely.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string { return fmt.Sprintf("engine: %s: %v", e.Op, e.Err) }
func (e *ResourceError) Unwrap() error { return e.Err }

// CompileError reports a transform program that failed to compile or link.
// It is recovered per stage: the program's cache entry is permanently
// replaced with the identity pass-through and the tick continues.
type CompileError struct {
	Source string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("engine: program compile failed (%d byte source): %v", len(e.Source), e.Err)
}
func (e *CompileError) Unwrap() error { return e.Err }

// ReadbackError reports a failed readback. No partial buffer is ever
// returned alongside one.
type ReadbackError struct {
	Err error
}

func (e *ReadbackError) Error() string { return fmt.Sprintf("engine: readback: %v", e.Err) }
func (e *ReadbackError) Unwrap() error { return e.Err }

// StageIssue records a per-stage failure during one Execute call. Issues
// never abort the tick: the offending stage behaves as inactive (invalid
// parameters) or as identity (failed custom program) and the remaining
// stages run normally.
type StageIssue struct {
	StageID string
	Err     error
}

func (si StageIssue) Error() string {
	return fmt.Sprintf("stage %q: %v", si.StageID, si.Err)
}
