package fxpipe

import "fmt"

// ParamError reports an invalid stage parameter. The engine treats the
// offending stage as inactive for the tick and surfaces the error to the
// configuration layer; it never aborts the tick.
type ParamError struct {
	StageID string
	Field   string
	Reason  string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("stage %q: invalid %s: %s", e.StageID, e.Field, e.Reason)
}
