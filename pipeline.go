package fxpipe

// Pipeline is the ordered stage list an external editor owns. It is pure
// data with list bookkeeping only; all mutation must happen between ticks.
// The engine works from Snapshot so edits cannot tear a running tick.
type Pipeline struct {
	Stages []*Stage
}

// NewPipeline builds a pipeline from stages in order.
func NewPipeline(stages ...*Stage) *Pipeline {
	return &Pipeline{Stages: stages}
}

// Add appends a stage to the end of the pipeline.
func (p *Pipeline) Add(s *Stage) {
	p.Stages = append(p.Stages, s)
}

// Remove deletes the stage with the given id and reports whether it existed.
func (p *Pipeline) Remove(id string) bool {
	for i, s := range p.Stages {
		if s.ID == id {
			p.Stages = append(p.Stages[:i], p.Stages[i+1:]...)
			return true
		}
	}
	return false
}

// Move repositions the stage with the given id to index pos, clamping pos to
// the valid range. It reports whether the stage existed.
func (p *Pipeline) Move(id string, pos int) bool {
	from := -1
	for i, s := range p.Stages {
		if s.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return false
	}
	s := p.Stages[from]
	p.Stages = append(p.Stages[:from], p.Stages[from+1:]...)
	if pos < 0 {
		pos = 0
	} else if pos > len(p.Stages) {
		pos = len(p.Stages)
	}
	p.Stages = append(p.Stages[:pos], append([]*Stage{s}, p.Stages[pos:]...)...)
	return true
}

// Stage returns the stage with the given id, or nil.
func (p *Pipeline) Stage(id string) *Stage {
	for _, s := range p.Stages {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Snapshot returns value copies of the stages in order. Kernel weights are
// copied too so later editor writes cannot reach a tick in progress.
func (p *Pipeline) Snapshot() []Stage {
	if p == nil {
		return nil
	}
	snap := make([]Stage, len(p.Stages))
	for i, s := range p.Stages {
		snap[i] = *s
		if len(s.Kernel.Weights) != 0 {
			w := make([]float32, len(s.Kernel.Weights))
			copy(w, s.Kernel.Weights)
			snap[i].Kernel.Weights = w
		}
	}
	return snap
}
