package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/soypat/fxpipe"
	"github.com/soypat/fxpipe/filters"
)

// ErrCustomUnsupported marks custom-transform stages on the CPU engine,
// which has no program compiler: the stage runs as identity and the issue
// reports why, mirroring a failed program on the GPU engine.
var ErrCustomUnsupported = errors.New("custom transform programs require the GPU engine; stage ran as identity")

// CPU is a host renderer with semantics identical to the GPU Engine: same
// snapshot rule, same ping-pong swap discipline, same previous-raw-frame
// lag, same per-stage failure isolation, built on the reference formulas in
// package filters. It backs environments without a usable adapter and the
// tests that pin down tick semantics.
type CPU struct {
	log           *logrus.Logger
	width, height int
	source        *fxpipe.Frame
	ping          *fxpipe.Frame
	pong          *fxpipe.Frame
	prevRaw       *fxpipe.Frame

	final       *fxpipe.Frame
	prevValid   bool
	frameLoaded bool
}

var _ Renderer = (*CPU)(nil)

// NewCPU returns a CPU renderer. A nil logger uses the logrus standard
// logger.
func NewCPU(logger *logrus.Logger) *CPU {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CPU{log: logger}
}

// Dims returns the current buffer dimensions.
func (c *CPU) Dims() (width, height int) { return c.width, c.height }

// Resize implements [Renderer].
func (c *CPU) Resize(width, height int) error {
	if width == c.width && height == c.height {
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("dimensions %dx%d not positive", width, height)
	}
	c.width, c.height = width, height
	c.source = fxpipe.NewFrame(width, height)
	c.ping = fxpipe.NewFrame(width, height)
	c.pong = fxpipe.NewFrame(width, height)
	c.prevRaw = fxpipe.NewFrame(width, height)
	c.final = nil
	c.prevValid = false
	c.frameLoaded = false
	return nil
}

// LoadFrame implements [Renderer].
func (c *CPU) LoadFrame(f *fxpipe.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Width != c.width || f.Height != c.height {
		return fmt.Errorf("frame is %dx%d, engine sized %dx%d: resize first", f.Width, f.Height, c.width, c.height)
	}
	c.source.CopyFrom(f)
	c.frameLoaded = true
	if c.final == nil {
		c.final = c.source
	}
	return nil
}

// Execute implements [Renderer] with the same tick semantics as
// Engine.Execute.
func (c *CPU) Execute(p *fxpipe.Pipeline) ([]StageIssue, error) {
	if !c.frameLoaded {
		return nil, errors.New("no frame loaded")
	}
	snap := p.Snapshot()
	if !c.prevValid {
		c.prevRaw.CopyFrom(c.source)
		c.prevValid = true
	}
	input := c.source
	usePing := true
	var issues []StageIssue
	for i := range snap {
		st := &snap[i]
		if !st.Active {
			continue
		}
		if err := st.Validate(); err != nil {
			issues = append(issues, StageIssue{StageID: st.ID, Err: err})
			c.log.WithFields(logrus.Fields{"stage": st.ID, "type": st.Type.String()}).WithError(err).Warn("stage skipped")
			continue
		}
		out := c.pong
		if usePing {
			out = c.ping
		}
		var err error
		switch st.Type {
		case fxpipe.StageConvolution:
			err = filters.Convolve(out, input, st.Kernel)
		case fxpipe.StageMorphology:
			err = filters.Morphology(out, input, st.Op, st.Radius)
		case fxpipe.StageBitPlane:
			err = filters.BitPlane(out, input, st.Bit)
		case fxpipe.StageDecompose:
			err = filters.Decompose(out, input, st.Channel)
		case fxpipe.StageMotionHeatmap:
			err = filters.MotionHighlight(out, input, c.prevRaw, st.Threshold)
		case fxpipe.StageCustom:
			issues = append(issues, StageIssue{StageID: st.ID, Err: ErrCustomUnsupported})
			err = out.CopyFrom(input)
		}
		if err != nil {
			issues = append(issues, StageIssue{StageID: st.ID, Err: err})
			continue
		}
		input = out
		usePing = !usePing
	}
	c.prevRaw.CopyFrom(c.source)
	c.final = input
	return issues, nil
}

// Readback implements [Renderer].
func (c *CPU) Readback() ([]byte, error) {
	if c.final == nil {
		return nil, &ReadbackError{Err: errors.New("no frame rendered")}
	}
	out := make([]byte, len(c.final.Pix))
	copy(out, c.final.Pix)
	return out, nil
}

// Cleanup implements [Renderer].
func (c *CPU) Cleanup() {
	c.source, c.ping, c.pong, c.prevRaw, c.final = nil, nil, nil, nil, nil
	c.width, c.height = 0, 0
	c.prevValid, c.frameLoaded = false, false
}
