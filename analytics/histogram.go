// Package analytics derives histogram and pixel-probe data from the
// engine's readback buffer. It is independent of rendering: both functions
// work on any RGBA8 frame, whether it came from the GPU engine, the CPU
// engine or straight from a source.
package analytics

import (
	"github.com/soypat/fxpipe"
	"github.com/soypat/fxpipe/filters"
)

// Histogram holds 256-bin counters for the red, green and blue channels and
// for rounded luma, together with the maximum bin value across all four for
// caller-side normalization of plotted bars.
type Histogram struct {
	R    [256]uint32
	G    [256]uint32
	B    [256]uint32
	Luma [256]uint32
	Max  uint32
}

// Compute counts every pixel of f into the four channel histograms.
func Compute(f *fxpipe.Frame) (*Histogram, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	h := &Histogram{}
	for i := 0; i < len(f.Pix); i += 4 {
		r, g, b := f.Pix[i], f.Pix[i+1], f.Pix[i+2]
		h.R[r]++
		h.G[g]++
		h.B[b]++
		l := int(filters.Luma(r, g, b) + 0.5)
		if l > 255 {
			l = 255
		}
		h.Luma[l]++
	}
	for i := 0; i < 256; i++ {
		h.Max = max(h.Max, h.R[i], h.G[i], h.B[i], h.Luma[i])
	}
	return h, nil
}
