// Package filters holds the CPU reference implementations of the pipeline's
// filter algorithms. Every function here computes exactly what the engine's
// GPU shader for the same stage computes: arithmetic is float32 throughout
// so results track the shaders' f32 math, and rounding is always
// floor(v+0.5) after clamping to 0..255.
package filters

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/fxpipe"
)

var errDimsMismatch = errors.New("destination dimensions do not match source")

// Luma returns the weighted grayscale intensity of a pixel in 0..255:
// 0.299*R + 0.587*G + 0.114*B.
func Luma(r, g, b uint8) float32 {
	return 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)
}

// LumaNorm returns Luma scaled to 0..1, the scale motion thresholds use.
func LumaNorm(r, g, b uint8) float32 {
	return Luma(r, g, b) / 255
}

// quantize clamps v to 0..255 and rounds half up, the shared store rule of
// every filter output channel.
func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math32.Floor(v + 0.5))
}

func checkDims(dst, src *fxpipe.Frame) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return errDimsMismatch
	}
	return nil
}
