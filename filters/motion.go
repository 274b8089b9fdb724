package filters

import (
	"github.com/chewxy/math32"
	"github.com/soypat/fxpipe"
)

// Highlight color blended into moving pixels, opaque red.
const (
	HighlightR = 255
	HighlightG = 0
	HighlightB = 0
)

// MotionHighlight compares cur, the pipeline's possibly already-filtered
// current buffer, against prevRaw, the unfiltered frame of the previous
// tick. Where the absolute luma difference on a 0..1 scale exceeds
// threshold, the current pixel is blended 50/50 with the highlight color;
// everywhere else the current pixel passes through unchanged. The
// comparison is purely per-pixel with no smoothing or hysteresis.
func MotionHighlight(dst, cur, prevRaw *fxpipe.Frame, threshold float32) error {
	if err := checkDims(dst, cur); err != nil {
		return err
	}
	if err := checkDims(dst, prevRaw); err != nil {
		return err
	}
	for y := 0; y < cur.Height; y++ {
		for x := 0; x < cur.Width; x++ {
			r, g, b, a := cur.RGBA8(x, y)
			pr, pg, pb, _ := prevRaw.RGBA8(x, y)
			diff := math32.Abs(LumaNorm(r, g, b) - LumaNorm(pr, pg, pb))
			if diff > threshold {
				dst.SetRGBA8(x, y,
					quantize((float32(r)+HighlightR)*0.5),
					quantize((float32(g)+HighlightG)*0.5),
					quantize((float32(b)+HighlightB)*0.5),
					a)
			} else {
				dst.SetRGBA8(x, y, r, g, b, a)
			}
		}
	}
	return nil
}
