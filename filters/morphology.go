package filters

import (
	"github.com/soypat/fxpipe"
)

// Morphology applies erosion or dilation with a sliding square window of
// side 2*radius+1 centered on each pixel. Erosion takes the per-channel
// minimum over in-bounds neighbors with the running minimum initialized to
// 255, so neighbors outside the image never lower it; dilation is the
// per-channel maximum initialized to 0. Alpha is forced to 255.
func Morphology(dst, src *fxpipe.Frame, op fxpipe.MorphOp, radius int) error {
	if err := checkDims(dst, src); err != nil {
		return err
	}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var accR, accG, accB uint8
			if op == fxpipe.MorphErode {
				accR, accG, accB = 255, 255, 255
			}
			for dy := -radius; dy <= radius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= src.Height {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					sx := x + dx
					if sx < 0 || sx >= src.Width {
						continue
					}
					i := src.PixOffset(sx, sy)
					r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
					if op == fxpipe.MorphErode {
						accR, accG, accB = min(accR, r), min(accG, g), min(accB, b)
					} else {
						accR, accG, accB = max(accR, r), max(accG, g), max(accB, b)
					}
				}
			}
			dst.SetRGBA8(x, y, accR, accG, accB, 255)
		}
	}
	return nil
}

// Erode is Morphology with fxpipe.MorphErode.
func Erode(dst, src *fxpipe.Frame, radius int) error {
	return Morphology(dst, src, fxpipe.MorphErode, radius)
}

// Dilate is Morphology with fxpipe.MorphDilate.
func Dilate(dst, src *fxpipe.Frame, radius int) error {
	return Morphology(dst, src, fxpipe.MorphDilate, radius)
}
