package filters

import (
	"github.com/chewxy/math32"
	"github.com/soypat/fxpipe"
)

// BitPlane renders one binary digit of quantized luma: a pixel becomes white
// when bit (bit-1) of floor(luma) is set and black otherwise. bit is 1..8
// where 1 selects the least significant plane. Alpha is forced to 255.
func BitPlane(dst, src *fxpipe.Frame, bit int) error {
	if err := checkDims(dst, src); err != nil {
		return err
	}
	if bit < 1 || bit > 8 {
		return &fxpipe.ParamError{Field: "bit", Reason: "must be in 1..8"}
	}
	mask := uint32(1) << uint(bit-1)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			r, g, b, _ := src.RGBA8(x, y)
			l := uint32(math32.Floor(Luma(r, g, b)))
			var v uint8
			if l&mask != 0 {
				v = 255
			}
			dst.SetRGBA8(x, y, v, v, v, 255)
		}
	}
	return nil
}
