package filters

import (
	"github.com/soypat/fxpipe"
)

// Convolve applies kernel k to src and writes the result to dst. dst and src
// must not alias and must have equal dimensions.
//
// For each output pixel the kernel is anchored so that weight
// (k.Width/2, k.Height/2) sits on the pixel. Taps falling outside the image
// simply do not contribute; there is no zero padding or edge clamping, so a
// normalized blur kernel darkens nothing at the borders it can still reach.
// Each RGB channel is clamp(sum*factor+bias, 0, 255); alpha is forced to 255.
func Convolve(dst, src *fxpipe.Frame, k fxpipe.Kernel) error {
	if err := checkDims(dst, src); err != nil {
		return err
	}
	if err := k.Validate(); err != nil {
		return err
	}
	factor := k.EffectiveFactor()
	cx, cy := k.Width/2, k.Height/2
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var sumR, sumG, sumB float32
			for ky := 0; ky < k.Height; ky++ {
				sy := y + ky - cy
				if sy < 0 || sy >= src.Height {
					continue
				}
				for kx := 0; kx < k.Width; kx++ {
					sx := x + kx - cx
					if sx < 0 || sx >= src.Width {
						continue
					}
					w := k.Weights[ky*k.Width+kx]
					i := src.PixOffset(sx, sy)
					sumR += w * float32(src.Pix[i])
					sumG += w * float32(src.Pix[i+1])
					sumB += w * float32(src.Pix[i+2])
				}
			}
			dst.SetRGBA8(x, y,
				quantize(sumR*factor+k.Bias),
				quantize(sumG*factor+k.Bias),
				quantize(sumB*factor+k.Bias),
				255)
		}
	}
	return nil
}
