package filters

import (
	"github.com/chewxy/math32"
	"github.com/soypat/fxpipe"
)

// Decompose outputs a single color-space component of each pixel, replicated
// into R, G and B. ChannelRGB passes the pixel through unchanged and
// ChannelGray outputs luma; the HSV channels use the max-component hue
// formula with the hue sextant wrapping at 6, scaled to 0..255. Alpha is
// forced to 255 except for the RGB passthrough, which keeps the source alpha.
func Decompose(dst, src *fxpipe.Frame, ch fxpipe.Channel) error {
	if err := checkDims(dst, src); err != nil {
		return err
	}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			r, g, b, a := src.RGBA8(x, y)
			switch ch {
			case fxpipe.ChannelRGB:
				dst.SetRGBA8(x, y, r, g, b, a)
				continue
			case fxpipe.ChannelGray:
				v := quantize(Luma(r, g, b))
				dst.SetRGBA8(x, y, v, v, v, 255)
				continue
			}
			h, s, v := hsv(r, g, b)
			var out float32
			switch ch {
			case fxpipe.ChannelHue:
				out = h
			case fxpipe.ChannelSaturation:
				out = s
			default:
				out = v
			}
			q := quantize(out * 255)
			dst.SetRGBA8(x, y, q, q, q, 255)
		}
	}
	return nil
}

// hsv converts an RGB8 pixel to hue, saturation and value, each in 0..1.
// Hue is the classic 6-branch sextant formula: the sextant index is derived
// from the maximum component, wraps modulo 6, then divides by 6.
func hsv(r8, g8, b8 uint8) (h, s, v float32) {
	r := float32(r8) / 255
	g := float32(g8) / 255
	b := float32(b8) / 255
	maxc := math32.Max(r, math32.Max(g, b))
	minc := math32.Min(r, math32.Min(g, b))
	delta := maxc - minc
	v = maxc
	if maxc > 0 {
		s = delta / maxc
	}
	if delta == 0 {
		return 0, s, v
	}
	switch maxc {
	case r:
		h = (g - b) / delta
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h /= 6
	return h, s, v
}
