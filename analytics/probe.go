package analytics

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soypat/fxpipe"
)

// Pixel is one RGBA8 cell of a probe window. Cells whose coordinates fall
// outside the image are the zero Pixel {0,0,0,0}.
type Pixel struct {
	R, G, B, A uint8
}

// ColorReport describes the probed center pixel in several representations
// for display alongside the magnified neighborhood.
type ColorReport struct {
	Hex     string  // "#RRGGBB"
	R, G, B uint8
	H       float64 // hue in degrees, 0..360
	S       float64 // saturation 0..1
	V       float64 // value 0..1
}

// ProbeResult is a size x size neighborhood magnifier centered at (X, Y).
type ProbeResult struct {
	X, Y  int
	Size  int
	Cells []Pixel // row-major, Size*Size entries
	// Center is the color report for (X, Y), zero valued when the center
	// itself is out of bounds.
	Center ColorReport
}

// Cell returns the probe cell at window coordinates (cx, cy).
func (p *ProbeResult) Cell(cx, cy int) Pixel {
	return p.Cells[cy*p.Size+cx]
}

// Probe extracts a size x size neighborhood centered at (x, y). The window's
// top-left cell maps to image coordinates (x-size/2, y-size/2); cells
// outside the image report the zero pixel. The probe center may itself be
// anywhere, including outside the image.
func Probe(f *fxpipe.Frame, x, y, size int) (*ProbeResult, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("probe size %d not positive", size)
	}
	res := &ProbeResult{X: x, Y: y, Size: size, Cells: make([]Pixel, size*size)}
	x0, y0 := x-size/2, y-size/2
	for cy := 0; cy < size; cy++ {
		for cx := 0; cx < size; cx++ {
			sx, sy := x0+cx, y0+cy
			if !f.In(sx, sy) {
				continue
			}
			r, g, b, a := f.RGBA8(sx, sy)
			res.Cells[cy*size+cx] = Pixel{R: r, G: g, B: b, A: a}
		}
	}
	if f.In(x, y) {
		r, g, b, _ := f.RGBA8(x, y)
		c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
		h, s, v := c.Hsv()
		res.Center = ColorReport{Hex: c.Hex(), R: r, G: g, B: b, H: h, S: s, V: v}
	}
	return res, nil
}
