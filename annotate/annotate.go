// Package annotate defines the contract between the pipeline and an
// external object/face inference collaborator, plus a minimal overlay
// renderer for its results. The collaborator consumes rendered frames and
// returns detections; nothing else couples it to the core.
package annotate

import "github.com/soypat/fxpipe"

// Box is an axis-aligned bounding box in frame pixel coordinates.
type Box struct {
	X, Y          int
	Width, Height int
}

// Landmark is a named point of interest inside a detection.
type Landmark struct {
	X, Y int
	Name string
}

// Detection is one annotated object returned by a detector.
type Detection struct {
	Box       Box
	Label     string
	Score     float64
	Landmarks []Landmark
}

// Detector is the external inference collaborator. Implementations receive
// the rendered frame and must not retain or mutate it.
type Detector interface {
	Detect(f *fxpipe.Frame) ([]Detection, error)
}

// DrawOverlay draws detection boxes as 1-pixel outlines and landmarks as
// single dots onto f, in the given color. Coordinates outside the frame are
// clipped. f is typically a copy of the engine readback, never an engine
// buffer.
func DrawOverlay(f *fxpipe.Frame, dets []Detection, r, g, b uint8) {
	for _, d := range dets {
		drawRect(f, d.Box, r, g, b)
		for _, lm := range d.Landmarks {
			setClipped(f, lm.X, lm.Y, r, g, b)
		}
	}
}

func drawRect(f *fxpipe.Frame, box Box, r, g, b uint8) {
	x1, y1 := box.X, box.Y
	x2, y2 := box.X+box.Width-1, box.Y+box.Height-1
	for x := x1; x <= x2; x++ {
		setClipped(f, x, y1, r, g, b)
		setClipped(f, x, y2, r, g, b)
	}
	for y := y1 + 1; y < y2; y++ {
		setClipped(f, x1, y, r, g, b)
		setClipped(f, x2, y, r, g, b)
	}
}

func setClipped(f *fxpipe.Frame, x, y int, r, g, b uint8) {
	if !f.In(x, y) {
		return
	}
	f.SetRGBA8(x, y, r, g, b, 255)
}
