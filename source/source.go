// Package source supplies raw frames to the engine. Sources own freshness:
// a live source produces a new frame every tick, a static source only when
// invalidated, which is what drives manual re-renders of still images.
package source

import (
	"errors"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"github.com/soypat/fxpipe"
)

// Source is the external frame supplier the engine pulls from each tick.
// The engine never mutates frames a source hands out.
type Source interface {
	// Dims returns the dimensions of the frames this source produces.
	Dims() (width, height int)
	// Fresh reports whether Frame would return newer content than the
	// previously returned frame. Callers skip the tick when false.
	Fresh() bool
	// Frame returns the current frame and clears freshness.
	Frame() (*fxpipe.Frame, error)
}

// FrameFromImage converts any image into an RGBA8 frame.
func FrameFromImage(img image.Image) *fxpipe.Frame {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	f := fxpipe.NewFrame(b.Dx(), b.Dy())
	rowLen := f.Width * 4
	for y := 0; y < f.Height; y++ {
		copy(f.Pix[y*rowLen:(y+1)*rowLen], rgba.Pix[y*rgba.Stride:y*rgba.Stride+rowLen])
	}
	return f
}

// Image is a static frame source backing still inputs. It is fresh once
// after construction and after every Invalidate; re-rendering a still image
// is a matter of invalidating and ticking once.
type Image struct {
	frame *fxpipe.Frame
	fresh bool
}

// NewImage builds a static source from img. When maxWidth and maxHeight are
// positive the image is downscaled to fit within them, preserving aspect
// ratio; smaller images are never upscaled.
func NewImage(img image.Image, maxWidth, maxHeight int) (*Image, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("empty image")
	}
	if maxWidth > 0 && maxHeight > 0 && (b.Dx() > maxWidth || b.Dy() > maxHeight) {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}
	return &Image{frame: FrameFromImage(img), fresh: true}, nil
}

// Dims implements [Source].
func (s *Image) Dims() (width, height int) { return s.frame.Width, s.frame.Height }

// Fresh implements [Source].
func (s *Image) Fresh() bool { return s.fresh }

// Frame implements [Source].
func (s *Image) Frame() (*fxpipe.Frame, error) {
	s.fresh = false
	return s.frame, nil
}

// Invalidate marks the source fresh so the next tick re-renders it, e.g.
// after the pipeline was edited.
func (s *Image) Invalidate() { s.fresh = true }

// Func is a live source that fills a frame through a callback every tick,
// suiting video and any producer that writes pixels directly. It is always
// fresh.
type Func struct {
	frame *fxpipe.Frame
	fill  func(*fxpipe.Frame) error
}

// NewFunc builds a live source of fixed dimensions around fill.
func NewFunc(width, height int, fill func(*fxpipe.Frame) error) (*Func, error) {
	if fill == nil {
		return nil, errors.New("nil fill func")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("empty source dimensions")
	}
	return &Func{frame: fxpipe.NewFrame(width, height), fill: fill}, nil
}

// Dims implements [Source].
func (s *Func) Dims() (width, height int) { return s.frame.Width, s.frame.Height }

// Fresh implements [Source].
func (s *Func) Fresh() bool { return true }

// Frame implements [Source].
func (s *Func) Frame() (*fxpipe.Frame, error) {
	if err := s.fill(s.frame); err != nil {
		return nil, err
	}
	return s.frame, nil
}
