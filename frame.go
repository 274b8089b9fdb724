// Package fxpipe defines the data model for a real-time visual filter
// pipeline: frames, convolution kernels, stage descriptors and the ordered
// pipeline an external editor mutates between render ticks.
//
// The model is pure data. Execution lives in package engine, the matching
// CPU reference formulas in package filters, and readback consumers in
// package analytics.
package fxpipe

import (
	"errors"
	"fmt"
	"image"
)

// Frame is a raw RGBA8 image: row-major pixel data with the origin at the
// top-left corner. Frames produced by a source are read-only to the engine.
type Frame struct {
	Width  int
	Height int
	// Pix holds 4 bytes per pixel in R,G,B,A order.
	// Row y starts at offset y*Width*4.
	Pix []byte
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

func (f *Frame) Validate() error {
	if f == nil {
		return errors.New("nil frame")
	} else if f.Width <= 0 || f.Height <= 0 {
		return errors.New("empty frame")
	} else if len(f.Pix) != f.Size() {
		return fmt.Errorf("frame buffer is %d bytes, want %d for %dx%d RGBA8", len(f.Pix), f.Size(), f.Width, f.Height)
	}
	return nil
}

// NumPixels returns the pixel count of the frame.
func (f *Frame) NumPixels() int { return f.Width * f.Height }

// Size returns the byte size of the frame's pixel buffer.
func (f *Frame) Size() int { return f.Width * f.Height * 4 }

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (f *Frame) PixOffset(x, y int) int { return (y*f.Width + x) * 4 }

// In reports whether (x, y) lies inside the frame.
func (f *Frame) In(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// RGBA8 returns the pixel at (x, y). Coordinates must be in bounds.
func (f *Frame) RGBA8(x, y int) (r, g, b, a uint8) {
	i := f.PixOffset(x, y)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]
}

// SetRGBA8 overwrites the pixel at (x, y). Coordinates must be in bounds.
func (f *Frame) SetRGBA8(x, y int, r, g, b, a uint8) {
	i := f.PixOffset(x, y)
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = r, g, b, a
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	c := &Frame{Width: f.Width, Height: f.Height, Pix: make([]byte, len(f.Pix))}
	copy(c.Pix, f.Pix)
	return c
}

// CopyFrom copies src's pixels into f. Dimensions must match.
func (f *Frame) CopyFrom(src *Frame) error {
	if f.Width != src.Width || f.Height != src.Height {
		return fmt.Errorf("copy %dx%d frame into %dx%d frame", src.Width, src.Height, f.Width, f.Height)
	}
	copy(f.Pix, src.Pix)
	return nil
}

// RGBA wraps the frame's buffer in an *image.RGBA sharing the same memory.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
