package source

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/soypat/fxpipe"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	return img
}

func TestFrameFromImage(t *testing.T) {
	img := gradientImage(16, 12)
	f := FrameFromImage(img)
	if f.Width != 16 || f.Height != 12 {
		t.Fatalf("dims %dx%d, want 16x12", f.Width, f.Height)
	}
	r, g, b, a := f.RGBA8(5, 7)
	if r != 5 || g != 7 || b != 100 || a != 255 {
		t.Fatalf("pixel (5,7) = %d,%d,%d,%d", r, g, b, a)
	}
}

func TestFrameFromImageOffsetBounds(t *testing.T) {
	// Subimages carry non-zero bounds; conversion must renormalize to
	// (0,0) origin.
	img := gradientImage(16, 16).SubImage(image.Rect(4, 4, 12, 12)).(*image.NRGBA)
	f := FrameFromImage(img)
	if f.Width != 8 || f.Height != 8 {
		t.Fatalf("dims %dx%d, want 8x8", f.Width, f.Height)
	}
	if r, g, _, _ := f.RGBA8(0, 0); r != 4 || g != 4 {
		t.Fatalf("pixel (0,0) = %d,%d, want 4,4", r, g)
	}
}

func TestImageSourceFreshness(t *testing.T) {
	s, err := NewImage(gradientImage(8, 8), 0, 0)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if !s.Fresh() {
		t.Fatal("new source not fresh")
	}
	if _, err := s.Frame(); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if s.Fresh() {
		t.Fatal("source still fresh after Frame")
	}
	s.Invalidate()
	if !s.Fresh() {
		t.Fatal("Invalidate did not restore freshness")
	}
}

func TestImageSourceDownscale(t *testing.T) {
	s, err := NewImage(gradientImage(200, 100), 50, 50)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	w, h := s.Dims()
	if w > 50 || h > 50 {
		t.Fatalf("dims %dx%d exceed 50x50", w, h)
	}
	if w != 50 || h != 25 {
		t.Fatalf("dims %dx%d, want 50x25 preserving aspect", w, h)
	}

	// Smaller images never upscale.
	s, err = NewImage(gradientImage(10, 10), 50, 50)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if w, h := s.Dims(); w != 10 || h != 10 {
		t.Fatalf("small image scaled to %dx%d", w, h)
	}
}

func TestImageSourceRejectsBadInput(t *testing.T) {
	if _, err := NewImage(nil, 0, 0); err == nil {
		t.Fatal("nil image accepted")
	}
	if _, err := NewImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 0, 0); err == nil {
		t.Fatal("empty image accepted")
	}
}

func TestFuncSource(t *testing.T) {
	ticks := 0
	s, err := NewFunc(4, 4, func(f *fxpipe.Frame) error {
		ticks++
		f.SetRGBA8(0, 0, uint8(ticks), 0, 0, 255)
		return nil
	})
	if err != nil {
		t.Fatalf("NewFunc: %v", err)
	}
	if !s.Fresh() {
		t.Fatal("live source not fresh")
	}
	f, err := s.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if r, _, _, _ := f.RGBA8(0, 0); r != 1 {
		t.Fatalf("first tick R = %d", r)
	}
	if !s.Fresh() {
		t.Fatal("live source went stale")
	}
	f, err = s.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if r, _, _, _ := f.RGBA8(0, 0); r != 2 {
		t.Fatalf("second tick R = %d", r)
	}
}

func TestFuncSourceErrors(t *testing.T) {
	if _, err := NewFunc(4, 4, nil); err == nil {
		t.Fatal("nil fill accepted")
	}
	if _, err := NewFunc(0, 4, func(*fxpipe.Frame) error { return nil }); err == nil {
		t.Fatal("zero width accepted")
	}
	boom := errors.New("capture failed")
	s, err := NewFunc(2, 2, func(*fxpipe.Frame) error { return boom })
	if err != nil {
		t.Fatalf("NewFunc: %v", err)
	}
	if _, err := s.Frame(); !errors.Is(err, boom) {
		t.Fatalf("Frame error = %v, want %v", err, boom)
	}
}
