package fxpipe

import "fmt"

// Kernel is a square (or rectangular) convolution weight matrix with a
// normalization factor and bias. Weights are row-major. The convolution
// result per RGB channel is clamp(sum*Factor+Bias, 0, 255); taps that fall
// outside the image do not contribute.
type Kernel struct {
	Width   int
	Height  int
	Weights []float32
	Factor  float32 // applied to the weighted sum, 1 when unset
	Bias    float32 // added after the factor, in 0..255 units
}

// NewKernel builds a kernel from row-major weights with Factor 1 and no bias.
func NewKernel(width, height int, weights []float32) Kernel {
	return Kernel{Width: width, Height: height, Weights: weights, Factor: 1}
}

func (k Kernel) Validate() error {
	if k.Width <= 0 || k.Height <= 0 {
		return fmt.Errorf("kernel dimensions %dx%d not positive", k.Width, k.Height)
	}
	if len(k.Weights) != k.Width*k.Height {
		return fmt.Errorf("kernel has %d weights, want %d for %dx%d", len(k.Weights), k.Width*k.Height, k.Width, k.Height)
	}
	return nil
}

// EffectiveFactor returns Factor, defaulting to 1 when the zero value was
// left in place so that a literal Kernel{...} behaves sensibly.
func (k Kernel) EffectiveFactor() float32 {
	if k.Factor == 0 {
		return 1
	}
	return k.Factor
}

// Common kernels. Weight tables follow the usual image processing forms.

// KernelIdentity passes the image through unchanged.
func KernelIdentity() Kernel {
	return NewKernel(3, 3, []float32{
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	})
}

// KernelBoxBlur averages over a size x size window.
func KernelBoxBlur(size int) Kernel {
	w := make([]float32, size*size)
	for i := range w {
		w[i] = 1
	}
	k := NewKernel(size, size, w)
	k.Factor = 1 / float32(size*size)
	return k
}

// KernelGaussian is the common 3x3 gaussian approximation.
func KernelGaussian() Kernel {
	k := NewKernel(3, 3, []float32{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	})
	k.Factor = 1.0 / 16.0
	return k
}

// KernelSharpen amplifies the center against its 4-neighborhood.
func KernelSharpen() Kernel {
	return NewKernel(3, 3, []float32{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	})
}

// KernelEdge is a laplacian-style edge detector.
func KernelEdge() Kernel {
	return NewKernel(3, 3, []float32{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	})
}

// KernelEmboss shifts luminance along the diagonal. Bias 128 recenters the
// result so flat areas come out mid-gray.
func KernelEmboss() Kernel {
	k := NewKernel(3, 3, []float32{
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	})
	k.Bias = 128
	return k
}
