package engine

import (
	_ "embed"
	"strings"
)

//go:embed shaders/point.wgsl
var pointShaderWGSL string

//go:embed shaders/convolve.wgsl
var convolveShaderWGSL string

//go:embed shaders/morphology.wgsl
var morphShaderWGSL string

//go:embed shaders/motion.wgsl
var motionShaderWGSL string

// PointShader assembles a complete per-pixel compute shader from a transform
// function body. This is the custom-transform program contract: transform
// must be WGSL defining
//
//	fn transform(c: vec4<f32>) -> vec4<f32>
//
// where c is the current image pixel with channels normalized to 0..1. The
// program may additionally read the current image buffer src, the uniforms
// u.width, u.height (resolution), u.time (seconds since engine start) and
// the free parameters u.param0..u.param3. The engine performs no semantic
// validation beyond compile success.
func PointShader(transform string) string {
	return strings.Replace(pointShaderWGSL, "// TRANSFORM_PLACEHOLDER", transform, 1)
}

// identityTransform passes pixels through unchanged. It backs the pinned
// identity cache entry that failed custom programs degrade to.
const identityTransform = `
fn transform(c: vec4<f32>) -> vec4<f32> {
    return c;
}
`

// bitplaneTransform renders luma bit u.param0 (1..8) as white on black.
// The floor and bit test mirror filters.BitPlane.
const bitplaneTransform = `
fn transform(c: vec4<f32>) -> vec4<f32> {
    let luma = floor(0.299 * c.r * 255.0 + 0.587 * c.g * 255.0 + 0.114 * c.b * 255.0);
    let bit = u32(u.param0) - 1u;
    if (((u32(luma) >> bit) & 1u) == 1u) {
        return vec4<f32>(1.0, 1.0, 1.0, 1.0);
    }
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

// decomposeTransform outputs the color-space component selected by u.param0
// (0 rgb, 1 gray, 2 hue, 3 saturation, 4 value), mirroring filters.Decompose
// including the sextant hue formula wrapping at 6.
const decomposeTransform = `
fn transform(c: vec4<f32>) -> vec4<f32> {
    let ch = u32(u.param0);
    if (ch == 0u) {
        return c;
    }
    if (ch == 1u) {
        let l = 0.299 * c.r + 0.587 * c.g + 0.114 * c.b;
        return vec4<f32>(l, l, l, 1.0);
    }
    let maxc = max(c.r, max(c.g, c.b));
    let minc = min(c.r, min(c.g, c.b));
    let delta = maxc - minc;
    var out = maxc;
    if (ch == 3u) {
        out = 0.0;
        if (maxc > 0.0) {
            out = delta / maxc;
        }
    } else if (ch == 2u) {
        var hue = 0.0;
        if (delta > 0.0) {
            if (maxc == c.r) {
                hue = (c.g - c.b) / delta;
                if (hue < 0.0) {
                    hue = hue + 6.0;
                }
            } else if (maxc == c.g) {
                hue = (c.b - c.r) / delta + 2.0;
            } else {
                hue = (c.r - c.g) / delta + 4.0;
            }
        }
        out = hue / 6.0;
    }
    return vec4<f32>(out, out, out, 1.0);
}
`
