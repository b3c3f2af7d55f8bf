package transform

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// snap absorbs floating point noise in trig results so that 90° multiples give
// exact canvas sizes.
const snap = 1e-9

// ExpandedSize returns the canvas size that bounds a width x height rectangle
// rotated by angle degrees.
func ExpandedSize(width, height int, angle float64) (int, int) {
	rad := angle * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	w, h := float64(width), float64(height)
	nw := int(math.Ceil(w*cos + h*sin - snap))
	nh := int(math.Ceil(w*sin + h*cos - snap))
	return max(nw, 1), max(nh, 1)
}

// RotateExpand rotates img counter-clockwise by angle degrees with bicubic
// (Catmull-Rom) resampling. The canvas grows to bound the rotated rectangle and
// the corners outside the source are black.
func RotateExpand(img image.Image, angle float64) *image.NRGBA {
	b := img.Bounds()
	nw, nh := ExpandedSize(b.Dx(), b.Dy(), angle)
	dst := imaging.New(nw, nh, color.Black)

	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	scx := float64(b.Min.X) + float64(b.Dx())/2
	scy := float64(b.Min.Y) + float64(b.Dy())/2
	dcx, dcy := float64(nw)/2, float64(nh)/2

	// y grows downwards, so a counter-clockwise turn maps (x,y) to (x cos + y sin, -x sin + y cos).
	s2d := f64.Aff3{
		cos, sin, dcx - (cos*scx + sin*scy),
		-sin, cos, dcy - (-sin*scx + cos*scy),
	}
	draw.CatmullRom.Transform(dst, s2d, img, b, draw.Src, nil)
	return dst
}
