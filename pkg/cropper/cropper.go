package cropper

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-augmentor/pkg/types"
)

// DefaultRatio is the fraction of each side kept by a random crop
const DefaultRatio = 0.8

// RandomCropper cuts a randomly placed, fixed-ratio window out of an image
type RandomCropper struct {
	config CropConfig
}

// CropConfig holds configuration for random cropping
type CropConfig struct {
	// Ratio of width and height kept, in (0,1).
	Ratio float64
}

// New creates a new RandomCropper with default configuration
func New() *RandomCropper {
	return &RandomCropper{config: CropConfig{Ratio: DefaultRatio}}
}

// NewWithConfig creates a new RandomCropper with custom configuration
func NewWithConfig(config CropConfig) (*RandomCropper, error) {
	if math.IsNaN(config.Ratio) || config.Ratio <= 0 || config.Ratio >= 1 {
		return nil, fmt.Errorf("crop ratio must be in (0,1), got %g", config.Ratio)
	}
	return &RandomCropper{config: config}, nil
}

// Ratio returns the configured crop ratio
func (c *RandomCropper) Ratio() float64 {
	return c.config.Ratio
}

// TargetSize returns floor(width*ratio) x floor(height*ratio)
func (c *RandomCropper) TargetSize(width, height int) (int, int) {
	return int(math.Floor(float64(width) * c.config.Ratio)),
		int(math.Floor(float64(height) * c.config.Ratio))
}

// RandomBox picks a crop window for an image of the given size. The top-left corner
// is uniform over the margin left by the target size. ok is false when the image is
// too small to leave a margin on both axes.
func (c *RandomCropper) RandomBox(width, height int, rng *rand.Rand) (box types.CropBox, ok bool) {
	cropW, cropH := c.TargetSize(width, height)
	if cropW < 1 || cropH < 1 || width <= cropW || height <= cropH {
		return types.CropBox{}, false
	}

	left := rng.Intn(width - cropW + 1)
	top := rng.Intn(height - cropH + 1)
	return types.CropBox{Left: left, Top: top, Right: left + cropW, Bottom: top + cropH}, true
}

// CropRandom applies RandomBox to img. When the image is too small the original is
// returned together with ok=false.
func (c *RandomCropper) CropRandom(img image.Image, rng *rand.Rand) (image.Image, types.CropBox, bool) {
	bounds := img.Bounds()
	box, ok := c.RandomBox(bounds.Dx(), bounds.Dy(), rng)
	if !ok {
		return img, types.CropBox{}, false
	}
	return CropToBox(img, box), box, true
}

// CropToBox crops img to a box given relative to the image origin
func CropToBox(img image.Image, box types.CropBox) *image.NRGBA {
	origin := img.Bounds().Min
	rect := image.Rect(box.Left, box.Top, box.Right, box.Bottom).Add(origin)
	return imaging.Crop(img, rect)
}

// CenterFit returns a width x height window centered on img, the window's left edge
// at img.Dx()/2 - width/2. Where img is smaller than the window the uncovered area is
// black, so the result size is always exact.
func CenterFit(img image.Image, width, height int) *image.NRGBA {
	canvas := imaging.New(width, height, color.Black)
	return imaging.PasteCenter(canvas, img)
}
