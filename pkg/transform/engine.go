// Package transform applies randomized scale, rotate and crop operations to a
// decoded image.
//
// Operations always run in the order scale, rotate, crop, whatever order the
// caller lists them in. Rotation expands the canvas and is then center-cropped
// back to the size the image had when it entered the rotate step, so output
// dimensions depend only on the scale factor and the crop ratio.
package transform

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/menta2k/image-augmentor/pkg/analyzer"
	"github.com/menta2k/image-augmentor/pkg/cropper"
	"github.com/menta2k/image-augmentor/pkg/processing"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// ScaleRange is an inclusive range of scale factors
type ScaleRange struct {
	Min float64
	Max float64
}

// Config holds the engine parameters
type Config struct {
	ScaleRange ScaleRange
	CropRatio  float64
}

// DefaultConfig returns a range biased toward enlargement and a 0.8 crop ratio
func DefaultConfig() Config {
	return Config{
		ScaleRange: ScaleRange{Min: 0.8, Max: 1.5},
		CropRatio:  cropper.DefaultRatio,
	}
}

// Validate checks the engine parameters
func (c Config) Validate() error {
	if math.IsNaN(c.ScaleRange.Min) || math.IsNaN(c.ScaleRange.Max) || math.IsInf(c.ScaleRange.Max, 0) ||
		c.ScaleRange.Min <= 0 || c.ScaleRange.Max < c.ScaleRange.Min {
		return fmt.Errorf("invalid scale range [%g, %g]", c.ScaleRange.Min, c.ScaleRange.Max)
	}
	if math.IsNaN(c.CropRatio) || c.CropRatio <= 0 || c.CropRatio >= 1 {
		return fmt.Errorf("crop ratio must be in (0,1), got %g", c.CropRatio)
	}
	return nil
}

// Engine performs the per-variant transformation. It is not safe for concurrent
// use because it draws from a single random source.
type Engine struct {
	config    Config
	rng       *rand.Rand
	analyzer  *analyzer.ImageAnalyzer
	processor *processing.Processor
	cropper   *cropper.RandomCropper
}

// New creates an Engine with the default configuration
func New(rng *rand.Rand) *Engine {
	e, _ := NewWithConfig(DefaultConfig(), rng)
	return e
}

// NewWithConfig creates an Engine drawing every random value from rng
func NewWithConfig(config Config, rng *rand.Rand) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source")
	}
	c, err := cropper.NewWithConfig(cropper.CropConfig{Ratio: config.CropRatio})
	if err != nil {
		return nil, err
	}
	return &Engine{
		config:    config,
		rng:       rng,
		analyzer:  analyzer.New(),
		processor: processing.NewProcessor(),
		cropper:   c,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// Apply transforms img with the enabled operations and reports the values used.
// The returned image never carries alpha. A crop that does not fit is skipped and
// noted in params.Warnings.
func (e *Engine) Apply(img image.Image, ops types.OperationSet) (image.Image, types.TransformParams, error) {
	var params types.TransformParams
	if err := e.analyzer.ValidateImage(img); err != nil {
		return nil, params, errors.Wrap(err, "transform")
	}

	var cur image.Image = img
	if analyzer.HasAlpha(img) {
		cur = e.processor.FlattenAlpha(img)
	}

	if ops.Has(types.Scale) {
		factor := e.drawScale()
		cur = Scale(cur, factor)
		params.ScaleFactor = &factor
	}

	if ops.Has(types.Rotate) {
		angle := e.rng.Float64() * 360
		cur = RotateFit(cur, angle)
		params.RotationAngle = &angle
	}

	if ops.Has(types.Crop) {
		b := cur.Bounds()
		out, box, ok := e.cropper.CropRandom(cur, e.rng)
		if ok {
			cur = out
			params.CropBox = &box
		} else {
			cw, ch := e.cropper.TargetSize(b.Dx(), b.Dy())
			params.Warnings = append(params.Warnings, fmt.Sprintf(
				"crop skipped: %dx%d image leaves no margin for %dx%d (ratio %g)",
				b.Dx(), b.Dy(), cw, ch, e.cropper.Ratio()))
		}
	}

	return cur, params, nil
}

func (e *Engine) drawScale() float64 {
	r := e.config.ScaleRange
	if r.Max == r.Min {
		return r.Min
	}
	return r.Min + e.rng.Float64()*(r.Max-r.Min)
}

// Scale resizes both sides of img by factor with a bicubic (Catmull-Rom) filter.
// Sides are rounded to the nearest pixel and never drop below one.
func Scale(img image.Image, factor float64) *image.NRGBA {
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	return imaging.Resize(img, w, h, imaging.CatmullRom)
}

// RotateFit rotates img with canvas expansion and center-crops the result back to
// img's own size.
func RotateFit(img image.Image, angle float64) *image.NRGBA {
	b := img.Bounds()
	return cropper.CenterFit(RotateExpand(img, angle), b.Dx(), b.Dy())
}
