// Package imageaugmentor generates randomized training data from a folder of images.
//
// Every source image is expanded into a fixed number of variants. Each variant is
// scaled, rotated and cropped (whichever of these are enabled) with freshly drawn
// random parameters and written as a JPEG into a train or val subdirectory.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		imageaugmentor "github.com/menta2k/image-augmentor"
//		"github.com/menta2k/image-augmentor/pkg/types"
//	)
//
//	func main() {
//		aug := imageaugmentor.New()
//
//		summary, err := aug.AugmentDirectory("photos", "dataset", 10, 0.8, types.Rotate, types.Crop)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("%d/%d variants written to %s and %s\n",
//			summary.VariantsProduced, summary.VariantsExpected, summary.TrainDir, summary.ValDir)
//	}
//
// The package consists of these components:
//
// 1. Transform (pkg/transform): scale, rotate with canvas expansion and crop-back, random crop
// 2. Augment (pkg/augment): directory enumeration, train/val split, naming, run loop
// 3. Processing (pkg/processing): decode and encode
// 4. Cropper (pkg/cropper) and Analyzer (pkg/analyzer): crop geometry and image checks
//
// Random values come from a single seedable source, so a run with a fixed seed is
// reproducible, file names included.
package imageaugmentor

import (
	"image"
	"math/rand"
	"time"

	"github.com/menta2k/image-augmentor/pkg/analyzer"
	"github.com/menta2k/image-augmentor/pkg/augment"
	"github.com/menta2k/image-augmentor/pkg/processing"
	"github.com/menta2k/image-augmentor/pkg/transform"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// Version of the image augmentor library
const Version = "1.0.0"

// ImageAugmentor provides a high-level interface for dataset augmentation
type ImageAugmentor struct {
	config       augment.Config
	analyzer     *analyzer.ImageAnalyzer
	processor    *processing.Processor
	orchestrator *augment.Orchestrator
}

// New creates a new ImageAugmentor with default configuration
func New() *ImageAugmentor {
	ia, err := NewWithConfig(augment.DefaultConfig())
	if err != nil {
		// The default configuration always validates.
		panic(err)
	}
	return ia
}

// NewWithConfig creates a new ImageAugmentor with custom configuration
func NewWithConfig(config augment.Config) (*ImageAugmentor, error) {
	if config.Seed == 0 {
		config.Seed = time.Now().UTC().UnixNano()
	}
	orchestrator, err := augment.New(config)
	if err != nil {
		return nil, err
	}
	return &ImageAugmentor{
		config:       config,
		analyzer:     analyzer.New(),
		processor:    processing.NewProcessor(),
		orchestrator: orchestrator,
	}, nil
}

// SetObserver sets the progress observer used by Augment
func (ia *ImageAugmentor) SetObserver(observer augment.Observer) {
	ia.orchestrator.SetObserver(observer)
}

// LoadImage loads an image from file
func (ia *ImageAugmentor) LoadImage(path string) (image.Image, error) {
	return ia.processor.LoadImage(path)
}

// SaveImage saves an image using the configured output format and quality
func (ia *ImageAugmentor) SaveImage(img image.Image, path string) error {
	out := ia.config.Output
	return ia.processor.SaveImage(img, path, out.Format, out.Quality, out.Lossless)
}

// GetImageInfo returns basic information about an image
func (ia *ImageAugmentor) GetImageInfo(img image.Image) analyzer.ImageInfo {
	return ia.analyzer.GetImageInfo(img)
}

// AugmentImage produces one variant of an in-memory image
func (ia *ImageAugmentor) AugmentImage(img image.Image, ops ...types.Operation) (image.Image, types.TransformParams, error) {
	return ia.orchestrator.Engine().Apply(img, types.NewOperationSet(ops...))
}

// Augment runs the full directory pipeline
func (ia *ImageAugmentor) Augment(req augment.Request) (types.Summary, error) {
	return ia.orchestrator.Run(req)
}

// AugmentDirectory is a convenience wrapper around Augment
func (ia *ImageAugmentor) AugmentDirectory(inputDir, outputRoot string, numVariations int, trainRatio float64, ops ...types.Operation) (types.Summary, error) {
	return ia.Augment(augment.Request{
		InputDir:      inputDir,
		OutputRoot:    outputRoot,
		NumVariations: numVariations,
		Operations:    types.NewOperationSet(ops...),
		TrainRatio:    trainRatio,
	})
}

// NewEngine returns a standalone transform engine seeded with seed
func NewEngine(config transform.Config, seed int64) (*transform.Engine, error) {
	return transform.NewWithConfig(config, rand.New(rand.NewSource(seed)))
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
