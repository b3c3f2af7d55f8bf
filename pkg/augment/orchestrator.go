// Package augment turns a directory of source images into train and validation
// sets of randomly transformed variants.
//
// A run is a single synchronous pass: each source image is decoded once, all of
// its variants are transformed and written, and then the next image is loaded.
// The first TrainCount variant indices of every image go to train, the rest to val.
// Failures on one image or variant are reported and skipped; only setup problems
// (bad input directory, no images, no operations, output directories that cannot
// be created) abort the run.
package augment

import (
	"image"
	"math"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/menta2k/image-augmentor/internal/utils"
	"github.com/menta2k/image-augmentor/pkg/processing"
	"github.com/menta2k/image-augmentor/pkg/transform"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// OutputConfig controls how variants are encoded
type OutputConfig struct {
	Format   string
	Quality  int
	Lossless bool
}

// Config holds orchestrator configuration
type Config struct {
	Transform transform.Config
	Output    OutputConfig
	// Seed for the shared random source; 0 seeds from the clock.
	Seed int64
	// Extensions picked up from the input directory.
	Extensions []string
}

// DefaultConfig returns JPEG quality 95 output and the default transform settings
func DefaultConfig() Config {
	return Config{
		Transform:  transform.DefaultConfig(),
		Output:     OutputConfig{Format: "jpg", Quality: processing.DefaultJPEGQuality},
		Extensions: utils.SupportedExtensions,
	}
}

// Request is one augmentation run
type Request struct {
	InputDir      string
	OutputRoot    string
	NumVariations int
	Operations    types.OperationSet
	TrainRatio    float64
}

// Orchestrator drives the per-image, per-variant loop
type Orchestrator struct {
	config    Config
	rng       *rand.Rand
	engine    *transform.Engine
	processor *processing.Processor
	observer  Observer
}

// New creates an Orchestrator. The engine, fallback selection and file ids share
// one random source so a fixed seed reproduces a run.
func New(config Config) (*Orchestrator, error) {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engine, err := transform.NewWithConfig(config.Transform, rng)
	if err != nil {
		return nil, errors.Wrap(err, "transform config")
	}
	if len(config.Extensions) == 0 {
		config.Extensions = utils.SupportedExtensions
	}
	return &Orchestrator{
		config:    config,
		rng:       rng,
		engine:    engine,
		processor: processing.NewProcessor(),
		observer:  LogObserver{},
	}, nil
}

// SetObserver replaces the default klog observer
func (o *Orchestrator) SetObserver(observer Observer) {
	if observer == nil {
		observer = LogObserver{}
	}
	o.observer = observer
}

// Engine exposes the transform engine used by the run
func (o *Orchestrator) Engine() *transform.Engine {
	return o.engine
}

// TrainDir returns the train partition directory under root
func TrainDir(root string) string { return filepath.Join(root, string(types.Train)) }

// ValDir returns the val partition directory under root
func ValDir(root string) string { return filepath.Join(root, string(types.Val)) }

func (r Request) validate() error {
	if r.Operations.Len() == 0 {
		return setupError("validate", "", ErrNoOperations)
	}
	for op := range r.Operations {
		if _, err := types.ParseOperation(string(op)); err != nil {
			return setupError("validate", "", errors.Wrap(ErrInvalidParameter, err.Error()))
		}
	}
	if r.NumVariations < 1 {
		return setupError("validate", "", errors.Wrapf(ErrInvalidParameter, "num_variations must be positive, got %d", r.NumVariations))
	}
	if math.IsNaN(r.TrainRatio) || r.TrainRatio < 0 || r.TrainRatio > 1 {
		return setupError("validate", "", errors.Wrapf(ErrInvalidParameter, "train_ratio must be in [0,1], got %g", r.TrainRatio))
	}
	if r.OutputRoot == "" {
		return setupError("validate", "", errors.Wrap(ErrInvalidParameter, "output directory is required"))
	}
	if !utils.DirExists(r.InputDir) {
		return setupError("validate", r.InputDir, ErrInvalidInputDir)
	}
	return nil
}

// Run augments every supported image directly inside req.InputDir. It returns an
// error only for setup failures; per-image problems are counted in the summary.
func (o *Orchestrator) Run(req Request) (types.Summary, error) {
	summary := types.Summary{
		TrainDir: TrainDir(req.OutputRoot),
		ValDir:   ValDir(req.OutputRoot),
	}
	if err := req.validate(); err != nil {
		return summary, err
	}

	files, err := utils.ListImageFiles(req.InputDir, o.config.Extensions)
	if err != nil {
		return summary, setupError("list", req.InputDir, err)
	}
	if len(files) == 0 {
		return summary, setupError("list", req.InputDir, ErrNoImages)
	}
	summary.ImagesFound = len(files)
	summary.VariantsExpected = len(files) * req.NumVariations

	for _, dir := range []string{summary.TrainDir, summary.ValDir} {
		if err := utils.EnsureDir(dir); err != nil {
			return summary, setupError("mkdir", dir, err)
		}
	}

	trainCount := TrainCount(req.NumVariations, req.TrainRatio)
	klog.V(1).Infof("train/val split: %d/%d per image", trainCount, req.NumVariations-trainCount)
	o.observer.RunStarted(len(files), req.NumVariations, summary.VariantsExpected)

	attempted := 0
	for idx, path := range files {
		o.observer.ImageStarted(path, idx, len(files))

		img, err := o.processor.LoadImage(path)
		if err != nil {
			attempted += req.NumVariations
			o.observer.VariantFailed(&VariantError{Source: path, Variant: -1, Stage: StageDecode, Err: err},
				attempted, summary.VariantsExpected)
			continue
		}
		summary.ImagesDecoded++

		for i := 0; i < req.NumVariations; i++ {
			attempted++
			ev, verr := o.produceVariant(img, path, i, trainCount, req)
			if verr != nil {
				o.observer.VariantFailed(verr, attempted, summary.VariantsExpected)
				continue
			}

			summary.VariantsProduced++
			summary.BytesWritten += ev.Bytes
			if ev.Assignment.Partition == types.Train {
				summary.TrainProduced++
			} else {
				summary.ValProduced++
			}

			ev.Produced = summary.VariantsProduced
			ev.Expected = summary.VariantsExpected
			ev.Attempted = attempted
			o.observer.VariantDone(ev)
		}
	}

	o.observer.RunFinished(summary)
	return summary, nil
}

func (o *Orchestrator) produceVariant(img image.Image, path string, i, trainCount int, req Request) (VariantEvent, *VariantError) {
	fail := func(stage string, err error) *VariantError {
		return &VariantError{Source: path, Variant: i, Stage: stage, Err: err}
	}

	assignment := Assign(i, trainCount, req.Operations, o.rng)
	out, params, err := o.engine.Apply(img, assignment.Operations)
	if err != nil {
		return VariantEvent{}, fail(StageTransform, err)
	}
	for _, w := range params.Warnings {
		klog.Warningf("%s v%d: %s", filepath.Base(path), i+1, w)
	}

	id, err := RandomID(o.rng)
	if err != nil {
		return VariantEvent{}, fail(StageEncode, errors.Wrap(err, "random id"))
	}
	dir := ValDir(req.OutputRoot)
	if assignment.Partition == types.Train {
		dir = TrainDir(req.OutputRoot)
	}
	name := OutputName(utils.BaseName(path), id, i, processing.Extension(o.config.Output.Format))
	outPath := filepath.Join(dir, name)

	cfg := o.config.Output
	if err := o.processor.SaveImage(out, outPath, cfg.Format, cfg.Quality, cfg.Lossless); err != nil {
		return VariantEvent{}, fail(StageEncode, err)
	}

	return VariantEvent{
		Source:     path,
		Assignment: assignment,
		Params:     params,
		Path:       outPath,
		Bytes:      utils.FileSize(outPath),
	}, nil
}
