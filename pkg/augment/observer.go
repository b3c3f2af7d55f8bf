package augment

import (
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/menta2k/image-augmentor/pkg/types"
)

// VariantEvent describes one variant written to disk
type VariantEvent struct {
	Source     string
	Assignment types.VariantAssignment
	Params     types.TransformParams
	Path       string
	Bytes      int64

	// Run-wide counters after this variant.
	Produced  int
	Expected  int
	Attempted int
}

// Percent is the share of expected variants attempted so far
func (e VariantEvent) Percent() float64 {
	if e.Expected == 0 {
		return 100
	}
	return float64(e.Attempted) / float64(e.Expected) * 100
}

// Observer receives progress from a run. Calls happen on the goroutine running
// Orchestrator.Run, in order.
type Observer interface {
	RunStarted(images, numVariations, expected int)
	ImageStarted(source string, index, total int)
	VariantDone(ev VariantEvent)
	VariantFailed(err *VariantError, attempted, expected int)
	RunFinished(summary types.Summary)
}

// LogObserver reports progress through klog. Per-variant lines are logged at V(1).
type LogObserver struct{}

func (LogObserver) RunStarted(images, numVariations, expected int) {
	klog.Infof("processing %d images, %d variants each, %d files expected", images, numVariations, expected)
}

func (LogObserver) ImageStarted(source string, index, total int) {
	klog.Infof("[%d/%d] %s", index+1, total, filepath.Base(source))
}

func (LogObserver) VariantDone(ev VariantEvent) {
	klog.V(1).Infof("  v%d -> %s/%s: %s (%.1f%%)",
		ev.Assignment.Variant+1, ev.Assignment.Partition, filepath.Base(ev.Path), ev.Params, ev.Percent())
}

func (LogObserver) VariantFailed(err *VariantError, attempted, expected int) {
	klog.Errorf("skipping: %v", err)
}

func (LogObserver) RunFinished(s types.Summary) {
	klog.Infof("done: %d/%d variants (train %d, val %d) from %d/%d images",
		s.VariantsProduced, s.VariantsExpected, s.TrainProduced, s.ValProduced, s.ImagesDecoded, s.ImagesFound)
}

// MultiObserver fans events out to several observers
type MultiObserver []Observer

func (m MultiObserver) RunStarted(images, numVariations, expected int) {
	for _, o := range m {
		o.RunStarted(images, numVariations, expected)
	}
}

func (m MultiObserver) ImageStarted(source string, index, total int) {
	for _, o := range m {
		o.ImageStarted(source, index, total)
	}
}

func (m MultiObserver) VariantDone(ev VariantEvent) {
	for _, o := range m {
		o.VariantDone(ev)
	}
}

func (m MultiObserver) VariantFailed(err *VariantError, attempted, expected int) {
	for _, o := range m {
		o.VariantFailed(err, attempted, expected)
	}
}

func (m MultiObserver) RunFinished(s types.Summary) {
	for _, o := range m {
		o.RunFinished(s)
	}
}
