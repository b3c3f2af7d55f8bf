package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/menta2k/image-augmentor/pkg/augment"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// barObserver draws a terminal progress bar over all expected variants. It does not
// log; pair it with augment.LogObserver through newObserver.
type barObserver struct {
	bar *progressbar.ProgressBar
}

// newObserver returns the run observer for the CLI. Failures are always logged
// through klog; the bar only replaces per-variant log lines.
func newObserver(noBar bool) augment.Observer {
	if noBar {
		return augment.LogObserver{}
	}
	return augment.MultiObserver{augment.LogObserver{}, &barObserver{}}
}

func (b *barObserver) RunStarted(images, numVariations, expected int) {
	b.bar = progressbar.NewOptions(expected,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Augmenting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("variants"),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
	)
}

func (b *barObserver) ImageStarted(source string, index, total int) {
	if b.bar != nil {
		b.bar.Describe(fmt.Sprintf("[%d/%d] %s", index+1, total, filepath.Base(source)))
	}
}

func (b *barObserver) VariantDone(ev augment.VariantEvent) {
	if b.bar != nil {
		_ = b.bar.Set(ev.Attempted)
	}
}

func (b *barObserver) VariantFailed(err *augment.VariantError, attempted, expected int) {
	if b.bar != nil {
		_ = b.bar.Set(attempted)
	}
}

func (b *barObserver) RunFinished(types.Summary) {
	if b.bar != nil {
		_ = b.bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
}
