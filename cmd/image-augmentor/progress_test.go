package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"github.com/menta2k/image-augmentor/pkg/augment"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// captureKlog sends klog output to a buffer for the duration of the test.
func captureKlog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	klog.LogToStderr(false)
	klog.SetOutput(&buf)
	t.Cleanup(func() {
		klog.Flush()
		klog.SetOutput(os.Stderr)
		klog.LogToStderr(true)
	})
	return &buf
}

func TestNewObserverWithBarLogsFailures(t *testing.T) {
	buf := captureKlog(t)

	obs := newObserver(false)
	multi, ok := obs.(augment.MultiObserver)
	require.True(t, ok)
	require.Len(t, multi, 2)

	obs.RunStarted(1, 2, 2)
	obs.ImageStarted("photos/bad.jpg", 0, 1)
	obs.VariantFailed(&augment.VariantError{
		Source:  "photos/bad.jpg",
		Variant: -1,
		Stage:   augment.StageDecode,
		Err:     errors.New("unexpected EOF"),
	}, 2, 2)
	obs.RunFinished(types.Summary{ImagesFound: 1, VariantsExpected: 2})
	klog.Flush()

	out := buf.String()
	assert.Contains(t, out, "photos/bad.jpg")
	assert.Contains(t, out, "unexpected EOF")
	assert.Contains(t, out, "decode")
}

func TestNewObserverWithoutBar(t *testing.T) {
	buf := captureKlog(t)

	obs := newObserver(true)
	_, ok := obs.(augment.LogObserver)
	require.True(t, ok)

	obs.VariantFailed(&augment.VariantError{
		Source:  "photos/b.png",
		Variant: 3,
		Stage:   augment.StageEncode,
		Err:     errors.New("disk full"),
	}, 4, 10)
	klog.Flush()

	assert.Contains(t, buf.String(), "encode photos/b.png v4: disk full")
}

func TestBarObserverTracksAttempted(t *testing.T) {
	b := &barObserver{}
	b.RunStarted(2, 2, 4)
	require.NotNil(t, b.bar)

	b.VariantDone(augment.VariantEvent{Attempted: 1, Expected: 4})
	b.VariantFailed(&augment.VariantError{Source: "x.jpg", Variant: 1, Stage: augment.StageEncode, Err: errors.New("boom")}, 2, 4)
	assert.EqualValues(t, 2, b.bar.State().CurrentNum)

	b.RunFinished(types.Summary{})
}

func TestVariantLinesNeedVerbosity(t *testing.T) {
	buf := captureKlog(t)

	newObserver(true).VariantDone(augment.VariantEvent{
		Source:     "photos/a.jpg",
		Assignment: types.VariantAssignment{Variant: 0, Partition: types.Train},
		Path:       "dataset/train/a_1f2e_v1.jpg",
		Attempted:  1,
		Expected:   1,
	})
	klog.Flush()

	assert.NotContains(t, buf.String(), "a_1f2e_v1.jpg")
}
