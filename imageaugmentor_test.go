package imageaugmentor

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/image-augmentor/pkg/augment"
	"github.com/menta2k/image-augmentor/pkg/transform"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// createTestImage creates a simple test image with a bright center
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}

	return img
}

func TestNew(t *testing.T) {
	aug := New()
	require.NotNil(t, aug)
	assert.NotNil(t, aug.analyzer)
	assert.NotNil(t, aug.processor)
	assert.NotNil(t, aug.orchestrator)
	assert.NotZero(t, aug.config.Seed)
}

func TestNewWithConfigRejectsBadTransform(t *testing.T) {
	cfg := augment.DefaultConfig()
	cfg.Transform.ScaleRange = transform.ScaleRange{Min: 2, Max: 1}
	_, err := NewWithConfig(cfg)
	assert.Error(t, err)
}

func TestAugmentImage(t *testing.T) {
	cfg := augment.DefaultConfig()
	cfg.Seed = 12
	aug, err := NewWithConfig(cfg)
	require.NoError(t, err)

	out, params, err := aug.AugmentImage(createTestImage(120, 80), types.Rotate)
	require.NoError(t, err)
	info := aug.GetImageInfo(out)
	assert.Equal(t, 120, info.Width)
	assert.Equal(t, 80, info.Height)
	assert.NotNil(t, params.RotationAngle)
}

func TestAugmentDirectory(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "set")
	aug := New()
	aug.SetObserver(augment.LogObserver{})
	require.NoError(t, aug.SaveImage(createTestImage(60, 40), filepath.Join(in, "sample.jpg")))

	summary, err := aug.AugmentDirectory(in, out, 5, 0.8, types.Rotate, types.Scale, types.Crop)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.VariantsProduced)
	assert.Equal(t, 4, summary.TrainProduced)
	assert.Equal(t, 1, summary.ValProduced)

	entries, err := os.ReadDir(summary.TrainDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	img, err := aug.LoadImage(filepath.Join(summary.TrainDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestAugmentDirectoryNeedsOperations(t *testing.T) {
	aug := New()
	_, err := aug.AugmentDirectory(t.TempDir(), t.TempDir(), 5, 0.8)
	require.Error(t, err)
	assert.True(t, augment.IsSetupError(err))
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(transform.DefaultConfig(), 1)
	require.NoError(t, err)
	_, params, err := e.Apply(createTestImage(30, 30), types.NewOperationSet(types.Scale))
	require.NoError(t, err)
	assert.NotNil(t, params.ScaleFactor)
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
