package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationSetSorted(t *testing.T) {
	set := NewOperationSet(Crop, Rotate, Scale)
	assert.Equal(t, []Operation{Scale, Rotate, Crop}, set.Sorted())
	assert.Equal(t, "scale+rotate+crop", set.String())

	assert.Equal(t, "rotate+crop", NewOperationSet(Crop, Rotate).String())
	assert.Empty(t, NewOperationSet().Sorted())
	assert.Equal(t, "", NewOperationSet().String())
}

func TestOperationSetSortedUnknownLast(t *testing.T) {
	set := OperationSet{"mirror": {}, Crop: {}, "flip": {}}
	assert.Equal(t, []Operation{Crop, "flip", "mirror"}, set.Sorted())
}

func TestParseOperationSet(t *testing.T) {
	set, err := ParseOperationSet([]string{" Rotate", "crop", "rotate"})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Has(Rotate))
	assert.True(t, set.Has(Crop))

	_, err = ParseOperationSet([]string{"flip"})
	assert.Error(t, err)
}

func TestTransformParamsString(t *testing.T) {
	assert.Equal(t, "no-op", TransformParams{}.String())

	f, a := 1.25, 90.0
	p := TransformParams{ScaleFactor: &f, RotationAngle: &a, CropBox: &CropBox{Left: 1, Top: 2, Right: 9, Bottom: 10}}
	assert.Equal(t, []Operation{Scale, Rotate, Crop}, p.Applied())
	assert.Equal(t, "scale 1.25x, rotate 90.0°, crop (1,2,9,10)", p.String())
}
