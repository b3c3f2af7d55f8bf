package augment

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/image-augmentor/pkg/types"
)

func TestTrainCount(t *testing.T) {
	cases := []struct {
		n     int
		ratio float64
		want  int
	}{
		{10, 0.8, 8},
		{10, 0.7, 7},
		{10, 0.3, 3},
		{3, 0.5, 1},
		{5, 0, 0},
		{5, 1, 5},
		{1, 0.8, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TrainCount(c.n, c.ratio), "n=%d ratio=%g", c.n, c.ratio)
	}
}

func TestPartitionForIsPositional(t *testing.T) {
	trainCount := TrainCount(10, 0.8)
	var train, val int
	for i := 0; i < 10; i++ {
		switch PartitionFor(i, trainCount) {
		case types.Train:
			train++
			assert.Less(t, i, 8)
		case types.Val:
			val++
			assert.GreaterOrEqual(t, i, 8)
		}
	}
	assert.Equal(t, 8, train)
	assert.Equal(t, 2, val)
}

func TestSelectOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	all := types.NewOperationSet(types.Rotate, types.Scale, types.Crop)
	assert.Equal(t, all, SelectOperations(all, rng))

	rotateCrop := types.NewOperationSet(types.Rotate, types.Crop)
	assert.Equal(t, rotateCrop, SelectOperations(rotateCrop, rng))

	cropOnly := types.NewOperationSet(types.Crop)
	assert.Equal(t, cropOnly, SelectOperations(cropOnly, rng))

	scaleOnly := types.NewOperationSet(types.Scale)
	assert.Equal(t, scaleOnly, SelectOperations(scaleOnly, rng))

	assert.Equal(t, 0, SelectOperations(types.NewOperationSet(), rng).Len())
}

func TestSelectOperationsFallback(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Nothing recognised by the subset rule, so one configured entry is picked.
	odd := types.OperationSet{"flip": {}, "mirror": {}}
	seen := map[types.Operation]bool{}
	for i := 0; i < 100; i++ {
		got := SelectOperations(odd, rng)
		require.Equal(t, 1, got.Len())
		for op := range got {
			assert.True(t, odd.Has(op))
			seen[op] = true
		}
	}
	assert.Len(t, seen, 2, "both entries should be chosen eventually")
}

func TestAssign(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ops := types.NewOperationSet(types.Rotate)

	a := Assign(3, 2, ops, rng)
	assert.Equal(t, 3, a.Variant)
	assert.Equal(t, types.Val, a.Partition)
	assert.True(t, a.Operations.Has(types.Rotate))
}

func TestRandomID(t *testing.T) {
	hex := regexp.MustCompile(`^[0-9a-f]{4}$`)

	rng := rand.New(rand.NewSource(5))
	id, err := RandomID(rng)
	require.NoError(t, err)
	assert.Regexp(t, hex, id)

	again, err := RandomID(rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.Equal(t, id, again, "same seed gives the same id")
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "cat_ab12_v1.jpg", OutputName("cat", "ab12", 0, "jpg"))
	assert.Equal(t, "my.photo_0f0f_v10.png", OutputName("my.photo", "0f0f", 9, "png"))
}
