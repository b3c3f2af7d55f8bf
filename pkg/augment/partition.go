package augment

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/menta2k/image-augmentor/pkg/types"
)

// TrainCount is the number of leading variant indices routed to the train
// partition: floor(numVariations * trainRatio). It is computed once per run.
func TrainCount(numVariations int, trainRatio float64) int {
	n := int(math.Floor(float64(numVariations) * trainRatio))
	return min(max(n, 0), numVariations)
}

// PartitionFor assigns variant index i (0-based) by position only
func PartitionFor(i, trainCount int) types.Partition {
	if i < trainCount {
		return types.Train
	}
	return types.Val
}

// SelectOperations decides the operations for one variant from the configured set.
// Rotate and scale are taken as configured. Crop joins them when configured, and
// still runs when it is the only configured operation. Randomness is used only when
// that yields nothing for a non-empty configuration, in which case one configured
// operation is chosen uniformly.
func SelectOperations(configured types.OperationSet, rng *rand.Rand) types.OperationSet {
	subset := types.NewOperationSet()
	for _, op := range []types.Operation{types.Rotate, types.Scale} {
		if configured.Has(op) {
			subset[op] = struct{}{}
		}
	}
	if configured.Has(types.Crop) {
		subset[types.Crop] = struct{}{}
	}

	if subset.Len() == 0 && configured.Len() > 0 {
		return fallbackOperation(configured, rng)
	}
	return subset
}

// fallbackOperation picks one configured operation. The set is ordered first so a
// seeded source always gives the same pick.
func fallbackOperation(configured types.OperationSet, rng *rand.Rand) types.OperationSet {
	ops := configured.Sorted()
	return types.NewOperationSet(ops[rng.Intn(len(ops))])
}

// Assign combines the partition and operation choices for one variant
func Assign(variant, trainCount int, configured types.OperationSet, rng *rand.Rand) types.VariantAssignment {
	return types.VariantAssignment{
		Variant:    variant,
		Partition:  PartitionFor(variant, trainCount),
		Operations: SelectOperations(configured, rng),
	}
}

// RandomID returns the first four characters of a version 4 UUID drawn from rng.
// It keeps names of variants from the same source apart most of the time but is not
// a uniqueness guarantee.
func RandomID(rng *rand.Rand) (string, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return "", err
	}
	return id.String()[:4], nil
}

// OutputName builds {base}_{id}_v{variant+1}.{ext}
func OutputName(base, id string, variant int, ext string) string {
	return fmt.Sprintf("%s_%s_v%d.%s", base, id, variant+1, ext)
}
