package types

import (
	"fmt"
	"sort"
	"strings"
)

// Operation is a single augmentation step
type Operation string

const (
	Rotate Operation = "rotate"
	Scale  Operation = "scale"
	Crop   Operation = "crop"
)

// AllOperations lists the operations in the order the engine applies them
func AllOperations() []Operation {
	return []Operation{Scale, Rotate, Crop}
}

// ParseOperation converts a user supplied name into an Operation
func ParseOperation(name string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(name))); op {
	case Rotate, Scale, Crop:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operation %q (want rotate, scale or crop)", name)
	}
}

// OperationSet is an unordered set of operations
type OperationSet map[Operation]struct{}

// NewOperationSet builds a set from the given operations, ignoring duplicates
func NewOperationSet(ops ...Operation) OperationSet {
	set := make(OperationSet, len(ops))
	for _, op := range ops {
		set[op] = struct{}{}
	}
	return set
}

// ParseOperationSet parses operation names into a set
func ParseOperationSet(names []string) (OperationSet, error) {
	set := make(OperationSet, len(names))
	for _, name := range names {
		op, err := ParseOperation(name)
		if err != nil {
			return nil, err
		}
		set[op] = struct{}{}
	}
	return set, nil
}

// Has reports whether op is in the set
func (s OperationSet) Has(op Operation) bool {
	_, ok := s[op]
	return ok
}

// Len returns the number of operations in the set
func (s OperationSet) Len() int {
	return len(s)
}

// Sorted returns the operations in application order (scale, rotate, crop).
// Unrecognised entries follow in lexical order.
func (s OperationSet) Sorted() []Operation {
	ops := make([]Operation, 0, len(s))
	known := make(map[Operation]bool, len(s))
	for _, op := range AllOperations() {
		if s.Has(op) {
			ops = append(ops, op)
			known[op] = true
		}
	}
	var rest []string
	for op := range s {
		if !known[op] {
			rest = append(rest, string(op))
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		ops = append(ops, Operation(name))
	}
	return ops
}

// String joins the operations in application order, e.g. "scale+rotate+crop"
func (s OperationSet) String() string {
	names := make([]string, 0, len(s))
	for _, op := range s.Sorted() {
		names = append(names, string(op))
	}
	return strings.Join(names, "+")
}

// CropBox is a pixel rectangle (left, top, right, bottom) on the pre-crop image
type CropBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width of the box
func (b CropBox) Width() int { return b.Right - b.Left }

// Height of the box
func (b CropBox) Height() int { return b.Bottom - b.Top }

// TransformParams records the random values applied to one variant.
// A nil field means the operation did not run.
type TransformParams struct {
	ScaleFactor   *float64 `json:"scale_factor,omitempty"`
	RotationAngle *float64 `json:"rotation_angle,omitempty"`
	CropBox       *CropBox `json:"crop_box,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Applied returns the operations that actually executed
func (p TransformParams) Applied() []Operation {
	var ops []Operation
	if p.ScaleFactor != nil {
		ops = append(ops, Scale)
	}
	if p.RotationAngle != nil {
		ops = append(ops, Rotate)
	}
	if p.CropBox != nil {
		ops = append(ops, Crop)
	}
	return ops
}

func (p TransformParams) String() string {
	var parts []string
	if p.ScaleFactor != nil {
		parts = append(parts, fmt.Sprintf("scale %.2fx", *p.ScaleFactor))
	}
	if p.RotationAngle != nil {
		parts = append(parts, fmt.Sprintf("rotate %.1f°", *p.RotationAngle))
	}
	if p.CropBox != nil {
		b := *p.CropBox
		parts = append(parts, fmt.Sprintf("crop (%d,%d,%d,%d)", b.Left, b.Top, b.Right, b.Bottom))
	}
	if len(parts) == 0 {
		return "no-op"
	}
	return strings.Join(parts, ", ")
}

// Partition is an output bucket
type Partition string

const (
	Train Partition = "train"
	Val   Partition = "val"
)

// VariantAssignment says where a variant goes and what it does
type VariantAssignment struct {
	Variant    int
	Partition  Partition
	Operations OperationSet
}

// Summary is the result of an augmentation run
type Summary struct {
	ImagesFound      int    `json:"images_found"`
	ImagesDecoded    int    `json:"images_decoded"`
	VariantsProduced int    `json:"variants_produced"`
	VariantsExpected int    `json:"variants_expected"`
	TrainProduced    int    `json:"train_produced"`
	ValProduced      int    `json:"val_produced"`
	BytesWritten     int64  `json:"bytes_written"`
	TrainDir         string `json:"train_dir"`
	ValDir           string `json:"val_dir"`
}
