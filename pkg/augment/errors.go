package augment

import (
	"fmt"

	"github.com/pkg/errors"
)

// Conditions that stop a run before or while it is being set up.
var (
	ErrNoImages         = errors.New("no supported images found")
	ErrNoOperations     = errors.New("at least one operation is required")
	ErrInvalidInputDir  = errors.New("input path is not a readable directory")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// SetupError is fatal to a run. Nothing is processed after it.
type SetupError struct {
	Op   string
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("setup %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("setup %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

func setupError(op, path string, err error) error {
	return &SetupError{Op: op, Path: path, Err: err}
}

// Stage of a per-image failure.
const (
	StageDecode    = "decode"
	StageTransform = "transform"
	StageEncode    = "encode"
)

// VariantError is a recoverable failure for one source image or one of its
// variants. Variant is the 0-based variant index, or -1 when the whole image failed.
type VariantError struct {
	Source  string
	Variant int
	Stage   string
	Err     error
}

func (e *VariantError) Error() string {
	if e.Variant < 0 {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s v%d: %v", e.Stage, e.Source, e.Variant+1, e.Err)
}

func (e *VariantError) Unwrap() error { return e.Err }

// IsSetupError reports whether err is fatal to a run
func IsSetupError(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}
