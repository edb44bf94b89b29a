package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("not a recognizable dose object")
	ErrUnsupportedModality = errors.New("unsupported modality")
	ErrMissingField        = errors.New("missing required dose attribute")
	ErrZeroDose            = errors.New("summed dose grid is all zeros")
	ErrWriteFailure        = errors.New("artifact write failed")
)

// GeometryMismatchError reports the first grid whose spatial signature
// diverges from the reference grid, and which field diverged.
type GeometryMismatchError struct {
	Index int
	Field string
}

func (e *GeometryMismatchError) Error() string {
	return fmt.Sprintf("geometry mismatch in dose grid %d: field %s", e.Index, e.Field)
}
