package inkseparator

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode reports source bytes that cannot be interpreted as an
	// image. Fatal for the invocation, never retried.
	ErrDecode = errors.New("inkseparator: cannot decode source image")
	// ErrResourceUnavailable reports a missing or empty working surface.
	ErrResourceUnavailable = errors.New("inkseparator: no working surface")
)

// DimensionMismatchError reports a mask whose geometry differs from the
// source. Returned only under MaskStrict; the default policy discards the
// mask instead.
type DimensionMismatchError struct {
	SrcW, SrcH   int
	MaskW, MaskH int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("inkseparator: mask is %dx%d, source is %dx%d",
		e.MaskW, e.MaskH, e.SrcW, e.SrcH)
}
