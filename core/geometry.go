package core

import "dosesum/dose"

// Geometry is the spatial signature of a dose grid. Two grids are summable
// iff their geometries are field-wise exactly equal; grids that genuinely
// share a frame of reference carry bit-identical values, so no tolerance is
// applied.
type Geometry struct {
	Rows         int
	Cols         int
	Frames       int
	PixelSpacing [2]float64
	Orientation  [6]float64
	Position     [3]float64
	FrameOffsets []float64
}

// GeometryOf extracts the spatial signature from a persisted object header.
func GeometryOf(h *dose.Header) Geometry {
	return Geometry{
		Rows:         h.Rows,
		Cols:         h.Cols,
		Frames:       h.Frames,
		PixelSpacing: h.PixelSpacing,
		Orientation:  h.Orientation,
		Position:     h.Position,
		FrameOffsets: append([]float64(nil), h.FrameOffsets...),
	}
}

func (g Geometry) Shape() Shape {
	return Shape{Frames: g.Frames, Rows: g.Rows, Cols: g.Cols}
}

// mismatchField returns the name of the first differing field against the
// reference, or "" when equal. The comparison order is fixed so diagnostics
// are stable.
func (g Geometry) mismatchField(ref Geometry) string {
	switch {
	case g.Rows != ref.Rows:
		return "rows"
	case g.Cols != ref.Cols:
		return "cols"
	case g.Frames != ref.Frames:
		return "frames"
	case g.PixelSpacing != ref.PixelSpacing:
		return "pixelSpacing"
	case g.Orientation != ref.Orientation:
		return "orientation"
	case g.Position != ref.Position:
		return "position"
	}
	if len(g.FrameOffsets) != len(ref.FrameOffsets) {
		return "frameOffsets"
	}
	for i, offset := range g.FrameOffsets {
		if offset != ref.FrameOffsets[i] {
			return "frameOffsets"
		}
	}
	return ""
}

// ValidateGeometries checks every descriptor after the first against the
// first. On the first mismatch it returns a *GeometryMismatchError naming
// the offending index and field; inputs are never mutated.
func ValidateGeometries(geometries []Geometry) error {
	ref := geometries[0]
	for i, g := range geometries[1:] {
		if field := g.mismatchField(ref); field != "" {
			return &GeometryMismatchError{Index: i + 1, Field: field}
		}
	}
	return nil
}
