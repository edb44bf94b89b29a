package core

import "math"

// MaxFixedValue is the largest code of the 16-bit unsigned fixed-point
// representation used for artifact pixel buffers.
const MaxFixedValue = math.MaxUint16

// Quantize rescales a floating-point field into unsigned 16-bit codes plus
// a per-artifact scale factor. The scale is chosen as peak/MaxFixedValue so
// the maximum-dose voxel maps to the maximum code, using the full dynamic
// range; every voxel reconstructs as codes[i]*scale within scale/2 of the
// input. An all-zero field has no meaningful scale and is rejected with
// ErrZeroDose.
func Quantize(field *Field) ([]uint16, float64, error) {
	peak := field.Peak()
	if peak == 0 {
		return nil, 0, ErrZeroDose
	}

	scale := peak / MaxFixedValue
	data := field.Data()
	codes := make([]uint16, len(data))
	for i, v := range data {
		code := math.Round(v / scale)
		if code < 0 {
			code = 0
		} else if code > MaxFixedValue {
			code = MaxFixedValue
		}
		codes[i] = uint16(code)
	}
	return codes, scale, nil
}
