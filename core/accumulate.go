package core

import "errors"

// Accumulate returns the element-wise sum of equally-shaped fields as a new
// field. The inputs are summed in slice order, so results are reproducible
// for the same input order; inputs are never mutated.
func Accumulate(fields []*Field) (*Field, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields to accumulate")
	}

	shape := fields[0].Shape()
	sum := NewField(shape)
	out := sum.Data()

	for _, field := range fields {
		if field.Shape() != shape {
			return nil, errors.New("accumulate: shape mismatch")
		}
		for i, v := range field.Data() {
			out[i] += v
		}
	}
	return sum, nil
}
