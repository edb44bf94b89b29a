package core

// Shape is the (frame, row, column) extent of a dose field.
type Shape struct {
	Frames int
	Rows   int
	Cols   int
}

func (s Shape) NumVoxels() int {
	return s.Frames * s.Rows * s.Cols
}

// Field is a 3-dimensional dose field backed by a flat float64 slice in
// frame-major order. Accumulation happens in float64 regardless of the
// fixed-point width of the source codes, so repeated sums lose no precision
// before the single quantization at the end.
type Field struct {
	shape Shape
	data  []float64
}

func NewField(shape Shape) *Field {
	return &Field{
		shape: shape,
		data:  make([]float64, shape.NumVoxels()),
	}
}

func (f *Field) Shape() Shape {
	return f.shape
}

// Data exposes the flat backing slice in frame-major order.
func (f *Field) Data() []float64 {
	return f.data
}

func (f *Field) At(frame, row, col int) float64 {
	return f.data[(frame*f.shape.Rows+row)*f.shape.Cols+col]
}

func (f *Field) Set(frame, row, col int, value float64) {
	f.data[(frame*f.shape.Rows+row)*f.shape.Cols+col] = value
}

// Peak returns the maximum voxel value, or 0 for an empty field.
func (f *Field) Peak() float64 {
	peak := 0.0
	for _, v := range f.data {
		if v > peak {
			peak = v
		}
	}
	return peak
}
