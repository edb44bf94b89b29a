package stats

// Summary describes a summed dose field for logging and ledger diagnostics.
type Summary struct {
	Count uint64
	Mean  float64
	SD    float64
	Max   float64
}

// Summarize computes voxel statistics over a flat dose field in one pass.
func Summarize(values []float64) *Summary {
	welford := NewWelford()
	max := 0.0
	for _, v := range values {
		welford.Update(v)
		if v > max {
			max = v
		}
	}
	return &Summary{
		Count: welford.GetCount(),
		Mean:  welford.GetMean(),
		SD:    welford.GetSD(),
		Max:   max,
	}
}
