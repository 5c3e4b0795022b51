package grid

import "math"

// Converged reports whether, for every interior column of every row in
// [rowLo, rowHi), |out - in| <= eps. It short-circuits on the first failing
// cell. Callers must only invoke this after out's interior has been fully
// written for the current iteration.
func Converged(in, out *Grid, rowLo, rowHi int, eps float64) bool {
	cols := in.Cols
	for r := rowLo; r < rowHi; r++ {
		for c := 1; c <= cols-2; c++ {
			if math.Abs(out.At(r, c)-in.At(r, c)) > eps {
				return false
			}
		}
	}
	return true
}

// MaxDelta returns the largest |out - in| over the interior columns of
// [rowLo, rowHi). Useful for diagnostics; not on the convergence hot path.
func MaxDelta(in, out *Grid, rowLo, rowHi int) float64 {
	cols := in.Cols
	max := 0.0
	for r := rowLo; r < rowHi; r++ {
		for c := 1; c <= cols-2; c++ {
			delta := math.Abs(out.At(r, c) - in.At(r, c))
			if delta > max {
				max = delta
			}
		}
	}
	return max
}
