package grid

// Relax computes the four-neighbor mean of interior cell (r, c) in the input
// grid: (N + S + W + E) / 4. The summation order is fixed so that repeated
// runs over the same decomposition are bit-identical. Callers must never
// pass a boundary coordinate.
func Relax(in *Grid, r, c int) float64 {
	north := in.At(r-1, c)
	south := in.At(r+1, c)
	west := in.At(r, c-1)
	east := in.At(r, c+1)
	return (north + south + west + east) / 4
}

// RelaxRow applies Relax to every interior column of row r, writing the
// result into out's row r. Columns 0 and D-1 are left untouched in out
// (callers are responsible for boundary columns already holding correct
// values).
func RelaxRow(in, out *Grid, r int) {
	cols := in.Cols
	for c := 1; c <= cols-2; c++ {
		out.Set(r, c, Relax(in, r, c))
	}
}

// RelaxRows applies RelaxRow to every row in [rowLo, rowHi).
func RelaxRows(in, out *Grid, rowLo, rowHi int) {
	for r := rowLo; r < rowHi; r++ {
		RelaxRow(in, out, r)
	}
}
