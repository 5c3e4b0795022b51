// Package grid implements the data model and pure operators shared by the
// shared-memory and distributed-memory relaxation engines: the grid buffer
// pair, the four-neighbor stencil, the row-band partitioner, and the
// convergence predicate.
package grid

// Grid is a rectangular array of 64-bit floating-point cells, stored as Rows
// rows of Cols contiguous values, addressed through row slices.
// BufferPair.Swap exchanges whole grids by pointer rather than copying cell
// contents. The shared-memory engine uses square
// D x D grids; the distributed engine uses rectangular R x D strips (R rows,
// D columns, R == a peer's allocated row count).
type Grid struct {
	Rows int
	Cols int
	D    int // convenience alias for Cols, meaningful when Rows == Cols
	rows [][]float64
}

// New allocates a D x D grid with all cells set to zero.
func New(d int) *Grid {
	return NewRect(d, d)
}

// NewRect allocates a rows x cols grid with all cells set to zero.
func NewRect(rows, cols int) *Grid {
	rowSlices := make([][]float64, rows)
	backing := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		rowSlices[r] = backing[r*cols : (r+1)*cols]
	}
	return &Grid{Rows: rows, Cols: cols, D: cols, rows: rowSlices}
}

// NewFromRows wraps pre-populated row data as a Grid without copying. Every
// row must have the same length.
func NewFromRows(rows [][]float64) *Grid {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	return &Grid{Rows: len(rows), Cols: cols, D: cols, rows: rows}
}

// Row returns the backing slice for row r. Mutating it mutates the grid.
func (g *Grid) Row(r int) []float64 {
	return g.rows[r]
}

// At returns the value at (r, c).
func (g *Grid) At(r, c int) float64 {
	return g.rows[r][c]
}

// Set assigns the value at (r, c).
func (g *Grid) Set(r, c int, v float64) {
	g.rows[r][c] = v
}

// CopyRow copies src into the grid's row r.
func (g *Grid) CopyRow(r int, src []float64) {
	copy(g.rows[r], src)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := NewRect(g.Rows, g.Cols)
	for r := 0; r < g.Rows; r++ {
		copy(out.rows[r], g.rows[r])
	}
	return out
}

// Equal reports whether two grids have identical shape and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.Rows != other.Rows || g.Cols != other.Cols {
		return false
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.rows[r][c] != other.rows[r][c] {
				return false
			}
		}
	}
	return true
}

// BufferPair holds two grids of identical shape and alternates which one is
// "input" for the current iteration by switching an input pointer between
// them rather than copying cell contents, so a swap costs O(1) instead of
// O(Rows*Cols).
type BufferPair struct {
	a, b  *Grid
	input *Grid
}

// NewBufferPair builds a buffer pair from two equally-shaped grids. a is the
// initial input buffer.
func NewBufferPair(a, b *Grid) *BufferPair {
	return &BufferPair{a: a, b: b, input: a}
}

// Input returns the current input grid.
func (p *BufferPair) Input() *Grid {
	return p.input
}

// Output returns the current output grid (the one not currently input).
func (p *BufferPair) Output() *Grid {
	if p.input == p.a {
		return p.b
	}
	return p.a
}

// Swap exchanges which grid is input and which is output. Swapping twice is
// the identity on observable state.
func (p *BufferPair) Swap() {
	if p.input == p.a {
		p.input = p.b
	} else {
		p.input = p.a
	}
}
