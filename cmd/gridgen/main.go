// gridgen seeds a D x D grid file for the solver binaries to consume. In
// boundary-only mode row 0 and column 0 are set to 1.0 and every other cell
// to 0.0; otherwise every interior cell is independently 0.0 or 1.0 from a
// PRNG seeded by wall-clock time while the boundary stays 0.0 (random mode
// never touches row/column 0 or D-1). It writes through internal/gridio.Writer,
// the same interface the solvers read from, so generated files are
// guaranteed byte-compatible with them.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/gridrelax/gridrelax/internal/gridio"
	"github.com/gridrelax/gridrelax/pkg/grid"
)

var (
	size         = flag.Int("s", 0, "Grid dimension D (required)")
	boundaryOnly = flag.Bool("b", false, "Boundary-only mode: row 0 and column 0 set to 1.0, rest 0.0")
	outPath      = flag.String("o", "", "Output path (default grids/grid_D.bin)")
)

func main() {
	flag.Parse()

	if *size <= 0 {
		fmt.Fprintln(os.Stderr, "InvalidArgument: -s (grid dimension) is required and must be positive")
		os.Exit(1)
	}

	path := *outPath
	if path == "" {
		path = fmt.Sprintf("grids/grid_%d.bin", *size)
	}

	g := generate(*size, *boundaryOnly)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "IOError: failed to create output directory %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	writer, err := gridio.OpenLocalFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "IOError: failed to open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer writer.Close()

	if err := writer.WriteRows(context.Background(), *size, 0, g); err != nil {
		fmt.Fprintf(os.Stderr, "IOError: failed to write %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %dx%d grid to %s (boundary-only: %v)\n", *size, *size, path, *boundaryOnly)
}

func generate(d int, boundaryOnly bool) *grid.Grid {
	g := grid.New(d)

	if boundaryOnly {
		for c := 0; c < d; c++ {
			g.Set(0, c, 1.0)
		}
		for r := 0; r < d; r++ {
			g.Set(r, 0, 1.0)
		}
		return g
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	for r := 1; r < d-1; r++ {
		for c := 1; c < d-1; c++ {
			if rng.IntN(2) == 1 {
				g.Set(r, c, 1.0)
			}
		}
	}
	return g
}
