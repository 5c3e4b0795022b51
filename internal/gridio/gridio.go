// Package gridio implements the grid file format: a flat binary blob of
// D x D IEEE-754 doubles, row-major, native endianness, no header, footer,
// or checksum. Both backends address a range of rows by the same
// (D, allocStart, rows) contract so a solver can be pointed at a local file
// or an object-storage bucket without changing its calling convention.
package gridio

import (
	"context"

	gerrors "github.com/gridrelax/gridrelax/pkg/errors"
	"github.com/gridrelax/gridrelax/pkg/grid"
)

const bytesPerFloat = 8

// Reader reads a contiguous row range of a grid file.
type Reader interface {
	// ReadRows reads rows [allocStart, allocStart+rows) of a D-wide grid.
	ReadRows(ctx context.Context, d, allocStart, rows int) (*grid.Grid, error)
	Close() error
}

// Writer writes a contiguous row range of a grid file.
type Writer interface {
	// WriteRows writes g (g.Cols must equal d) starting at row allocStart.
	WriteRows(ctx context.Context, d, allocStart int, g *grid.Grid) error
	Close() error
}

// ReadWriter implements both Reader and Writer against the same backing
// file or object.
type ReadWriter interface {
	Reader
	Writer
}

func byteRange(d, allocStart, rows int) (start, end int64) {
	start = int64(allocStart) * int64(d) * bytesPerFloat
	end = start + int64(rows)*int64(d)*bytesPerFloat
	return start, end
}

func validateRange(d, allocStart, rows int) error {
	if d < 1 {
		return gerrors.New(gerrors.CodeInvalidArgument, "dimension must be positive")
	}
	if allocStart < 0 || rows < 0 {
		return gerrors.New(gerrors.CodeInvalidArgument, "allocStart and rows must be non-negative")
	}
	return nil
}
