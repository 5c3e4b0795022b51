package gridio

import (
	"context"
	"encoding/binary"
	"math"
	"os"

	"github.com/gridrelax/gridrelax/pkg/collections"
	gerrors "github.com/gridrelax/gridrelax/pkg/errors"
	"github.com/gridrelax/gridrelax/pkg/grid"
)

// LocalFile implements ReadWriter against an os.File, seeking to
// allocStart*D*8 bytes and reading/writing rows*D*8 bytes via ReadAt/WriteAt.
// ReadAt/WriteAt are safe for concurrent use by multiple goroutines against
// the same *os.File, so a LocalFile may be shared by every peer touching one
// grid file without external locking.
type LocalFile struct {
	f *os.File
}

// OpenLocalFile opens path for reading and writing, creating it if absent.
func OpenLocalFile(path string) (*LocalFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.CodeIOError, "failed to open grid file", err)
	}
	return &LocalFile{f: f}, nil
}

// ReadRows reads rows [allocStart, allocStart+rows) of a D-wide grid.
func (l *LocalFile) ReadRows(ctx context.Context, d, allocStart, rows int) (*grid.Grid, error) {
	if err := validateRange(d, allocStart, rows); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start, end := byteRange(d, allocStart, rows)
	buf := make([]byte, end-start)
	if _, err := l.f.ReadAt(buf, start); err != nil {
		return nil, gerrors.Wrap(gerrors.CodeIOError, "failed to read grid rows", err)
	}

	g := grid.NewRect(rows, d)
	wordsPtr := collections.GetUint64Slice()
	defer collections.PutUint64Slice(wordsPtr)
	words := *wordsPtr
	for r := 0; r < rows; r++ {
		if cap(words) < d {
			words = make([]uint64, d)
		}
		words = words[:d]
		for c := 0; c < d; c++ {
			off := (r*d + c) * bytesPerFloat
			words[c] = binary.NativeEndian.Uint64(buf[off : off+bytesPerFloat])
		}
		for c := 0; c < d; c++ {
			g.Set(r, c, math.Float64frombits(words[c]))
		}
	}
	*wordsPtr = words
	return g, nil
}

// WriteRows writes g starting at row allocStart.
func (l *LocalFile) WriteRows(ctx context.Context, d, allocStart int, g *grid.Grid) error {
	if err := validateRange(d, allocStart, g.Rows); err != nil {
		return err
	}
	if g.Cols != d {
		return gerrors.New(gerrors.CodeInvalidArgument, "grid width does not match d")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	start, _ := byteRange(d, allocStart, g.Rows)
	buf := make([]byte, g.Rows*d*bytesPerFloat)
	for r := 0; r < g.Rows; r++ {
		row := g.Row(r)
		for c := 0; c < d; c++ {
			off := (r*d + c) * bytesPerFloat
			binary.NativeEndian.PutUint64(buf[off:off+bytesPerFloat], math.Float64bits(row[c]))
		}
	}
	if _, err := l.f.WriteAt(buf, start); err != nil {
		return gerrors.Wrap(gerrors.CodeIOError, "failed to write grid rows", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *LocalFile) Close() error {
	return l.f.Close()
}
