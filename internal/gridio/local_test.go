package gridio

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrelax/gridrelax/pkg/grid"
)

func TestLocalFile_RoundTripFullGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.bin")
	lf, err := OpenLocalFile(path)
	require.NoError(t, err)
	defer lf.Close()

	d := 6
	g := grid.New(d)
	for r := 0; r < d; r++ {
		for c := 0; c < d; c++ {
			g.Set(r, c, float64(r*d+c)+0.5)
		}
	}

	ctx := context.Background()
	require.NoError(t, lf.WriteRows(ctx, d, 0, g))

	got, err := lf.ReadRows(ctx, d, 0, d)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}

func TestLocalFile_RoundTripStrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.bin")
	lf, err := OpenLocalFile(path)
	require.NoError(t, err)
	defer lf.Close()

	d := 8
	ctx := context.Background()

	whole := grid.New(d)
	require.NoError(t, lf.WriteRows(ctx, d, 0, whole))

	strip := grid.NewRect(3, d)
	for r := 0; r < 3; r++ {
		for c := 0; c < d; c++ {
			strip.Set(r, c, float64(r+c))
		}
	}
	require.NoError(t, lf.WriteRows(ctx, d, 2, strip))

	got, err := lf.ReadRows(ctx, d, 2, 3)
	require.NoError(t, err)
	assert.True(t, strip.Equal(got))

	full, err := lf.ReadRows(ctx, d, 0, d)
	require.NoError(t, err)
	for c := 0; c < d; c++ {
		assert.Equal(t, 0.0, full.At(0, c))
	}
}

func TestLocalFile_RejectsNegativeRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.bin")
	lf, err := OpenLocalFile(path)
	require.NoError(t, err)
	defer lf.Close()

	_, err = lf.ReadRows(context.Background(), 4, -1, 2)
	assert.Error(t, err)
}

func TestLocalFile_ReadRowsConcurrentAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.bin")
	lf, err := OpenLocalFile(path)
	require.NoError(t, err)
	defer lf.Close()

	d := 10
	g := grid.New(d)
	for r := 0; r < d; r++ {
		for c := 0; c < d; c++ {
			g.Set(r, c, float64(r*10+c))
		}
	}
	require.NoError(t, lf.WriteRows(context.Background(), d, 0, g))

	done := make(chan error, d)
	for r := 0; r < d; r++ {
		r := r
		go func() {
			_, err := lf.ReadRows(context.Background(), d, r, 1)
			done <- err
		}()
	}
	for i := 0; i < d; i++ {
		require.NoError(t, <-done)
	}
}
