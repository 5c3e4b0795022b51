package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrelax/gridrelax/pkg/model"
)

func TestRunMatrix_CollectsResultsInOrder(t *testing.T) {
	cells := []Cell{
		{Label: "dimension", Dimension: 4, Participants: 1, Mode: model.ModeSMS},
		{Label: "dimension", Dimension: 8, Participants: 1, Mode: model.ModeSMS},
		{Label: "dimension", Dimension: 16, Participants: 1, Mode: model.ModeSMS},
	}

	report := RunMatrix(context.Background(), cells, 2, func(ctx context.Context, cell Cell) (int, bool, error) {
		return cell.Dimension, true, nil
	})

	require.Len(t, report.Cells, 3)
	for i, cell := range cells {
		assert.Equal(t, cell.Dimension, report.Cells[i].Cell.Dimension)
		assert.Equal(t, cell.Dimension, report.Cells[i].Iterations)
		assert.True(t, report.Cells[i].Converged)
		assert.Empty(t, report.Cells[i].Error)
	}
}

func TestRunMatrix_CapturesPerCellError(t *testing.T) {
	cells := []Cell{
		{Label: "dimension", Dimension: 4, Participants: 9},
	}

	report := RunMatrix(context.Background(), cells, 1, func(ctx context.Context, cell Cell) (int, bool, error) {
		return 0, false, errors.New("invalid decomposition")
	})

	require.Len(t, report.Cells, 1)
	assert.Equal(t, "invalid decomposition", report.Cells[0].Error)
	assert.False(t, report.Cells[0].Converged)
}

func TestBuildMatrix_CoversAllScanFamilies(t *testing.T) {
	base := Cell{Dimension: 20, Precision: 0.01, Participants: 4, Mode: model.ModeDMS}
	cells := BuildMatrix(base, DefaultScan())

	labels := map[string]bool{}
	for _, c := range cells {
		labels[c.Label] = true
	}
	for _, want := range []string{"precision", "dimension", "simple", "processes", "di_pro"} {
		assert.True(t, labels[want], "missing scan family %q", want)
	}
}
