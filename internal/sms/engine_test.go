package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrelax/gridrelax/pkg/grid"
)

func scenarioOneGrid() *grid.Grid {
	g := grid.New(3)
	g.Set(0, 0, 1)
	g.Set(0, 1, 1)
	g.Set(0, 2, 1)
	g.Set(1, 0, 1)
	g.Set(2, 0, 1)
	return g
}

func TestEngine_ScenarioOne(t *testing.T) {
	g := scenarioOneGrid()
	engine, err := NewEngine(3, 0.1, 1, g, nil)
	require.NoError(t, err)

	out, iterations, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, iterations)
	assert.InDelta(t, 0.5, out.At(1, 1), 1e-9)
	assert.Equal(t, 1.0, out.At(0, 0))
	assert.Equal(t, 1.0, out.At(2, 0))
}

func TestEngine_BoundaryPreservation(t *testing.T) {
	d := 6
	g := grid.New(d)
	for i := 0; i < d; i++ {
		g.Set(0, i, 7)
		g.Set(d-1, i, 7)
		g.Set(i, 0, 7)
		g.Set(i, d-1, 7)
	}
	g.Set(2, 2, 1)
	g.Set(3, 3, 1)

	engine, err := NewEngine(d, 1e-6, 2, g, nil)
	require.NoError(t, err)

	out, _, err := engine.Run(context.Background())
	require.NoError(t, err)

	for i := 0; i < d; i++ {
		assert.Equal(t, 7.0, out.At(0, i))
		assert.Equal(t, 7.0, out.At(d-1, i))
		assert.Equal(t, 7.0, out.At(i, 0))
		assert.Equal(t, 7.0, out.At(i, d-1))
	}
}

func TestEngine_DeterminismAcrossWorkerCounts(t *testing.T) {
	d := 10
	initial := grid.New(d)
	for i := 0; i < d; i++ {
		initial.Set(0, i, 1)
		initial.Set(d-1, i, 0)
		initial.Set(i, 0, 1)
		initial.Set(i, d-1, 0)
	}
	// deterministic interior pattern, not a PRNG, so the test itself is
	// reproducible independent of seeding strategy
	for r := 1; r < d-1; r++ {
		for c := 1; c < d-1; c++ {
			if (r+c)%2 == 0 {
				initial.Set(r, c, 1)
			}
		}
	}

	var results []*grid.Grid
	for _, workers := range []int{1, 2, 4} {
		engine, err := NewEngine(d, 0.01, workers, initial, nil)
		require.NoError(t, err)

		out, _, err := engine.Run(context.Background())
		require.NoError(t, err)
		results = append(results, out)
	}

	for i := 1; i < len(results); i++ {
		assert.True(t, results[0].Equal(results[i]), "worker-count determinism violated at index %d", i)
	}
}

func TestEngine_RejectsTooManyWorkers(t *testing.T) {
	g := grid.New(4)
	_, err := NewEngine(4, 0.1, 10, g, nil)
	assert.Error(t, err)
}

func TestEngine_AlreadyConvergedScenarioFive(t *testing.T) {
	d := 5
	g := grid.New(d)

	engine, err := NewEngine(d, 0.1, 2, g, nil)
	require.NoError(t, err)

	_, iterations, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, iterations)
}
