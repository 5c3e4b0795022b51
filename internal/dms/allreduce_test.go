package dms

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAllReduce(t *testing.T, locals []bool) []bool {
	t.Helper()
	participants := len(locals)
	links := NewPipeTopology(1, participants)

	results := make([]bool, participants)
	errs := make([]error, participants)

	var wg sync.WaitGroup
	wg.Add(participants)
	for rank := 0; rank < participants; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			results[rank], errs[rank] = AllReduceAnd(links[rank], rank, participants, locals[rank])
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	return results
}

func TestAllReduceAnd_AllTrue(t *testing.T) {
	results := runAllReduce(t, []bool{true, true, true, true})
	for i, r := range results {
		assert.True(t, r, "participant %d", i)
	}
}

func TestAllReduceAnd_OneFalse(t *testing.T) {
	results := runAllReduce(t, []bool{true, true, false, true})
	for i, r := range results {
		assert.False(t, r, "participant %d", i)
	}
}

func TestAllReduceAnd_SingleParticipant(t *testing.T) {
	results := runAllReduce(t, []bool{true})
	assert.True(t, results[0])

	results = runAllReduce(t, []bool{false})
	assert.False(t, results[0])
}
