package sms

import "sync"

// Barrier is a cyclic rendezvous point for a fixed number of parties,
// re-armed automatically after each release. It realizes the SMS engine's
// BARRIER-1/BARRIER-2 synchronization points: no arrival proceeds past the
// barrier until every party has arrived, and the barrier can be waited on
// again in the next iteration without reconstruction.
//
// A Barrier may carry a completion action, run exactly once per generation
// by whichever goroutine happens to be the last arriver, while that
// goroutine still holds the internal lock. Every other party is parked in
// cond.Wait and can only resume after the completer unlocks, so the action's
// writes are guaranteed visible to every party before any Wait call returns
// — unlike storing a decision after Wait has already released everyone,
// which races against whichever goroutine the runtime happens to wake first.
//
// No library in the example pack exports a reusable N-party cyclic barrier
// (golang.org/x/sync ships errgroup/semaphore/singleflight, none of them a
// barrier), so this is built directly on sync.Mutex and sync.Cond.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	arrived    int
	generation uint64
	action     func()
}

// NewBarrier creates a barrier for the given number of parties. parties must
// be >= 1. action may be nil; if non-nil it runs once per generation, inside
// the critical section, before any waiter is released.
func NewBarrier(parties int, action func()) *Barrier {
	b := &Barrier{parties: parties, action: action}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks the calling goroutine until `parties` goroutines have called
// Wait on this generation, then releases them all together and advances to
// the next generation.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.arrived++

	if b.arrived == b.parties {
		b.arrived = 0
		b.generation++
		if b.action != nil {
			b.action()
		}
		b.cond.Broadcast()
		return
	}

	for gen == b.generation {
		b.cond.Wait()
	}
}
