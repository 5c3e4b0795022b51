package dms

// AllReduceAnd combines every peer's local boolean into a single result
// visible to all peers, using logical AND. Peers only ever address p-1 and
// p+1 (per the engine's own neighbor-only constraint), so this is realized
// as a ring up-sweep (partial ANDs flow from peer P-1 down to peer 0)
// followed by a down-sweep broadcast of the final value back out to P-1 —
// not a literal MPI_Allreduce translation, since no true collective exists
// over a line topology; this preserves the same semantics (one boolean
// input per peer, one broadcast output) using only the halo-exchange links.
func AllReduceAnd(links Links, rank, participants int, local bool) (bool, error) {
	value := local

	if rank < participants-1 {
		received, err := links.Down.RecvBool()
		if err != nil {
			return false, err
		}
		value = value && received
	}
	if rank > 0 {
		if err := links.Up.SendBool(value); err != nil {
			return false, err
		}
	}

	var final bool
	if rank == 0 {
		final = value
	} else {
		received, err := links.Up.RecvBool()
		if err != nil {
			return false, err
		}
		final = received
	}

	if rank < participants-1 {
		if err := links.Down.SendBool(final); err != nil {
			return false, err
		}
	}

	return final, nil
}
