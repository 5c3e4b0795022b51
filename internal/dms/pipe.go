package dms

import "net"

// NewPipeTopology builds P-1 net.Pipe connections wiring peer p's Down link
// to peer p+1's Up link, for in-process goroutine-based simulation of P
// peers. This is what lets the test suite validate DMS determinism across
// P = 1, 2, 4, 8 without spawning OS processes.
func NewPipeTopology(d, participants int) []Links {
	links := make([]Links, participants)
	for p := 0; p < participants-1; p++ {
		a, b := net.Pipe()
		links[p].Down = newConnLink(a, d)
		links[p+1].Up = newConnLink(b, d)
	}
	return links
}
