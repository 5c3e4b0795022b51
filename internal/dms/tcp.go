package dms

import (
	"fmt"
	"net"
	"time"
)

const (
	tcpDialAttempts = 20
	tcpDialBackoff  = 200 * time.Millisecond
)

// DialTCPTopology connects peer `rank` into a P-peer chain addressed by
// addrs (one listen address per peer, indexed by rank). Peer p listens on
// addrs[p] for its Down neighbor (p+1) to connect, and dials addrs[p-1] to
// reach its Up neighbor (p-1). This realizes real multi-process DMS runs,
// as opposed to NewPipeTopology's in-process simulation.
func DialTCPTopology(d int, addrs []string, rank int) (Links, error) {
	var links Links
	participants := len(addrs)

	if rank < participants-1 {
		ln, err := net.Listen("tcp", addrs[rank])
		if err != nil {
			return links, fmt.Errorf("dms: listen on %s: %w", addrs[rank], err)
		}
		defer ln.Close()

		conn, err := ln.Accept()
		if err != nil {
			return links, fmt.Errorf("dms: accept down neighbor: %w", err)
		}
		links.Down = newConnLink(conn, d)
	}

	if rank > 0 {
		var conn net.Conn
		var dialErr error
		for attempt := 0; attempt < tcpDialAttempts; attempt++ {
			conn, dialErr = net.Dial("tcp", addrs[rank-1])
			if dialErr == nil {
				break
			}
			time.Sleep(tcpDialBackoff)
		}
		if dialErr != nil {
			return links, fmt.Errorf("dms: dial up neighbor %s: %w", addrs[rank-1], dialErr)
		}
		links.Up = newConnLink(conn, d)
	}

	return links, nil
}
