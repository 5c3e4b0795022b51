// Package dms implements the distributed-memory relaxation engine: P peers,
// each owning a contiguous row strip, exchanging halo rows with their
// immediate neighbors and synchronizing termination via a ring all-reduce.
package dms

import "io"

// Tag distinguishes which edge row a message carries, mirroring the
// original MPI TOP_EDGE_TAG / BOTTOM_EDGE_TAG scheme so that a peer's
// BOTTOM send matches its lower neighbor's BOTTOM-tagged receive and a
// TOP send matches the upper neighbor's TOP-tagged receive.
type Tag byte

const (
	TagTop    Tag = 0
	TagBottom Tag = 1
)

// Link is a point-to-point byte-stream connection to one immediate
// neighbor (p-1 or p+1). Every peer has at most two links: Up (to p-1) and
// Down (to p+1); peer 0 has no Up link and peer P-1 has no Down link.
type Link interface {
	SendRow(tag Tag, row []float64) error
	RecvRow(tag Tag) ([]float64, error)
	SendBool(v bool) error
	RecvBool() (bool, error)
	Close() error
}

// connLink implements Link over any full-duplex byte stream: a net.Pipe end
// for in-process simulation, or a TCP connection for real multi-process
// runs.
type connLink struct {
	conn io.ReadWriteCloser
	d    int
}

func newConnLink(conn io.ReadWriteCloser, d int) *connLink {
	return &connLink{conn: conn, d: d}
}

func (l *connLink) SendRow(tag Tag, row []float64) error {
	return writeRow(l.conn, byte(tag), row)
}

func (l *connLink) RecvRow(tag Tag) ([]float64, error) {
	gotTag, row, err := readRow(l.conn, l.d)
	if err != nil {
		return nil, err
	}
	if Tag(gotTag) != tag {
		return nil, &tagMismatchError{want: tag, got: Tag(gotTag)}
	}
	return row, nil
}

func (l *connLink) SendBool(v bool) error {
	return writeBool(l.conn, v)
}

func (l *connLink) RecvBool() (bool, error) {
	return readBool(l.conn)
}

func (l *connLink) Close() error {
	return l.conn.Close()
}

type tagMismatchError struct {
	want, got Tag
}

func (e *tagMismatchError) Error() string {
	return "dms: halo message tag mismatch: want " + tagName(e.want) + " got " + tagName(e.got)
}

func tagName(t Tag) string {
	switch t {
	case TagTop:
		return "TOP"
	case TagBottom:
		return "BOTTOM"
	default:
		return "UNKNOWN"
	}
}

// Links bundles a peer's two neighbor connections. A nil field means that
// side has no neighbor (global edge peer).
type Links struct {
	Up   Link
	Down Link
}
