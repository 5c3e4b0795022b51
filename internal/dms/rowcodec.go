package dms

import (
	"encoding/binary"
	"io"
	"math"
)

// writeRow writes a single tagged row to w: one tag byte followed by D
// little-endian IEEE-754 doubles.
func writeRow(w io.Writer, tag byte, row []float64) error {
	buf := make([]byte, 1+8*len(row))
	buf[0] = tag
	for i, v := range row {
		binary.LittleEndian.PutUint64(buf[1+i*8:], math.Float64bits(v))
	}
	_, err := w.Write(buf)
	return err
}

// readRow reads one tagged row of length d from r.
func readRow(r io.Reader, d int) (byte, []float64, error) {
	buf := make([]byte, 1+8*d)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, nil, err
	}
	row := make([]float64, d)
	for i := range row {
		row[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[1+i*8:]))
	}
	return buf[0], row, nil
}

// writeBool writes a single boolean as one byte.
func writeBool(w io.Writer, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

// readBool reads a single boolean byte.
func readBool(r io.Reader) (bool, error) {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}
