// Package model defines the data transfer types shared between the solver
// engines, the CLI front ends, and the audit ledger.
package model

import "time"

// Mode identifies which core produced a RunRecord.
type Mode string

const (
	ModeSMS Mode = "sms"
	ModeDMS Mode = "dms"
)

// SolveRequest describes one solver invocation, shared by SMS and DMS entry
// points.
type SolveRequest struct {
	Mode         Mode
	Dimension    int
	Precision    float64
	Participants int // workers (SMS) or peers (DMS)
	InputPath    string
	OutputPath   string
}

// SolveResult summarizes the outcome of a completed solver run.
type SolveResult struct {
	Iterations int
	Duration   time.Duration
	Converged  bool
	OutputHash string // hex-encoded hash of the final output grid bytes
}

// Decomposition records how rows were assigned to participants, primarily
// for diagnostics and audit records.
type Decomposition struct {
	Participants int
	Bands        []BandAssignment
}

// BandAssignment is one participant's row range.
type BandAssignment struct {
	Participant int
	Start       int
	End         int
}

// RunRecord is one row of the audit ledger: a durable summary of a completed
// (or failed) solver run.
type RunRecord struct {
	ID           string `gorm:"primaryKey"`
	Mode         string
	Dimension    int
	Precision    float64
	Participants int
	Iterations   int
	DurationMS   int64
	Converged    bool
	OutputHash   string
	Error        string
	CreatedAt    time.Time
}
