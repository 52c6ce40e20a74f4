// Package recorder persists placement run reports: the
// HPWL-per-outer-iteration series, per-stage durations, and the final error
// code, keyed by a run ID. This is purely a diagnostics/audit trail — the
// engine's own decisions never depend on a Recorder being present.
package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StageDuration records how long one orchestrator stage took during one
// outer iteration.
type StageDuration struct {
	Stage     string        `bson:"stage" json:"stage"`
	Iteration int           `bson:"iteration" json:"iteration"`
	Duration  time.Duration `bson:"duration" json:"duration"`
}

// RunReport is the persisted record of one placement run.
type RunReport struct {
	RunID       string          `bson:"run_id" json:"run_id"`
	StartedAt   time.Time       `bson:"started_at" json:"started_at"`
	FinishedAt  time.Time       `bson:"finished_at" json:"finished_at"`
	Iterations  int             `bson:"iterations" json:"iterations"`
	HPWLSeries  []float64       `bson:"hpwl_series" json:"hpwl_series"`
	Stages      []StageDuration `bson:"stages" json:"stages"`
	Converged   bool            `bson:"converged" json:"converged"`
	FinalHPWL   float64         `bson:"final_hpwl" json:"final_hpwl"`
	ErrorCode   string          `bson:"error_code,omitempty" json:"error_code,omitempty"`
}

// NewRunID generates a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Recorder persists RunReports. Implementations must be safe to call once
// per run; the orchestrator does not call them concurrently.
type Recorder interface {
	Record(ctx context.Context, report RunReport) error
	Close(ctx context.Context) error
}

// NullRecorder discards every report. Default when no Recorder is
// configured.
type NullRecorder struct{}

// Record implements Recorder.
func (NullRecorder) Record(context.Context, RunReport) error { return nil }

// Close implements Recorder.
func (NullRecorder) Close(context.Context) error { return nil }

var _ Recorder = NullRecorder{}
