// Package scan holds the scan-run aggregate: one record per end-to-end
// detection run and its per-thread verdicts.
package scan

import (
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/NicheSignal/internal/domain/post"
)

// Run records one detection run over an industry.
type Run struct {
	ID         uuid.UUID
	Industry   string
	Limit      int
	Broadened  bool // a second, broader search round was needed
	TotalPosts int
	Relevant   int
	ReportPath string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRun starts a run record for an industry.
func NewRun(industry string, limit int) *Run {
	return &Run{
		ID:        uuid.New(),
		Industry:  industry,
		Limit:     limit,
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the end of the run with its outcome counts.
func (r *Run) Finish(totalPosts, relevant int, broadened bool, reportPath string) {
	r.TotalPosts = totalPosts
	r.Relevant = relevant
	r.Broadened = broadened
	r.ReportPath = reportPath
	r.FinishedAt = time.Now().UTC()
}

// Duration is the wall-clock length of the run, zero while unfinished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// VerdictRecord is the stored outcome for one scored thread within a run.
type VerdictRecord struct {
	ID             uuid.UUID
	RunID          uuid.UUID
	PostURL        string
	PostTitle      string
	AspectScore    float64
	SemanticScore  float64
	Classification post.Classification
	Confidence     float64
	Reasoning      string
	PainType       post.PainType
	Fallback       bool
	CreatedAt      time.Time
}

// RecordVerdict converts a scored post into a persistable verdict row.
// Posts without a verdict (classifier never reached) are skipped by callers.
func RecordVerdict(runID uuid.UUID, sp *post.ScoredPost) *VerdictRecord {
	if sp == nil || sp.Verdict == nil {
		return nil
	}
	return &VerdictRecord{
		ID:             uuid.New(),
		RunID:          runID,
		PostURL:        sp.Post.URL,
		PostTitle:      sp.Post.Title,
		AspectScore:    sp.Scores.AspectScore,
		SemanticScore:  sp.Scores.SemanticScore,
		Classification: sp.Verdict.Classification,
		Confidence:     sp.Verdict.Confidence,
		Reasoning:      sp.Verdict.Reasoning,
		PainType:       sp.Verdict.PainType,
		Fallback:       sp.Verdict.Fallback,
		CreatedAt:      time.Now().UTC(),
	}
}
