package models

import "time"

// Snapshot statuses. The engine only ever emits StatusProposed; promotion to
// validated is a human action on the stored record.
const (
	StatusProposed  = "proposed"
	StatusValidated = "validated"
)

// DominanceContributor records one source's input to the weighted vote, with
// enough backing ids to trace the final score to originating items.
type DominanceContributor struct {
	SourceType string   `json:"source_type"`
	RespectID  string   `json:"respect_id"`
	Weight     float64  `json:"weight"`
	Share      float64  `json:"share"`
	SourceIDs  []string `json:"source_ids,omitempty"`
}

// DominanceSnapshot is the composite judgment of which framing currently
// prevails for a subject.
type DominanceSnapshot struct {
	SubjectID      string                 `json:"subject_id"`
	AsOf           time.Time              `json:"as_of"`
	Winner         RespectScore           `json:"winner"`
	Contributors   []DominanceContributor `json:"contributors"`
	Alternatives   []RespectScore         `json:"alternatives,omitempty"`
	SplitDominance bool                   `json:"split_dominance"`
	Status         string                 `json:"status"`
}

// InstitutionalContribution is the curated per-subject constant folded into
// the dominance vote at fixed weight. It is data, never computed.
type InstitutionalContribution struct {
	RespectID string   `json:"respect_id" yaml:"respect_id"`
	Rationale string   `json:"rationale" yaml:"rationale"`
	SourceIDs []string `json:"source_ids,omitempty" yaml:"source_ids"`
}
