package models

import "time"

// ItemKind tags the source family of a raw item.
type ItemKind string

const (
	KindMedia  ItemKind = "media"
	KindPoll   ItemKind = "poll"
	KindMetric ItemKind = "metric"
)

// ClassifiedItem is the single-framing classification of one raw item.
// Classifications are recomputed on every refresh and never persisted as
// authoritative truth.
type ClassifiedItem struct {
	Kind           ItemKind  `json:"kind"`
	SubjectID      string    `json:"subject_id"`
	ItemID         string    `json:"item_id"`
	RespectID      string    `json:"respect_id"`
	Confidence     float64   `json:"confidence"`
	Rationale      []string  `json:"rationale,omitempty"`
	MatchedPhrases []string  `json:"matched_phrases,omitempty"`
	ClassifiedAt   time.Time `json:"classified_at"`
}
