package models

// Respect is a single framing ("decisive respect") in the fixed catalog.
// The catalog is assembled once at startup and never mutated; catalog order
// is load order and doubles as the tie-break order everywhere downstream.
type Respect struct {
	ID                string   `json:"id"`
	Label             string   `json:"label"`
	JudgementQuestion string   `json:"judgement_question"`
	KeywordSeeds      []string `json:"keyword_seeds"`
}

// RespectShare pairs a framing with a normalized share in [0,1].
type RespectShare struct {
	RespectID string  `json:"respect_id"`
	Share     float64 `json:"share"`
}

// RespectScore pairs a framing with an unnormalized score.
type RespectScore struct {
	RespectID string  `json:"respect_id"`
	Score     float64 `json:"score"`
}
