package models

import "time"

// Fit judgments and relations used on actor cards.
const (
	FitOK   = "ok"
	FitWarn = "warn"

	RelationMatches    = "matches"
	RelationChallenges = "challenges"
	// RelationReframes is part of the vocabulary but not produced by current
	// logic; reserved for a future stance comparison.
	RelationReframes = "reframes"
)

// SourceCitation describes one cited source in the registry.
type SourceCitation struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher,omitempty"`
	URL         string    `json:"url,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`
	Role        string    `json:"role,omitempty"`
}

// ActorCard is the per-party judgment embedded in the view model.
type ActorCard struct {
	ActorID            string        `json:"actor_id"`
	Primary            RespectClaim  `json:"primary"`
	Secondary          *RespectClaim `json:"secondary,omitempty"`
	Status             string        `json:"status"`
	RelationToDominant string        `json:"relation_to_dominant"`
	FitPublic          string        `json:"fit_public"`
	FitMedia           string        `json:"fit_media"`
	FitReality         string        `json:"fit_reality"`
	Evidence           []string      `json:"evidence,omitempty"`
}

// SubjectViewModel is the published artifact for one refresh: built fresh,
// appended to storage, superseded by the next refresh, never edited.
type SubjectViewModel struct {
	SubjectID string                    `json:"subject_id"`
	Title     string                    `json:"title,omitempty"`
	AsOf      time.Time                 `json:"as_of"`
	Dominance DominanceSnapshot         `json:"dominance"`
	Actors    []ActorCard               `json:"actors,omitempty"`
	Media     MediaFramingAggregate     `json:"media"`
	Polling   PublicPollingAggregate    `json:"polling"`
	Reality   RealityMetricsAggregate   `json:"reality"`
	Sources   map[string]SourceCitation `json:"sources"`
}
