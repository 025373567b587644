package models

// ActorStance statuses, owned by the extraction subsystem.
const (
	StanceProposed  = "proposed"
	StanceValidated = "validated"
	StanceContested = "contested"
	StanceRejected  = "rejected"
)

// RespectClaim is a framing assertion with confidence, in the actor-stance
// subsystem's own framing vocabulary.
type RespectClaim struct {
	RespectID  string  `json:"respect_id"`
	Confidence float64 `json:"confidence"`
}

// ActorStance is a party's asserted framing for a subject. Read-only input:
// the pipeline never writes these.
type ActorStance struct {
	SubjectID string        `json:"subject_id"`
	ActorID   string        `json:"actor_id"`
	Primary   RespectClaim  `json:"primary"`
	Secondary *RespectClaim `json:"secondary,omitempty"`
	Evidence  []string      `json:"evidence,omitempty"`
	Status    string        `json:"status"`
}
