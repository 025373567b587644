package taxonomy

import "github.com/avelldahl/framewatch/internal/models"

// Framing ids used across the pipeline. DefaultMediaRespect and
// DefaultMetricRespect are the per-kind fallbacks when nothing matches; the
// fallback is a deliberate policy so aggregate denominators stay stable.
const (
	RespectSecurityBorder   = "security_border"
	RespectHumanitarian     = "humanitarian"
	RespectRuleOfLaw        = "rule_of_law"
	RespectCapacityDelivery = "capacity_delivery"
	RespectEconomicLabour   = "economic_labour"

	DefaultMediaRespect  = RespectSecurityBorder
	DefaultPollRespect   = RespectSecurityBorder
	DefaultMetricRespect = RespectCapacityDelivery
)

// Default returns the production catalog for the asylum policy subject.
// Order matters: it is the tie-break order.
func Default() *Catalog {
	return New([]models.Respect{
		{
			ID:                RespectSecurityBorder,
			Label:             "Security & border control",
			JudgementQuestion: "Is the subject argued as a matter of control, enforcement and deterrence?",
			KeywordSeeds: []string{
				"border", "crackdown", "deter", "deterrence", "enforcement",
				"smuggl", "illegal crossing", "patrol", "removal", "security",
				"stop the boats",
			},
		},
		{
			ID:                RespectHumanitarian,
			Label:             "Humanitarian protection",
			JudgementQuestion: "Is the subject argued as a matter of protection, dignity and refuge?",
			KeywordSeeds: []string{
				"refugee", "asylum seeker", "dignity", "humanitarian",
				"protection", "safe route", "drown", "vulnerable", "compassion",
				"sanctuary",
			},
		},
		{
			ID:                RespectRuleOfLaw,
			Label:             "Rule of law & process",
			JudgementQuestion: "Is the subject argued as a matter of legal process and obligations?",
			KeywordSeeds: []string{
				"court", "ruling", "appeal", "judicial", "lawful", "unlawful",
				"convention", "obligation", "due process", "tribunal",
			},
		},
		{
			ID:                RespectCapacityDelivery,
			Label:             "System capacity & delivery",
			JudgementQuestion: "Is the subject argued as a matter of system capacity and delivery?",
			KeywordSeeds: []string{
				"backlog", "capacity", "processing", "accommodation", "hotel",
				"caseworker", "delivery", "delay", "overwhelmed", "target",
			},
		},
		{
			ID:                RespectEconomicLabour,
			Label:             "Economy & labour market",
			JudgementQuestion: "Is the subject argued as a matter of economic cost and contribution?",
			KeywordSeeds: []string{
				"labour market", "workforce", "economy", "cost", "taxpayer",
				"wages", "shortage", "contribution", "jobs", "growth",
			},
		},
	})
}
