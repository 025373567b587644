package subjects

import (
	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

// defaultRegistry is the production configuration: one subject, the UK outlet
// table, and the poll option pattern table.
func defaultRegistry() *Registry {
	return &Registry{
		Subjects: map[string]Subject{
			"asylum_policy": {
				ID:    "asylum_policy",
				Title: "Asylum & small boats policy",
				TriggerPhrases: []string{
					"asylum", "migrant", "migration", "small boats", "refugee",
					"border", "channel crossing",
				},
				Institutional: &models.InstitutionalContribution{
					RespectID: taxonomy.RespectRuleOfLaw,
					Rationale: "Court rulings and treaty obligations constrain every policy option on the table.",
					SourceIDs: []string{"src_echr_judgment", "src_home_office_stats"},
				},
				Sources: map[string]SourceSeed{
					"src_echr_judgment": {
						Title:     "European Court of Human Rights interim ruling",
						Publisher: "ECtHR",
						URL:       "https://hudoc.echr.coe.int",
						Role:      "institutional",
					},
					"src_home_office_stats": {
						Title:     "Irregular migration to the UK, quarterly statistics",
						Publisher: "Home Office",
						URL:       "https://www.gov.uk/government/statistics",
						Role:      "institutional",
					},
				},
				ActorRespectMap: map[string]string{
					"border-security":    taxonomy.RespectSecurityBorder,
					"deterrence":         taxonomy.RespectSecurityBorder,
					"protection":         taxonomy.RespectHumanitarian,
					"humanitarian":       taxonomy.RespectHumanitarian,
					"legal-process":      taxonomy.RespectRuleOfLaw,
					"international-law":  taxonomy.RespectRuleOfLaw,
					"system-delivery":    taxonomy.RespectCapacityDelivery,
					"asylum-backlog":     taxonomy.RespectCapacityDelivery,
					"economic-migration": taxonomy.RespectEconomicLabour,
					"labour-shortage":    taxonomy.RespectEconomicLabour,
				},
			},
		},
		OutletCategories: map[string]string{
			"BBC News":        "broadcast",
			"Sky News":        "broadcast",
			"ITV News":        "broadcast",
			"The Guardian":    "broadsheet",
			"The Times":       "broadsheet",
			"The Telegraph":   "broadsheet",
			"Financial Times": "broadsheet",
			"Daily Mail":      "tabloid",
			"The Sun":         "tabloid",
			"Daily Mirror":    "tabloid",
			"Daily Express":   "tabloid",
			"Reuters":         "wire",
			"PA Media":        "wire",
			"AFP":             "wire",
		},
		PollPatterns: []PollPattern{
			{Pattern: `(?i)tougher|crackdown|deport|stop the boats|turn back|secure the border`, RespectID: taxonomy.RespectSecurityBorder},
			{Pattern: `(?i)safe (and )?legal route|protect|welcome|compassion|refuge`, RespectID: taxonomy.RespectHumanitarian},
			{Pattern: `(?i)court|legal obligation|international law|human rights`, RespectID: taxonomy.RespectRuleOfLaw},
			{Pattern: `(?i)backlog|process(ing)? (claims|applications)|faster decisions`, RespectID: taxonomy.RespectCapacityDelivery},
			{Pattern: `(?i)econom|worker|labour shortage|jobs|taxpayer`, RespectID: taxonomy.RespectEconomicLabour},
		},
	}
}
