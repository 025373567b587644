package subjects

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

const configPathEnv = "FRAMEWATCH_SUBJECTS"

// ErrUnknownSubject is the one ingestion-side condition that fails a refresh.
var ErrUnknownSubject = errors.New("unknown subject")

// PollPattern maps poll option/question text to a framing. Patterns are
// ordered; the first match wins.
type PollPattern struct {
	Pattern   string `yaml:"pattern"`
	RespectID string `yaml:"respect_id"`

	re *regexp.Regexp
}

// Subject is the full per-subject configuration. Everything here is data so
// new subjects are added without touching pipeline code.
type Subject struct {
	ID             string                             `yaml:"id"`
	Title          string                             `yaml:"title"`
	TriggerPhrases []string                           `yaml:"trigger_phrases"`
	Institutional  *models.InstitutionalContribution  `yaml:"institutional,omitempty"`
	// ActorRespectMap translates the actor-stance subsystem's framing
	// vocabulary into catalog ids. The two catalogs evolve independently, so
	// this is an explicit table, not an identity assumption.
	ActorRespectMap map[string]string `yaml:"actor_respect_map"`
	// Sources seeds the view model's citation registry, covering curated
	// ids like the institutional contribution's sources.
	Sources map[string]SourceSeed `yaml:"sources,omitempty"`
}

// SourceSeed is a configured citation entry.
type SourceSeed struct {
	Title     string `yaml:"title"`
	Publisher string `yaml:"publisher"`
	URL       string `yaml:"url"`
	Role      string `yaml:"role"`
}

// Registry holds subject configs plus the shared lookup tables.
type Registry struct {
	Subjects         map[string]Subject `yaml:"subjects"`
	OutletCategories map[string]string  `yaml:"outlet_categories"`
	PollPatterns     []PollPattern      `yaml:"poll_patterns"`
}

// Load reads the YAML registry from FRAMEWATCH_SUBJECTS, falling back to the
// built-in production registry when the env var is unset or the file is
// unreadable.
func Load() *Registry {
	reg := defaultRegistry()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("[Subjects] Cannot read registry file, using built-in defaults",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			var fileReg Registry
			if err := yaml.Unmarshal(raw, &fileReg); err != nil {
				slog.Warn("[Subjects] Cannot parse registry file, using built-in defaults",
					slog.String("path", path),
					slog.String("error", err.Error()))
			} else {
				reg = &fileReg
			}
		}
	}

	if err := reg.compile(); err != nil {
		slog.Error("[Subjects] Bad poll pattern in registry", slog.String("error", err.Error()))
		reg = defaultRegistry()
		_ = reg.compile()
	}
	return reg
}

func (r *Registry) compile() error {
	for i := range r.PollPatterns {
		re, err := regexp.Compile(r.PollPatterns[i].Pattern)
		if err != nil {
			return fmt.Errorf("pattern %q: %w", r.PollPatterns[i].Pattern, err)
		}
		r.PollPatterns[i].re = re
	}
	return nil
}

// Lookup resolves a subject id; unknown ids are refresh-fatal for callers.
func (r *Registry) Lookup(subjectID string) (Subject, error) {
	s, ok := r.Subjects[subjectID]
	if !ok {
		return Subject{}, fmt.Errorf("%w: %s", ErrUnknownSubject, subjectID)
	}
	return s, nil
}

// InstitutionalContribution returns the curated constant for a subject, or
// nil when none is configured (the dominance vote simply omits the term).
func (r *Registry) InstitutionalContribution(subjectID string) *models.InstitutionalContribution {
	s, ok := r.Subjects[subjectID]
	if !ok {
		return nil
	}
	return s.Institutional
}

// OutletCategory maps an outlet name to its category, defaulting to "online"
// for unmapped outlets.
func (r *Registry) OutletCategory(outlet string) string {
	if cat, ok := r.OutletCategories[outlet]; ok {
		return cat
	}
	return "online"
}

// MatchPollText runs the ordered pattern table over option or question text.
// The first matching pattern wins; no match falls back to the poll default
// framing.
func (r *Registry) MatchPollText(text string) string {
	for _, p := range r.PollPatterns {
		if p.re != nil && p.re.MatchString(text) {
			return p.RespectID
		}
	}
	return taxonomy.DefaultPollRespect
}
