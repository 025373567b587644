package dominance

import (
	"sort"
	"time"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

// Fixed vote weights. Named constants rather than literals so tests can
// substitute a Weights value; they are not runtime-configurable.
const (
	MediaWeight         = 0.45
	PublicWeight        = 0.35
	InstitutionalWeight = 0.20

	// SplitThreshold is the absolute rank-1/rank-2 gap below which dominance
	// counts as contested.
	SplitThreshold = 0.10

	maxAlternatives       = 3
	maxContributorSources = 5
)

// Weights holds the per-source vote weights.
type Weights struct {
	Media         float64
	Public        float64
	Institutional float64
}

func DefaultWeights() Weights {
	return Weights{Media: MediaWeight, Public: PublicWeight, Institutional: InstitutionalWeight}
}

// InstitutionalLookup resolves the curated per-subject institutional
// contribution; nil means the institutional term is simply omitted.
type InstitutionalLookup func(subjectID string) *models.InstitutionalContribution

// Engine runs the weighted vote over media, public and institutional
// contributions.
type Engine struct {
	catalog       *taxonomy.Catalog
	weights       Weights
	institutional InstitutionalLookup
	now           func() time.Time
}

func NewEngine(catalog *taxonomy.Catalog, weights Weights, institutional InstitutionalLookup, opts ...Option) *Engine {
	e := &Engine{catalog: catalog, weights: weights, institutional: institutional, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Compute selects the dominant framing. The snapshot is always emitted as
// "proposed"; promotion to validated is an external action on the stored
// record.
func (e *Engine) Compute(subjectID string, media models.MediaFramingAggregate, public models.PublicPollingAggregate) models.DominanceSnapshot {
	scores := make(map[string]float64)
	var contributors []models.DominanceContributor

	if len(media.Shares) > 0 {
		for _, s := range media.Shares {
			scores[s.RespectID] += s.Share * e.weights.Media
		}
		contributors = append(contributors, models.DominanceContributor{
			SourceType: "media",
			RespectID:  media.Dominant,
			Weight:     e.weights.Media,
			Share:      shareFor(media.Shares, media.Dominant),
			SourceIDs:  mediaSourceIDs(media),
		})
	}

	if len(public.Shares) > 0 {
		for _, s := range public.Shares {
			scores[s.RespectID] += s.Share * e.weights.Public
		}
		contributors = append(contributors, models.DominanceContributor{
			SourceType: "public",
			RespectID:  public.PublicPrior.RespectID,
			Weight:     e.weights.Public,
			Share:      public.PublicPrior.Share,
			SourceIDs:  pollSourceIDs(public),
		})
	}

	if e.institutional != nil {
		if contribution := e.institutional(subjectID); contribution != nil {
			scores[contribution.RespectID] += e.weights.Institutional
			contributors = append(contributors, models.DominanceContributor{
				SourceType: "institutional",
				RespectID:  contribution.RespectID,
				Weight:     e.weights.Institutional,
				Share:      1,
				SourceIDs:  capIDs(contribution.SourceIDs),
			})
		}
	}

	ranked := e.rank(scores)

	snapshot := models.DominanceSnapshot{
		SubjectID:    subjectID,
		AsOf:         e.now(),
		Contributors: contributors,
		Status:       models.StatusProposed,
	}
	if len(ranked) > 0 {
		snapshot.Winner = ranked[0]
	}
	if len(ranked) > 1 {
		alts := ranked[1:]
		if len(alts) > maxAlternatives {
			alts = alts[:maxAlternatives]
		}
		snapshot.Alternatives = alts
		snapshot.SplitDominance = ranked[0].Score-ranked[1].Score < SplitThreshold
	}
	return snapshot
}

// rank orders nonzero scores descending; the stable sort over the
// catalog-ordered slice makes catalog position the tie-break.
func (e *Engine) rank(scores map[string]float64) []models.RespectScore {
	var ranked []models.RespectScore
	for _, r := range e.catalog.Respects() {
		if s, ok := scores[r.ID]; ok && s > 0 {
			ranked = append(ranked, models.RespectScore{RespectID: r.ID, Score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

func shareFor(shares []models.RespectShare, respectID string) float64 {
	for _, s := range shares {
		if s.RespectID == respectID {
			return s.Share
		}
	}
	return 0
}

func mediaSourceIDs(media models.MediaFramingAggregate) []string {
	var ids []string
	for _, e := range media.Exemplars {
		ids = append(ids, e.ItemID)
	}
	return capIDs(ids)
}

func pollSourceIDs(public models.PublicPollingAggregate) []string {
	var ids []string
	for _, q := range public.Questions {
		ids = append(ids, q.PollID)
	}
	return capIDs(ids)
}

func capIDs(ids []string) []string {
	if len(ids) > maxContributorSources {
		return ids[:maxContributorSources]
	}
	return ids
}
