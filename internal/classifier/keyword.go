package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

const (
	// Keyword confidence bounds; every keyword classification lands inside
	// them, fallback included.
	MinConfidence = 0.3
	MaxConfidence = 0.95

	// Pre-labelled items skip scoring entirely.
	preLabelConfidence = 0.9
	// Fallback confidence when no seed matches. The fallback itself is a
	// policy choice: an item is never left unclassified, so aggregate
	// denominators stay stable.
	noMatchConfidence = 0.5
)

// Classifier assigns exactly one framing to each raw item. The keyword path
// is always available; an optional Oracle upgrades whole batches and falls
// back to keywords on any failure.
type Classifier struct {
	catalog *taxonomy.Catalog
	oracle  Oracle
	now     func() time.Time
}

func New(catalog *taxonomy.Catalog, opts ...Option) *Classifier {
	c := &Classifier{catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Classifier)

// WithOracle enables the external-oracle batch path.
func WithOracle(o Oracle) Option {
	return func(c *Classifier) { c.oracle = o }
}

// WithClock pins the classification timestamp, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// DefaultRespect is the per-kind fallback framing.
func DefaultRespect(kind models.ItemKind) string {
	if kind == models.KindMetric {
		return taxonomy.DefaultMetricRespect
	}
	return taxonomy.DefaultMediaRespect
}

// ClassifyMedia classifies one headline. Curated pre-labels bypass scoring.
func (c *Classifier) ClassifyMedia(subjectID string, item models.RawMediaItem) models.ClassifiedItem {
	if item.RespectID != "" && c.catalog.Contains(item.RespectID) {
		return models.ClassifiedItem{
			Kind:         models.KindMedia,
			SubjectID:    subjectID,
			ItemID:       item.ID,
			RespectID:    item.RespectID,
			Confidence:   preLabelConfidence,
			Rationale:    []string{"pre-labelled"},
			ClassifiedAt: c.now(),
		}
	}
	return c.classifyText(models.KindMedia, subjectID, item.ID, mediaText(item))
}

// ClassifyPoll classifies a poll at question level; option-level mapping is
// the polling aggregator's job.
func (c *Classifier) ClassifyPoll(subjectID string, item models.RawPollItem) models.ClassifiedItem {
	return c.classifyText(models.KindPoll, subjectID, item.ID, pollText(item))
}

// ClassifyMetric classifies a metric by its label and period.
func (c *Classifier) ClassifyMetric(subjectID string, item models.RawMetricItem) models.ClassifiedItem {
	return c.classifyText(models.KindMetric, subjectID, item.ID, metricText(item))
}

func (c *Classifier) classifyText(kind models.ItemKind, subjectID, itemID, text string) models.ClassifiedItem {
	matches := c.catalog.Score(text)
	best, ok := taxonomy.Top(matches)
	if !ok {
		return models.ClassifiedItem{
			Kind:         kind,
			SubjectID:    subjectID,
			ItemID:       itemID,
			RespectID:    DefaultRespect(kind),
			Confidence:   noMatchConfidence,
			Rationale:    []string{"no match"},
			ClassifiedAt: c.now(),
		}
	}

	return models.ClassifiedItem{
		Kind:           kind,
		SubjectID:      subjectID,
		ItemID:         itemID,
		RespectID:      best.RespectID,
		Confidence:     keywordConfidence(best.Score),
		Rationale:      []string{fmt.Sprintf("keyword score %.1f", best.Score)},
		MatchedPhrases: best.Phrases,
		ClassifiedAt:   c.now(),
	}
}

func keywordConfidence(score float64) float64 {
	denom := score
	if denom < 3 {
		denom = 3
	}
	return clamp(score/denom, MinConfidence, MaxConfidence)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mediaText(item models.RawMediaItem) string {
	if item.Lede == "" {
		return item.Title
	}
	return item.Title + " " + item.Lede
}

func pollText(item models.RawPollItem) string {
	return item.Question + " " + strings.Join(item.Options, " ")
}

func metricText(item models.RawMetricItem) string {
	return item.Label + " " + item.Period
}
