package aggregation

import (
	"sort"
	"time"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

const (
	// RecencyHorizonDays is the media decay horizon. It is deliberately
	// independent of the aggregation window parameter: a window other than
	// 14 days will not scale the decay proportionally.
	RecencyHorizonDays = 14
	// RecencyFloor keeps old-but-present items from being zero-weighted.
	RecencyFloor = 0.1

	exemplarCount  = 6
	topPhraseCount = 10
	minPhraseLen   = 3
)

var phraseStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "are": true, "was": true, "has": true, "have": true,
	"will": true, "says": true, "after": true, "over": true, "into": true,
	"from": true, "amid": true, "new": true, "not": true, "but": true,
	"his": true, "her": true, "its": true, "their": true, "they": true,
	"could": true, "would": true, "about": true, "more": true,
}

type weightedMediaItem struct {
	item   models.RawMediaItem
	class  models.ClassifiedItem
	weight float64
}

// MediaAggregator computes the time-windowed media framing summary.
type MediaAggregator struct {
	catalog        *taxonomy.Catalog
	outletCategory func(outlet string) string
	now            func() time.Time
}

func NewMediaAggregator(catalog *taxonomy.Catalog, outletCategory func(string) string, opts ...MediaOption) *MediaAggregator {
	a := &MediaAggregator{catalog: catalog, outletCategory: outletCategory, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type MediaOption func(*MediaAggregator)

func WithMediaClock(now func() time.Time) MediaOption {
	return func(a *MediaAggregator) { a.now = now }
}

// RecencyWeight decays linearly to the horizon with a hard floor.
func RecencyWeight(publishedAt, now time.Time) float64 {
	d := now.Sub(publishedAt).Hours() / 24
	if d < 0 {
		d = 0
	}
	w := 1 - d/RecencyHorizonDays
	if w < RecencyFloor {
		return RecencyFloor
	}
	return w
}

// Aggregate merges classifications and raw items (already deduplicated by
// ingestion) into the media aggregate. windowDays is recorded as scope
// metadata; the decay horizon stays fixed.
func (a *MediaAggregator) Aggregate(subjectID string, classified []models.ClassifiedItem, raw []models.RawMediaItem, windowDays int, sourceKind string) models.MediaFramingAggregate {
	now := a.now()

	byItem := make(map[string]models.ClassifiedItem, len(classified))
	for _, c := range classified {
		byItem[c.ItemID] = c
	}

	var entries []weightedMediaItem
	weightByRespect := make(map[string]float64)
	total := 0.0
	for _, item := range raw {
		c, ok := byItem[item.ID]
		if !ok {
			continue
		}
		w := RecencyWeight(item.PublishedAt, now) * c.Confidence
		entries = append(entries, weightedMediaItem{item: item, class: c, weight: w})
		weightByRespect[c.RespectID] += w
		total += w
	}

	agg := models.MediaFramingAggregate{
		SubjectID:   subjectID,
		WindowDays:  windowDays,
		GeneratedAt: now,
		Volume:      len(raw),
		SourceKind:  sourceKind,
	}
	agg.Shares, agg.Dominant = a.shares(weightByRespect, total)
	agg.Exemplars = exemplars(entries)
	agg.TopPhrases = topPhrases(raw)
	agg.Categories = a.categories(entries, len(raw))
	return agg
}

// shares normalizes per-framing weights; the denominator guard only covers
// the zero-weight case, so populated aggregates always sum to 1.
func (a *MediaAggregator) shares(weightByRespect map[string]float64, total float64) ([]models.RespectShare, string) {
	denom := total
	if denom <= 0 {
		denom = 1
	}

	var shares []models.RespectShare
	dominant := ""
	best := 0.0
	for _, r := range a.catalog.Respects() {
		w, ok := weightByRespect[r.ID]
		if !ok || w == 0 {
			continue
		}
		share := w / denom
		shares = append(shares, models.RespectShare{RespectID: r.ID, Share: share})
		// Strict greater-than keeps catalog order as the tie-break.
		if share > best {
			best = share
			dominant = r.ID
		}
	}
	return shares, dominant
}

func exemplars(entries []weightedMediaItem) []models.MediaExemplar {
	ranked := append([]weightedMediaItem(nil), entries...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].weight > ranked[j].weight })
	if len(ranked) > exemplarCount {
		ranked = ranked[:exemplarCount]
	}

	out := make([]models.MediaExemplar, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, models.MediaExemplar{
			ItemID:      e.item.ID,
			Outlet:      e.item.Outlet,
			Title:       e.item.Title,
			URL:         e.item.URL,
			PublishedAt: e.item.PublishedAt,
			RespectID:   e.class.RespectID,
			Confidence:  e.class.Confidence,
			Tone:        HeadlineTone(e.item.Title),
		})
	}
	return out
}

// topPhrases counts title tokens, skipping stopwords and short tokens; ties
// keep first-encountered order.
func topPhrases(raw []models.RawMediaItem) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, item := range raw {
		for _, tok := range taxonomy.Tokenize(item.Title) {
			if len(tok) < minPhraseLen || phraseStopwords[tok] {
				continue
			}
			if _, ok := counts[tok]; !ok {
				firstSeen[tok] = order
				order++
			}
			counts[tok]++
		}
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return firstSeen[tokens[i]] < firstSeen[tokens[j]]
	})
	if len(tokens) > topPhraseCount {
		tokens = tokens[:topPhraseCount]
	}
	return tokens
}

// categories partitions items by outlet category and recomputes weighted
// shares independently inside each partition.
func (a *MediaAggregator) categories(entries []weightedMediaItem, volume int) []models.OutletCategoryBreakdown {
	if len(entries) == 0 {
		return nil
	}

	partition := make(map[string][]weightedMediaItem)
	var categoryOrder []string
	for _, e := range entries {
		cat := e.item.OutletCategory
		if cat == "" {
			cat = a.outletCategory(e.item.Outlet)
		}
		if _, ok := partition[cat]; !ok {
			categoryOrder = append(categoryOrder, cat)
		}
		partition[cat] = append(partition[cat], e)
	}

	denomVolume := float64(volume)
	if denomVolume <= 0 {
		denomVolume = 1
	}

	out := make([]models.OutletCategoryBreakdown, 0, len(partition))
	for _, cat := range categoryOrder {
		items := partition[cat]
		weightByRespect := make(map[string]float64)
		total := 0.0
		for _, e := range items {
			weightByRespect[e.class.RespectID] += e.weight
			total += e.weight
		}
		shares, _ := a.shares(weightByRespect, total)
		out = append(out, models.OutletCategoryBreakdown{
			Category:    cat,
			ItemCount:   len(items),
			VolumeShare: float64(len(items)) / denomVolume,
			Shares:      shares,
		})
	}
	return out
}
