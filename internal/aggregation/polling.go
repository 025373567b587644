package aggregation

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

const (
	// resultSumTolerance is how far option shares may drift from 1.
	resultSumTolerance = 0.02

	fieldworkDateLayout = "2006-01-02"

	summaryNoPolls      = "no polling data"
	summaryInsufficient = "insufficient poll data"
	trendInsufficient   = "insufficient data"
	// trendPresence is a coarse presence check, not a trend computation.
	// Preserved as-is: upgrading it to a real regression would change
	// observable output.
	trendPresence = "based on polls in window"
)

// OptionMapper maps poll option or question text to a framing id via the
// ordered pattern table.
type OptionMapper interface {
	MatchPollText(text string) string
}

// PollingAggregator computes the public-opinion composite.
type PollingAggregator struct {
	catalog *taxonomy.Catalog
	mapper  OptionMapper
	now     func() time.Time
}

func NewPollingAggregator(catalog *taxonomy.Catalog, mapper OptionMapper, opts ...PollingOption) *PollingAggregator {
	a := &PollingAggregator{catalog: catalog, mapper: mapper, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type PollingOption func(*PollingAggregator)

func WithPollingClock(now func() time.Time) PollingOption {
	return func(a *PollingAggregator) { a.now = now }
}

// ValidatePoll is the fail-closed ingestion gate. Invalid polls are excluded
// entirely from aggregation, never defaulted or partially used.
func ValidatePoll(p models.RawPollItem) error {
	if len(p.Options) == 0 {
		return fmt.Errorf("poll %s: no options", p.ID)
	}
	if len(p.Options) != len(p.Results) {
		return fmt.Errorf("poll %s: %d options but %d results", p.ID, len(p.Options), len(p.Results))
	}
	sum := 0.0
	for _, r := range p.Results {
		sum += r
	}
	if math.Abs(sum-1) > resultSumTolerance {
		return fmt.Errorf("poll %s: results sum to %.3f, outside 1±%.2f", p.ID, sum, resultSumTolerance)
	}
	if p.SampleSize != 0 {
		if p.SampleSize != math.Trunc(p.SampleSize) || p.SampleSize < 1 {
			return fmt.Errorf("poll %s: sample size %v is not a positive integer", p.ID, p.SampleSize)
		}
	}
	if _, err := time.Parse(fieldworkDateLayout, p.FieldworkStart); err != nil {
		return fmt.Errorf("poll %s: bad fieldwork start date: %w", p.ID, err)
	}
	if _, err := time.Parse(fieldworkDateLayout, p.FieldworkEnd); err != nil {
		return fmt.Errorf("poll %s: bad fieldwork end date: %w", p.ID, err)
	}
	return nil
}

// Aggregate maps each valid poll's options to framings and folds the shares,
// scaled by each poll's question-level classification confidence, into the
// composite public prior.
func (a *PollingAggregator) Aggregate(subjectID string, classified []models.ClassifiedItem, polls []models.RawPollItem, windowMonths int) models.PublicPollingAggregate {
	now := a.now()

	confByPoll := make(map[string]float64, len(classified))
	for _, c := range classified {
		if c.Kind == models.KindPoll {
			confByPoll[c.ItemID] = c.Confidence
		}
	}

	agg := models.PublicPollingAggregate{
		SubjectID:    subjectID,
		WindowMonths: windowMonths,
		GeneratedAt:  now,
	}

	cumulative := make(map[string]float64)
	total := 0.0
	for _, poll := range polls {
		if err := ValidatePoll(poll); err != nil {
			slog.Warn("[PollingAggregator] Excluding invalid poll",
				slog.String("poll_id", poll.ID),
				slog.String("error", err.Error()))
			continue
		}

		conf, ok := confByPoll[poll.ID]
		if !ok || conf <= 0 {
			conf = 0.5
		}

		breakdown := models.PollQuestionBreakdown{
			PollID:         poll.ID,
			Pollster:       poll.Pollster,
			Question:       poll.Question,
			FieldworkStart: poll.FieldworkStart,
			FieldworkEnd:   poll.FieldworkEnd,
			SampleSize:     int(poll.SampleSize),
			URL:            poll.URL,
		}
		for i, option := range poll.Options {
			respectID := a.mapper.MatchPollText(option)
			share := poll.Results[i]
			cumulative[respectID] += share * conf
			total += share * conf
			// Literal option/percentage pairs are kept; they are always
			// preferred downstream over a collapsed single number.
			breakdown.Options = append(breakdown.Options, models.PollOptionReading{
				Label:     option,
				Share:     share,
				RespectID: respectID,
			})
		}
		agg.Questions = append(agg.Questions, breakdown)
		agg.PollCount++
	}

	denom := total
	if denom < 1 {
		denom = 1
	}
	for _, r := range a.catalog.Respects() {
		w, ok := cumulative[r.ID]
		if !ok || w == 0 {
			continue
		}
		share := w / denom
		agg.Shares = append(agg.Shares, models.RespectShare{RespectID: r.ID, Share: share})
		if share > agg.PublicPrior.Share {
			agg.PublicPrior = models.RespectShare{RespectID: r.ID, Share: share}
		}
	}

	agg.SplitSummary = splitSummary(agg.Shares, len(polls))
	agg.TrendSummary = trendSummary(agg.PollCount)
	return agg
}

func splitSummary(shares []models.RespectShare, rawPollCount int) string {
	var nonzero []models.RespectShare
	for _, s := range shares {
		if s.Share > 0 {
			nonzero = append(nonzero, s)
		}
	}
	if len(nonzero) < 2 {
		if rawPollCount == 0 {
			return summaryNoPolls
		}
		return summaryInsufficient
	}

	// shares arrive in catalog order; topTwo keeps that order as the
	// tie-break.
	top, second := topTwo(nonzero)
	return fmt.Sprintf("%.0f%% vs %.0f%%", top.Share*100, second.Share*100)
}

func topTwo(shares []models.RespectShare) (models.RespectShare, models.RespectShare) {
	var first, second models.RespectShare
	for _, s := range shares {
		if s.Share > first.Share {
			second = first
			first = s
		} else if s.Share > second.Share {
			second = s
		}
	}
	return first, second
}

func trendSummary(pollCount int) string {
	if pollCount >= 2 {
		return trendPresence
	}
	return trendInsufficient
}
