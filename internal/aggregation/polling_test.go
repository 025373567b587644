package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/subjects"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

func validPoll() models.RawPollItem {
	return models.RawPollItem{
		ID:             "p1",
		Pollster:       "YouGov",
		Question:       "What should the government prioritise on small boats?",
		Options:        []string{"Tougher action to stop the boats", "Safe and legal routes"},
		Results:        []float64{0.58, 0.42},
		FieldworkStart: "2026-08-01",
		FieldworkEnd:   "2026-08-03",
		SampleSize:     2011,
	}
}

func pollClassified(pollID string, confidence float64) []models.ClassifiedItem {
	return []models.ClassifiedItem{{
		Kind:       models.KindPoll,
		SubjectID:  "asylum_policy",
		ItemID:     pollID,
		RespectID:  taxonomy.RespectSecurityBorder,
		Confidence: confidence,
	}}
}

func TestValidatePoll(t *testing.T) {
	assert.NoError(t, ValidatePoll(validPoll()))

	cases := []struct {
		name   string
		mutate func(*models.RawPollItem)
	}{
		{"no options", func(p *models.RawPollItem) { p.Options = nil; p.Results = nil }},
		{"length mismatch", func(p *models.RawPollItem) { p.Results = []float64{0.58} }},
		{"sum too high", func(p *models.RawPollItem) { p.Results = []float64{0.7, 0.4} }},
		{"sum too low", func(p *models.RawPollItem) { p.Results = []float64{0.5, 0.4} }},
		{"fractional sample size", func(p *models.RawPollItem) { p.SampleSize = 1.5 }},
		{"negative sample size", func(p *models.RawPollItem) { p.SampleSize = -100 }},
		{"bad fieldwork start", func(p *models.RawPollItem) { p.FieldworkStart = "01/08/2026" }},
		{"bad fieldwork end", func(p *models.RawPollItem) { p.FieldworkEnd = "soon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPoll()
			tc.mutate(&p)
			assert.Error(t, ValidatePoll(p))
		})
	}
}

func TestValidatePollToleratesRoundedSums(t *testing.T) {
	p := validPoll()
	p.Results = []float64{0.58, 0.43} // sums to 1.01, inside tolerance
	assert.NoError(t, ValidatePoll(p))
}

func TestValidatePollAllowsMissingSampleSize(t *testing.T) {
	p := validPoll()
	p.SampleSize = 0
	assert.NoError(t, ValidatePoll(p))
}

func TestAggregateMapsOptionsToFramings(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	agg := a.Aggregate("asylum_policy", pollClassified("p1", 1.0), []models.RawPollItem{validPoll()}, 6)

	assert.Equal(t, 1, agg.PollCount)
	assert.Equal(t, 6, agg.WindowMonths)

	require.Len(t, agg.Shares, 2)
	assert.Equal(t, taxonomy.RespectSecurityBorder, agg.Shares[0].RespectID)
	assert.InDelta(t, 0.58, agg.Shares[0].Share, 1e-9)
	assert.Equal(t, taxonomy.RespectHumanitarian, agg.Shares[1].RespectID)
	assert.InDelta(t, 0.42, agg.Shares[1].Share, 1e-9)

	assert.Equal(t, taxonomy.RespectSecurityBorder, agg.PublicPrior.RespectID)
	assert.InDelta(t, 0.58, agg.PublicPrior.Share, 1e-9)
	assert.Equal(t, "58% vs 42%", agg.SplitSummary)
}

func TestAggregateKeepsLiteralOptionPairs(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	agg := a.Aggregate("asylum_policy", pollClassified("p1", 1.0), []models.RawPollItem{validPoll()}, 6)

	require.Len(t, agg.Questions, 1)
	q := agg.Questions[0]
	assert.Equal(t, "p1", q.PollID)
	assert.Equal(t, "YouGov", q.Pollster)
	assert.Equal(t, 2011, q.SampleSize)
	require.Len(t, q.Options, 2)
	assert.Equal(t, "Tougher action to stop the boats", q.Options[0].Label)
	assert.InDelta(t, 0.58, q.Options[0].Share, 1e-9)
	assert.Equal(t, taxonomy.RespectSecurityBorder, q.Options[0].RespectID)
	assert.Equal(t, taxonomy.RespectHumanitarian, q.Options[1].RespectID)
}

func TestAggregateUnmatchedOptionFallsToDefaultFraming(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	poll := validPoll()
	poll.Options = []string{"Support tougher measures", "Oppose"}

	agg := a.Aggregate("asylum_policy", pollClassified("p1", 1.0), []models.RawPollItem{poll}, 6)

	// "Oppose" matches no pattern and lands on the default framing, which here
	// is also the security framing; the whole weight folds into one share.
	require.Len(t, agg.Shares, 1)
	assert.Equal(t, taxonomy.RespectSecurityBorder, agg.PublicPrior.RespectID)
	assert.GreaterOrEqual(t, agg.PublicPrior.Share, 0.58)
}

func TestAggregateExcludesInvalidPolls(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	bad := validPoll()
	bad.ID = "p2"
	bad.Results = []float64{0.8, 0.4}

	agg := a.Aggregate("asylum_policy", pollClassified("p1", 1.0), []models.RawPollItem{validPoll(), bad}, 6)

	assert.Equal(t, 1, agg.PollCount)
	require.Len(t, agg.Questions, 1)
	assert.Equal(t, "p1", agg.Questions[0].PollID)
}

func TestAggregateDenominatorFloorDampensLowConfidence(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	// With confidence 0.5 the cumulative weight is 0.5, below the floor of 1,
	// so shares report absolute confidence-scaled mass rather than
	// renormalizing a thin base to look authoritative.
	agg := a.Aggregate("asylum_policy", pollClassified("p1", 0.5), []models.RawPollItem{validPoll()}, 6)

	require.Len(t, agg.Shares, 2)
	assert.InDelta(t, 0.29, agg.Shares[0].Share, 1e-9)
	assert.InDelta(t, 0.21, agg.Shares[1].Share, 1e-9)
}

func TestAggregateDefaultsMissingQuestionConfidence(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	agg := a.Aggregate("asylum_policy", nil, []models.RawPollItem{validPoll()}, 6)

	require.Len(t, agg.Shares, 2)
	assert.InDelta(t, 0.29, agg.Shares[0].Share, 1e-9)
}

func TestAggregateNoPolls(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	agg := a.Aggregate("asylum_policy", nil, nil, 6)

	assert.Equal(t, 0, agg.PollCount)
	assert.Empty(t, agg.Shares)
	assert.Equal(t, summaryNoPolls, agg.SplitSummary)
	assert.Equal(t, trendInsufficient, agg.TrendSummary)
}

func TestTrendSummaryIsPresenceCheckOnly(t *testing.T) {
	a := NewPollingAggregator(taxonomy.Default(), subjects.Load(), WithPollingClock(aggClock))

	one := a.Aggregate("asylum_policy", nil, []models.RawPollItem{validPoll()}, 6)
	assert.Equal(t, trendInsufficient, one.TrendSummary)

	second := validPoll()
	second.ID = "p2"
	two := a.Aggregate("asylum_policy", nil, []models.RawPollItem{validPoll(), second}, 6)
	assert.Equal(t, trendPresence, two.TrendSummary)
}
