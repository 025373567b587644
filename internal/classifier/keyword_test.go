package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

var testClock = func() time.Time {
	return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
}

func TestClassifyMediaKeywordPath(t *testing.T) {
	c := New(taxonomy.Default(), WithClock(testClock))

	got := c.ClassifyMedia("asylum_policy", models.RawMediaItem{
		ID:    "m1",
		Title: "Minister orders crackdown to deter small boat crossings",
	})

	assert.Equal(t, models.KindMedia, got.Kind)
	assert.Equal(t, "m1", got.ItemID)
	assert.Equal(t, taxonomy.RespectSecurityBorder, got.RespectID)
	assert.GreaterOrEqual(t, got.Confidence, MinConfidence)
	assert.LessOrEqual(t, got.Confidence, MaxConfidence)
	assert.NotEmpty(t, got.MatchedPhrases)
	assert.Equal(t, testClock(), got.ClassifiedAt)
}

func TestClassifyMediaUsesLede(t *testing.T) {
	c := New(taxonomy.Default(), WithClock(testClock))

	got := c.ClassifyMedia("asylum_policy", models.RawMediaItem{
		ID:    "m2",
		Title: "A quiet week in Westminster",
		Lede:  "Charities say refugee families deserve dignity and protection.",
	})

	assert.Equal(t, taxonomy.RespectHumanitarian, got.RespectID)
}

func TestClassifyMediaPreLabelBypassesScoring(t *testing.T) {
	c := New(taxonomy.Default(), WithClock(testClock))

	got := c.ClassifyMedia("asylum_policy", models.RawMediaItem{
		ID:        "m3",
		Title:     "Courts block removal flights",
		RespectID: taxonomy.RespectEconomicLabour,
	})

	assert.Equal(t, taxonomy.RespectEconomicLabour, got.RespectID)
	assert.Equal(t, 0.9, got.Confidence)
	assert.Equal(t, []string{"pre-labelled"}, got.Rationale)
}

func TestClassifyMediaIgnoresUnknownPreLabel(t *testing.T) {
	c := New(taxonomy.Default(), WithClock(testClock))

	got := c.ClassifyMedia("asylum_policy", models.RawMediaItem{
		ID:        "m4",
		Title:     "Backlog of claims keeps growing",
		RespectID: "not_in_catalog",
	})

	assert.Equal(t, taxonomy.RespectCapacityDelivery, got.RespectID)
	assert.NotEqual(t, []string{"pre-labelled"}, got.Rationale)
}

func TestClassifyMediaNoMatchFallsBack(t *testing.T) {
	c := New(taxonomy.Default(), WithClock(testClock))

	got := c.ClassifyMedia("asylum_policy", models.RawMediaItem{
		ID:    "m5",
		Title: "Zebra wins village fete",
	})

	assert.Equal(t, taxonomy.DefaultMediaRespect, got.RespectID)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, []string{"no match"}, got.Rationale)
}

func TestClassifyMetricNoMatchFallsBackToCapacity(t *testing.T) {
	c := New(taxonomy.Default(), WithClock(testClock))

	got := c.ClassifyMetric("asylum_policy", models.RawMetricItem{
		ID:    "x1",
		Label: "Quarterly figure",
	})

	assert.Equal(t, models.KindMetric, got.Kind)
	assert.Equal(t, taxonomy.DefaultMetricRespect, got.RespectID)
	assert.Equal(t, 0.5, got.Confidence)
}

func TestClassifyPollScoresQuestionAndOptionsTogether(t *testing.T) {
	c := New(taxonomy.Default(), WithClock(testClock))

	got := c.ClassifyPoll("asylum_policy", models.RawPollItem{
		ID:       "p1",
		Question: "What should the government prioritise?",
		Options:  []string{"Tougher enforcement at the border", "Safe routes for refugees"},
	})

	assert.Equal(t, models.KindPoll, got.Kind)
	assert.Equal(t, "p1", got.ItemID)
	assert.True(t, taxonomy.Default().Contains(got.RespectID))
}

func TestKeywordConfidenceBounds(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{0.5, MinConfidence}, // 0.5/3 clamps up to the floor
		{1.5, 0.5},           // 1.5/3
		{2.5, 2.5 / 3.0},     // below the denominator knee
		{3, MaxConfidence},   // 3/3 clamps down to the ceiling
		{10, MaxConfidence},  // score/score clamps down too
	}
	for _, tc := range cases {
		got := keywordConfidence(tc.score)
		assert.InDelta(t, tc.want, got, 1e-9, "score %.1f", tc.score)
		require.GreaterOrEqual(t, got, MinConfidence)
		require.LessOrEqual(t, got, MaxConfidence)
	}
}

func TestDefaultRespectPerKind(t *testing.T) {
	assert.Equal(t, taxonomy.DefaultMediaRespect, DefaultRespect(models.KindMedia))
	assert.Equal(t, taxonomy.DefaultMediaRespect, DefaultRespect(models.KindPoll))
	assert.Equal(t, taxonomy.DefaultMetricRespect, DefaultRespect(models.KindMetric))
}
