package aggregation

import "github.com/jonreiter/govader"

var toneAnalyzer = govader.NewSentimentIntensityAnalyzer()

// HeadlineTone labels a headline positive/neutral/negative by VADER compound
// score. Purely presentational metadata on exemplars.
func HeadlineTone(text string) string {
	score := toneAnalyzer.PolarityScores(text).Compound
	switch {
	case score >= 0.20:
		return "positive"
	case score <= -0.20:
		return "negative"
	default:
		return "neutral"
	}
}
