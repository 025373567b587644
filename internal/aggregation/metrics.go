package aggregation

import (
	"fmt"
	"time"

	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

// Metric movement directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// metricReadingRespects is the fixed set of framings every metric is read
// through.
var metricReadingRespects = []string{
	taxonomy.RespectSecurityBorder,
	taxonomy.RespectHumanitarian,
	taxonomy.RespectCapacityDelivery,
}

// readingTemplates are the interpretive sentences, one per framing and
// direction. They are the only interpretive content a metric carries, so
// the wording is fixed.
var readingTemplates = map[string]map[string]string{
	taxonomy.RespectSecurityBorder: {
		DirectionUp:   "security_border: rising numbers strengthen the case that control has been lost",
		DirectionDown: "security_border: falling numbers are claimed as proof that deterrence works",
		DirectionFlat: "security_border: flat numbers leave the control argument unsettled",
	},
	taxonomy.RespectHumanitarian: {
		DirectionUp:   "humanitarian: rising numbers mean more people in need of protection",
		DirectionDown: "humanitarian: falling numbers may reflect routes closing rather than need falling",
		DirectionFlat: "humanitarian: steady numbers keep protection demand constant",
	},
	taxonomy.RespectCapacityDelivery: {
		DirectionUp:   "capacity_delivery: rising numbers add pressure to an already strained system",
		DirectionDown: "capacity_delivery: falling numbers give the system room to clear its backlog",
		DirectionFlat: "capacity_delivery: flat numbers neither relieve nor worsen system strain",
	},
}

// AggregateMetrics computes deltas and directions and attaches the fixed
// framing readings to each metric.
func AggregateMetrics(subjectID string, metrics []models.RawMetricItem, now func() time.Time) models.RealityMetricsAggregate {
	agg := models.RealityMetricsAggregate{SubjectID: subjectID}

	latestUpdate := ""
	for _, m := range metrics {
		delta := m.Latest - m.Previous
		deltaPct := 0.0
		if m.Previous != 0 {
			deltaPct = delta / m.Previous * 100
		}
		direction := DirectionFlat
		switch {
		case delta > 0:
			direction = DirectionUp
		case delta < 0:
			direction = DirectionDown
		}

		reading := models.MetricReading{
			ID:        m.ID,
			Label:     m.Label,
			Unit:      m.Unit,
			Latest:    m.Latest,
			Previous:  m.Previous,
			Delta:     delta,
			DeltaPct:  deltaPct,
			Direction: direction,
			Period:    m.Period,
			Source:    m.Source,
			Readings:  framingReadings(direction),
		}
		agg.Metrics = append(agg.Metrics, reading)

		// ISO timestamps are zero-padded, so the lexicographic max is the
		// most recent.
		if m.UpdatedAt > latestUpdate {
			latestUpdate = m.UpdatedAt
		}
	}

	if latestUpdate == "" {
		latestUpdate = now().UTC().Format(time.RFC3339)
	}
	agg.UpdatedAt = latestUpdate
	return agg
}

func framingReadings(direction string) []models.FramingReading {
	out := make([]models.FramingReading, 0, len(metricReadingRespects))
	for _, respectID := range metricReadingRespects {
		text := ""
		if byDirection, ok := readingTemplates[respectID]; ok {
			text = byDirection[direction]
		}
		if text == "" {
			text = fmt.Sprintf("%s: metric %s", respectID, direction)
		}
		out = append(out, models.FramingReading{RespectID: respectID, Text: text})
	}
	return out
}
