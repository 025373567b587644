package classifier

import (
	"context"
	"log/slog"

	"github.com/avelldahl/framewatch/internal/models"
)

// OracleInput is one item offered to the external oracle for classification.
type OracleInput struct {
	Index int             `json:"index"`
	Kind  models.ItemKind `json:"kind"`
	Text  string          `json:"text"`
}

// OracleAssignment is the oracle's verdict for one input index.
type OracleAssignment struct {
	Index      int     `json:"index"`
	RespectID  string  `json:"respect_id"`
	Confidence float64 `json:"confidence"`
}

// Oracle classifies a whole batch in one call. Implementations are treated
// as flaky remote dependencies: any error makes the caller fall back to the
// keyword path for the entire batch.
type Oracle interface {
	ClassifyBatch(ctx context.Context, subjectID string, inputs []OracleInput) ([]OracleAssignment, error)
}

type oracleEntry struct {
	index  int
	itemID string
	text   string
}

// ClassifyMediaBatch classifies a merged headline set. Pre-labelled items
// never reach the oracle. Oracle failure degrades to the keyword path;
// classification never hard-fails the refresh.
func (c *Classifier) ClassifyMediaBatch(ctx context.Context, subjectID string, items []models.RawMediaItem) []models.ClassifiedItem {
	out := make([]models.ClassifiedItem, len(items))
	preLabelled := make([]bool, len(items))
	for i, item := range items {
		if item.RespectID != "" && c.catalog.Contains(item.RespectID) {
			out[i] = c.ClassifyMedia(subjectID, item)
			preLabelled[i] = true
		}
	}

	var entries []oracleEntry
	for i, item := range items {
		if !preLabelled[i] {
			entries = append(entries, oracleEntry{index: i, itemID: item.ID, text: mediaText(item)})
		}
	}
	c.classifyEntries(ctx, subjectID, models.KindMedia, entries, out)
	return out
}

// ClassifyPollBatch classifies polls at question level through the same
// oracle-or-keyword path as media.
func (c *Classifier) ClassifyPollBatch(ctx context.Context, subjectID string, polls []models.RawPollItem) []models.ClassifiedItem {
	out := make([]models.ClassifiedItem, len(polls))
	entries := make([]oracleEntry, len(polls))
	for i, poll := range polls {
		entries[i] = oracleEntry{index: i, itemID: poll.ID, text: pollText(poll)}
	}
	c.classifyEntries(ctx, subjectID, models.KindPoll, entries, out)
	return out
}

// ClassifyMetricBatch classifies metric readings by label and period.
func (c *Classifier) ClassifyMetricBatch(ctx context.Context, subjectID string, metrics []models.RawMetricItem) []models.ClassifiedItem {
	out := make([]models.ClassifiedItem, len(metrics))
	entries := make([]oracleEntry, len(metrics))
	for i, metric := range metrics {
		entries[i] = oracleEntry{index: i, itemID: metric.ID, text: metricText(metric)}
	}
	c.classifyEntries(ctx, subjectID, models.KindMetric, entries, out)
	return out
}

// classifyEntries fills out[entry.index] for every entry, via the oracle when
// one is configured and via keywords otherwise. Any oracle failure degrades
// the whole batch to the keyword path.
func (c *Classifier) classifyEntries(ctx context.Context, subjectID string, kind models.ItemKind, entries []oracleEntry, out []models.ClassifiedItem) {
	if len(entries) == 0 {
		return
	}

	if c.oracle == nil {
		for _, e := range entries {
			out[e.index] = c.classifyText(kind, subjectID, e.itemID, e.text)
		}
		return
	}

	inputs := make([]OracleInput, len(entries))
	for i, e := range entries {
		inputs[i] = OracleInput{Index: e.index, Kind: kind, Text: e.text}
	}

	assignments, err := c.oracle.ClassifyBatch(ctx, subjectID, inputs)
	if err != nil {
		slog.Warn("[Classifier] Oracle batch failed, falling back to keyword path",
			slog.String("kind", string(kind)),
			slog.Int("batch_size", len(entries)),
			slog.String("error", err.Error()))
		for _, e := range entries {
			out[e.index] = c.classifyText(kind, subjectID, e.itemID, e.text)
		}
		return
	}

	byIndex := make(map[int]OracleAssignment, len(assignments))
	for _, a := range assignments {
		byIndex[a.Index] = a
	}

	for _, e := range entries {
		a, ok := byIndex[e.index]
		if !ok || !c.catalog.Contains(a.RespectID) {
			out[e.index] = models.ClassifiedItem{
				Kind:         kind,
				SubjectID:    subjectID,
				ItemID:       e.itemID,
				RespectID:    DefaultRespect(kind),
				Confidence:   noMatchConfidence,
				Rationale:    []string{"oracle: missing or invalid assignment"},
				ClassifiedAt: c.now(),
			}
			continue
		}
		conf := a.Confidence
		if conf <= 0 || conf > 1 {
			conf = noMatchConfidence
		}
		out[e.index] = models.ClassifiedItem{
			Kind:         kind,
			SubjectID:    subjectID,
			ItemID:       e.itemID,
			RespectID:    a.RespectID,
			Confidence:   conf,
			Rationale:    []string{"oracle"},
			ClassifiedAt: c.now(),
		}
	}
}
