package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avelldahl/framewatch/internal/models"
)

const collectorTimeout = 20 * time.Second

// Source kinds reported by ingestion. The kind is an explicit return value,
// threaded into the media aggregator call; nothing infers it from ambient
// state.
const (
	SourceKindLive    = "live"
	SourceKindCurated = "curated"
)

// MediaCollector fetches headlines from one upstream source.
type MediaCollector interface {
	Name() string
	CollectMedia(ctx context.Context, subjectID string, windowDays int) ([]models.RawMediaItem, error)
}

// PollCollector fetches poll records.
type PollCollector interface {
	Name() string
	CollectPolls(ctx context.Context, subjectID string, windowMonths int) ([]models.RawPollItem, error)
}

// MetricCollector fetches official statistics.
type MetricCollector interface {
	Name() string
	CollectMetrics(ctx context.Context, subjectID string) ([]models.RawMetricItem, error)
}

// SeenCache is the optional cross-run dedup cache. Implementations must
// treat errors as "not seen" so a flaky cache never drops items.
type SeenCache interface {
	IsSeen(ctx context.Context, key string) bool
	MarkSeen(ctx context.Context, key string) error
}

// MediaBatch is the joined media ingestion result.
type MediaBatch struct {
	Items      []models.RawMediaItem
	SourceKind string
}

// Ingestor fans out to collectors and joins their results. Each fetch runs
// with its own timeout; a failed or timed-out fetch yields zero items for
// that source and never aborts the refresh.
type Ingestor struct {
	mediaCollectors  []MediaCollector
	pollCollectors   []PollCollector
	metricCollectors []MetricCollector
	seenCache        SeenCache
}

func NewIngestor(media []MediaCollector, polls []PollCollector, metrics []MetricCollector, opts ...IngestOption) *Ingestor {
	ing := &Ingestor{mediaCollectors: media, pollCollectors: polls, metricCollectors: metrics}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

type IngestOption func(*Ingestor)

// WithSeenCache enables the cross-run seen-item cache for media collection.
func WithSeenCache(cache SeenCache) IngestOption {
	return func(i *Ingestor) { i.seenCache = cache }
}

// CollectMedia fetches all media sources in parallel, joins them in
// collector registration order, filters cache-seen items and merges the
// curated set first so manual overrides win dedup.
func (i *Ingestor) CollectMedia(ctx context.Context, subjectID string, curated []models.RawMediaItem, windowDays int) MediaBatch {
	results := make([][]models.RawMediaItem, len(i.mediaCollectors))

	var wg sync.WaitGroup
	for idx, collector := range i.mediaCollectors {
		wg.Add(1)
		go func(idx int, collector MediaCollector) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, collectorTimeout)
			defer cancel()

			items, err := collector.CollectMedia(fetchCtx, subjectID, windowDays)
			if err != nil {
				slog.Warn("[Ingestor] Media collector failed, continuing without it",
					slog.String("collector", collector.Name()),
					slog.String("error", err.Error()))
				return
			}
			results[idx] = items
		}(idx, collector)
	}
	wg.Wait()

	// Join in registration order so dedup's first-seen rule is
	// deterministic regardless of fetch completion order.
	var collected []models.RawMediaItem
	for _, items := range results {
		collected = append(collected, items...)
	}

	if i.seenCache != nil {
		collected = i.filterSeen(ctx, collected)
	}

	merged := MergeMedia(curated, collected)

	kind := SourceKindCurated
	if len(collected) > 0 {
		kind = SourceKindLive
	}
	slog.Info("[Ingestor] Media collection complete",
		slog.String("subject", subjectID),
		slog.Int("curated", len(curated)),
		slog.Int("collected", len(collected)),
		slog.Int("merged", len(merged)),
		slog.String("source_kind", kind))
	return MediaBatch{Items: merged, SourceKind: kind}
}

func (i *Ingestor) filterSeen(ctx context.Context, items []models.RawMediaItem) []models.RawMediaItem {
	var fresh []models.RawMediaItem
	for _, item := range items {
		key := DedupKey(item)
		if i.seenCache.IsSeen(ctx, key) {
			slog.Debug("[Ingestor] Skipping cache-seen headline", slog.String("item_id", item.ID))
			continue
		}
		if err := i.seenCache.MarkSeen(ctx, key); err != nil {
			slog.Warn("[Ingestor] Failed to mark headline seen",
				slog.String("item_id", item.ID),
				slog.String("error", err.Error()))
		}
		fresh = append(fresh, item)
	}
	return fresh
}

// CollectPolls fetches all poll sources in parallel and joins them.
func (i *Ingestor) CollectPolls(ctx context.Context, subjectID string, windowMonths int) []models.RawPollItem {
	results := make([][]models.RawPollItem, len(i.pollCollectors))

	var wg sync.WaitGroup
	for idx, collector := range i.pollCollectors {
		wg.Add(1)
		go func(idx int, collector PollCollector) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, collectorTimeout)
			defer cancel()

			polls, err := collector.CollectPolls(fetchCtx, subjectID, windowMonths)
			if err != nil {
				slog.Warn("[Ingestor] Poll collector failed, continuing without it",
					slog.String("collector", collector.Name()),
					slog.String("error", err.Error()))
				return
			}
			results[idx] = polls
		}(idx, collector)
	}
	wg.Wait()

	var joined []models.RawPollItem
	for _, polls := range results {
		joined = append(joined, polls...)
	}
	return joined
}

// CollectMetrics fetches all metric sources in parallel and joins them.
func (i *Ingestor) CollectMetrics(ctx context.Context, subjectID string) []models.RawMetricItem {
	results := make([][]models.RawMetricItem, len(i.metricCollectors))

	var wg sync.WaitGroup
	for idx, collector := range i.metricCollectors {
		wg.Add(1)
		go func(idx int, collector MetricCollector) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, collectorTimeout)
			defer cancel()

			metrics, err := collector.CollectMetrics(fetchCtx, subjectID)
			if err != nil {
				slog.Warn("[Ingestor] Metric collector failed, continuing without it",
					slog.String("collector", collector.Name()),
					slog.String("error", err.Error()))
				return
			}
			results[idx] = metrics
		}(idx, collector)
	}
	wg.Wait()

	var joined []models.RawMetricItem
	for _, metrics := range results {
		joined = append(joined, metrics...)
	}
	return joined
}
