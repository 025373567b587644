package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelldahl/framewatch/internal/aggregation"
	"github.com/avelldahl/framewatch/internal/classifier"
	"github.com/avelldahl/framewatch/internal/dominance"
	"github.com/avelldahl/framewatch/internal/ingest"
	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/storage"
	"github.com/avelldahl/framewatch/internal/subjects"
	"github.com/avelldahl/framewatch/internal/taxonomy"
	"github.com/avelldahl/framewatch/internal/viewmodel"
)

// ErrStorage marks the one infrastructure condition that fails a refresh.
var ErrStorage = errors.New("storage failure")

const (
	// LiveWindowDays is the media aggregation window when live collectors
	// supplied headlines; CuratedWindowDays widens the window when the run
	// had to fall back to stored curated items only.
	LiveWindowDays    = 14
	CuratedWindowDays = 30

	pollWindowMonths = 6
)

// Deps wires the pipeline's collaborators.
type Deps struct {
	Registry   *subjects.Registry
	Catalog    *taxonomy.Catalog
	Classifier *classifier.Classifier
	Ingestor   *ingest.Ingestor
	Media      *aggregation.MediaAggregator
	Polling    *aggregation.PollingAggregator
	Engine     *dominance.Engine
	Store      storage.Store
}

// Pipeline runs one refresh end to end: ingest, classify, aggregate, vote,
// build, persist. Single subject, strictly sequential; only the source
// fetches inside ingestion run concurrently.
type Pipeline struct {
	deps Deps
	now  func() time.Time
}

func NewPipeline(deps Deps) *Pipeline {
	return &Pipeline{deps: deps, now: time.Now}
}

// Run refreshes one subject. Partial source degradation is normal behavior;
// the only fatal conditions are an unknown subject and storage failure.
func (p *Pipeline) Run(ctx context.Context, subjectID string) (*models.SubjectViewModel, error) {
	start := p.now()
	slog.Info("[Refresh] Starting refresh", slog.String("subject", subjectID))

	subject, err := p.deps.Registry.Lookup(subjectID)
	if err != nil {
		return nil, err
	}

	curated, err := p.loadCuratedMedia(subjectID)
	if err != nil {
		return nil, err
	}

	batch := p.deps.Ingestor.CollectMedia(ctx, subjectID, curated, LiveWindowDays)
	windowDays := LiveWindowDays
	if batch.SourceKind == ingest.SourceKindCurated {
		windowDays = CuratedWindowDays
	}

	polls := p.deps.Ingestor.CollectPolls(ctx, subjectID, pollWindowMonths)
	metrics := p.deps.Ingestor.CollectMetrics(ctx, subjectID)

	classified := p.deps.Classifier.ClassifyMediaBatch(ctx, subjectID, batch.Items)
	classified = append(classified, p.deps.Classifier.ClassifyPollBatch(ctx, subjectID, polls)...)
	classified = append(classified, p.deps.Classifier.ClassifyMetricBatch(ctx, subjectID, metrics)...)

	mediaAgg := p.deps.Media.Aggregate(subjectID, classified, batch.Items, windowDays, batch.SourceKind)
	pollAgg := p.deps.Polling.Aggregate(subjectID, classified, polls, pollWindowMonths)
	realityAgg := aggregation.AggregateMetrics(subjectID, metrics, p.now)

	snapshot := p.deps.Engine.Compute(subjectID, mediaAgg, pollAgg)

	stances, err := p.loadActorStances(subjectID)
	if err != nil {
		return nil, err
	}

	builder := viewmodel.NewBuilder(p.deps.Catalog, subject.ActorRespectMap)
	vm := builder.Build(subjectID, subject.Title, stances, mediaAgg, pollAgg, realityAgg, snapshot, seedSources(subject, start))

	if _, err := p.deps.Store.Append(storage.KindDominance, subjectID, snapshot); err != nil {
		return nil, fmt.Errorf("%w: append dominance snapshot: %v", ErrStorage, err)
	}
	if _, err := p.deps.Store.Append(storage.KindViewModel, subjectID, vm); err != nil {
		return nil, fmt.Errorf("%w: append view model: %v", ErrStorage, err)
	}

	slog.Info("[Refresh] Refresh complete",
		slog.String("subject", subjectID),
		slog.String("dominant", snapshot.Winner.RespectID),
		slog.Bool("split_dominance", snapshot.SplitDominance),
		slog.Int("media_items", len(batch.Items)),
		slog.Int("polls", len(polls)),
		slog.Int("metrics", len(metrics)),
		slog.Duration("duration", p.now().Sub(start)))
	return &vm, nil
}

// loadCuratedMedia reads manually curated headlines from storage. Decode
// failures on individual records are skipped; an unreadable store is fatal.
func (p *Pipeline) loadCuratedMedia(subjectID string) ([]models.RawMediaItem, error) {
	payloads, err := p.deps.Store.GetAll(storage.KindCuratedMedia, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: read curated media: %v", ErrStorage, err)
	}
	var items []models.RawMediaItem
	for _, raw := range payloads {
		var item models.RawMediaItem
		if err := json.Unmarshal(raw, &item); err != nil {
			slog.Warn("[Refresh] Skipping corrupt curated media record",
				slog.String("subject", subjectID),
				slog.String("error", err.Error()))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// loadActorStances reads the stance records, keeping the latest record per
// actor (records are append-only, later entries supersede earlier ones).
func (p *Pipeline) loadActorStances(subjectID string) ([]models.ActorStance, error) {
	payloads, err := p.deps.Store.GetAll(storage.KindActorStance, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: read actor stances: %v", ErrStorage, err)
	}

	latest := make(map[string]models.ActorStance)
	var order []string
	for _, raw := range payloads {
		var stance models.ActorStance
		if err := json.Unmarshal(raw, &stance); err != nil {
			slog.Warn("[Refresh] Skipping corrupt actor stance record",
				slog.String("subject", subjectID),
				slog.String("error", err.Error()))
			continue
		}
		if _, ok := latest[stance.ActorID]; !ok {
			order = append(order, stance.ActorID)
		}
		latest[stance.ActorID] = stance
	}

	stances := make([]models.ActorStance, 0, len(latest))
	for _, actorID := range order {
		stances = append(stances, latest[actorID])
	}
	return stances, nil
}

func seedSources(subject subjects.Subject, asOf time.Time) map[string]models.SourceCitation {
	sources := make(map[string]models.SourceCitation, len(subject.Sources))
	for id, seed := range subject.Sources {
		sources[id] = models.SourceCitation{
			Title:       seed.Title,
			Publisher:   seed.Publisher,
			URL:         seed.URL,
			RetrievedAt: asOf,
			Role:        seed.Role,
		}
	}
	return sources
}
