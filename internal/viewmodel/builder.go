package viewmodel

import (
	"github.com/avelldahl/framewatch/internal/models"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

// Builder joins the dominance snapshot, the three aggregates and actor
// stances into the published view model. It performs no I/O; everything is
// a pure merge over its inputs.
type Builder struct {
	catalog *taxonomy.Catalog
	// actorRespectMap translates the actor-stance subsystem's framing
	// vocabulary into catalog ids. The two vocabularies evolve
	// independently, so the translation is data.
	actorRespectMap map[string]string
}

func NewBuilder(catalog *taxonomy.Catalog, actorRespectMap map[string]string) *Builder {
	return &Builder{catalog: catalog, actorRespectMap: actorRespectMap}
}

// Build produces the snapshot artifact for one refresh. The source registry
// is copied and augmented with newly referenced citations; existing entries
// are never mutated or removed.
func (b *Builder) Build(
	subjectID, title string,
	stances []models.ActorStance,
	media models.MediaFramingAggregate,
	public models.PublicPollingAggregate,
	reality models.RealityMetricsAggregate,
	dom models.DominanceSnapshot,
	sources map[string]models.SourceCitation,
) models.SubjectViewModel {
	registry := make(map[string]models.SourceCitation, len(sources))
	for id, c := range sources {
		registry[id] = c
	}

	vm := models.SubjectViewModel{
		SubjectID: subjectID,
		Title:     title,
		AsOf:      dom.AsOf,
		Dominance: dom,
		Media:     media,
		Polling:   public,
		Reality:   reality,
		Sources:   registry,
	}

	realityRespects := topRealityRespects(reality)

	for _, stance := range stances {
		primary := b.translate(stance.Primary.RespectID)
		card := models.ActorCard{
			ActorID:  stance.ActorID,
			Primary:  models.RespectClaim{RespectID: primary, Confidence: stance.Primary.Confidence},
			Status:   stance.Status,
			Evidence: stance.Evidence,
		}
		if stance.Secondary != nil {
			card.Secondary = &models.RespectClaim{
				RespectID:  b.translate(stance.Secondary.RespectID),
				Confidence: stance.Secondary.Confidence,
			}
		}

		// RelationReframes stays reserved: current logic only ever emits
		// matches or challenges.
		card.RelationToDominant = models.RelationChallenges
		if primary != "" && primary == dom.Winner.RespectID {
			card.RelationToDominant = models.RelationMatches
		}

		card.FitPublic = fit(primary == public.PublicPrior.RespectID && primary != "")
		card.FitMedia = fit(primary == media.Dominant && primary != "")
		card.FitReality = fit(primary != "" && realityRespects[primary])

		vm.Actors = append(vm.Actors, card)
	}

	b.augmentSources(&vm)
	return vm
}

// translate maps an actor-vocabulary framing id into the catalog. Ids that
// already are catalog ids pass through; anything else resolves to empty and
// reads as a non-match everywhere.
func (b *Builder) translate(actorRespectID string) string {
	if mapped, ok := b.actorRespectMap[actorRespectID]; ok {
		return mapped
	}
	if b.catalog.Contains(actorRespectID) {
		return actorRespectID
	}
	return ""
}

func fit(ok bool) string {
	if ok {
		return models.FitOK
	}
	return models.FitWarn
}

// topRealityRespects collects the framings referenced by the top two
// metrics' readings.
func topRealityRespects(reality models.RealityMetricsAggregate) map[string]bool {
	out := make(map[string]bool)
	metrics := reality.Metrics
	if len(metrics) > 2 {
		metrics = metrics[:2]
	}
	for _, m := range metrics {
		for _, r := range m.Readings {
			out[r.RespectID] = true
		}
	}
	return out
}

// augmentSources adds citations for every item the view model references
// that the registry does not know yet.
func (b *Builder) augmentSources(vm *models.SubjectViewModel) {
	for _, e := range vm.Media.Exemplars {
		if _, ok := vm.Sources[e.ItemID]; ok {
			continue
		}
		vm.Sources[e.ItemID] = models.SourceCitation{
			Title:       e.Title,
			Publisher:   e.Outlet,
			URL:         e.URL,
			RetrievedAt: vm.AsOf,
			Role:        "media",
		}
	}
	for _, q := range vm.Polling.Questions {
		if _, ok := vm.Sources[q.PollID]; ok {
			continue
		}
		vm.Sources[q.PollID] = models.SourceCitation{
			Title:       q.Question,
			Publisher:   q.Pollster,
			URL:         q.URL,
			RetrievedAt: vm.AsOf,
			Role:        "polling",
		}
	}
	for _, m := range vm.Reality.Metrics {
		if _, ok := vm.Sources[m.ID]; ok {
			continue
		}
		vm.Sources[m.ID] = models.SourceCitation{
			Title:       m.Label,
			Publisher:   m.Source,
			RetrievedAt: vm.AsOf,
			Role:        "reality",
		}
	}
}
