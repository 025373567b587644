package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/avelldahl/framewatch/config"
	"github.com/avelldahl/framewatch/internal/aggregation"
	"github.com/avelldahl/framewatch/internal/classifier"
	"github.com/avelldahl/framewatch/internal/clients"
	"github.com/avelldahl/framewatch/internal/dominance"
	"github.com/avelldahl/framewatch/internal/ingest"
	"github.com/avelldahl/framewatch/internal/logging"
	"github.com/avelldahl/framewatch/internal/refresh"
	"github.com/avelldahl/framewatch/internal/storage"
	"github.com/avelldahl/framewatch/internal/subjects"
	"github.com/avelldahl/framewatch/internal/taxonomy"
)

const defaultRefreshTimeout = 5 * time.Minute

func main() {
	subjectID := flag.String("subject", "asylum_policy", "subject id to refresh")
	dataDir := flag.String("data", "data", "storage directory")
	timeout := flag.Duration("timeout", defaultRefreshTimeout, "overall refresh timeout")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	registry := subjects.Load()
	catalog := taxonomy.Default()

	store, err := storage.NewFileStore(*dataDir)
	if err != nil {
		slog.Error("Failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var classifierOpts []classifier.Option
	if clients.HasOpenAICredentials() {
		classifierOpts = append(classifierOpts, classifier.WithOracle(classifier.NewOpenAIOracle(catalog)))
	} else {
		slog.Info("No OpenAI credentials configured, using keyword classification only")
	}

	var ingestOpts []ingest.IngestOption
	if clients.HasValkeyAddress() {
		cache, err := clients.InitValkey()
		if err != nil {
			slog.Warn("Valkey unavailable, continuing without seen-cache", slog.String("error", err.Error()))
		} else {
			defer clients.CloseValkey()
			ingestOpts = append(ingestOpts, ingest.WithSeenCache(cache))
		}
	}

	pipeline := refresh.NewPipeline(refresh.Deps{
		Registry:   registry,
		Catalog:    catalog,
		Classifier: classifier.New(catalog, classifierOpts...),
		Ingestor: ingest.NewIngestor(
			[]ingest.MediaCollector{ingest.NewsFeedCollector{}},
			[]ingest.PollCollector{ingest.PollArchiveCollector{}},
			[]ingest.MetricCollector{ingest.StatsFeedCollector{}},
			ingestOpts...,
		),
		Media:   aggregation.NewMediaAggregator(catalog, registry.OutletCategory),
		Polling: aggregation.NewPollingAggregator(catalog, registry),
		Engine:  dominance.NewEngine(catalog, dominance.DefaultWeights(), registry.InstitutionalContribution),
		Store:   store,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	vm, err := pipeline.Run(ctx, *subjectID)
	if err != nil {
		slog.Error("Refresh failed", slog.String("subject", *subjectID), slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Snapshot published",
		slog.String("subject", vm.SubjectID),
		slog.String("dominant", vm.Dominance.Winner.RespectID),
		slog.Int("actors", len(vm.Actors)),
		slog.Int("sources", len(vm.Sources)))
}
