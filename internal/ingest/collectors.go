package ingest

import (
	"context"

	"github.com/avelldahl/framewatch/internal/clients"
	"github.com/avelldahl/framewatch/internal/models"
)

// NewsFeedCollector adapts the news feed client to the collector contract.
type NewsFeedCollector struct{}

func (NewsFeedCollector) Name() string { return "newsfeed" }

func (NewsFeedCollector) CollectMedia(ctx context.Context, subjectID string, windowDays int) ([]models.RawMediaItem, error) {
	return clients.GetNewsFeedClient().FetchHeadlines(ctx, subjectID, windowDays)
}

// PollArchiveCollector adapts the poll archive client.
type PollArchiveCollector struct{}

func (PollArchiveCollector) Name() string { return "pollarchive" }

func (PollArchiveCollector) CollectPolls(ctx context.Context, subjectID string, windowMonths int) ([]models.RawPollItem, error) {
	return clients.GetPollArchiveClient().FetchPolls(ctx, subjectID, windowMonths)
}

// StatsFeedCollector adapts the official statistics client.
type StatsFeedCollector struct{}

func (StatsFeedCollector) Name() string { return "statsfeed" }

func (StatsFeedCollector) CollectMetrics(ctx context.Context, subjectID string) ([]models.RawMetricItem, error) {
	return clients.GetStatsFeedClient().FetchMetrics(ctx, subjectID)
}
