package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/avelldahl/framewatch/internal/models"
)

const (
	newsFeedEndpointEnv = "NEWSFEED_URL"
	newsFeedAPIKeyEnv   = "NEWSFEED_API_KEY"
)

var (
	newsFeedInstance *NewsFeedClient
	newsFeedOnce     sync.Once
)

// NewsFeedClient fetches subject headlines from the configured feed API.
type NewsFeedClient struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
}

type newsFeedResponse struct {
	Status string                `json:"status"`
	Items  []models.RawMediaItem `json:"items"`
}

func GetNewsFeedClient() *NewsFeedClient {
	newsFeedOnce.Do(func() {
		newsFeedInstance = &NewsFeedClient{
			Client:   &http.Client{},
			Endpoint: os.Getenv(newsFeedEndpointEnv),
			APIKey:   os.Getenv(newsFeedAPIKeyEnv),
		}
	})
	return newsFeedInstance
}

// FetchHeadlines pulls recent headlines for a subject, retrying transient
// failures with exponential backoff.
func (n *NewsFeedClient) FetchHeadlines(ctx context.Context, subjectID string, windowDays int) ([]models.RawMediaItem, error) {
	if n.Endpoint == "" {
		return nil, errors.New("[NewsFeedClient] feed endpoint is not configured")
	}

	parsed, err := url.Parse(n.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("[NewsFeedClient] bad endpoint: %w", err)
	}
	q := parsed.Query()
	q.Set("subject", subjectID)
	q.Set("window_days", fmt.Sprintf("%d", windowDays))
	parsed.RawQuery = q.Encode()

	var lastErr error
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		slog.Info("[NewsFeedClient] Fetching headlines",
			slog.String("subject", subjectID),
			slog.Int("attempt", attempt))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", USER_AGENT)
		if n.APIKey != "" {
			req.Header.Set("X-Api-Key", n.APIKey)
		}

		res, err := n.Client.Do(req)
		if err != nil {
			slog.Warn("[NewsFeedClient] Request failed",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt))
			lastErr = err
		} else {
			body, readErr := io.ReadAll(res.Body)
			res.Body.Close()
			if readErr != nil {
				return nil, fmt.Errorf("[NewsFeedClient] failed to read response body: %w", readErr)
			}

			switch res.StatusCode {
			case http.StatusOK:
				var response newsFeedResponse
				if err := json.Unmarshal(body, &response); err != nil {
					return nil, fmt.Errorf("[NewsFeedClient] failed to parse JSON response: %w", err)
				}
				slog.Info("[NewsFeedClient] Successfully fetched headlines",
					slog.Int("count", len(response.Items)))
				return response.Items, nil
			case http.StatusTooManyRequests, http.StatusInternalServerError,
				http.StatusBadGateway, http.StatusServiceUnavailable:
				slog.Warn("[NewsFeedClient] Transient upstream error, retrying...",
					slog.Int("status", res.StatusCode),
					slog.Duration("backoff", backoff))
				lastErr = fmt.Errorf("[NewsFeedClient] upstream status %d", res.StatusCode)
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, fmt.Errorf("[NewsFeedClient] rejected credentials (status %d)", res.StatusCode)
			default:
				return nil, fmt.Errorf("[NewsFeedClient] unexpected status %d", res.StatusCode)
			}
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}
	return nil, fmt.Errorf("[NewsFeedClient] failed after %d attempts: %w", MAX_RETRIES, lastErr)
}
