package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/avelldahl/framewatch/internal/models"
)

const statsFeedEndpointEnv = "STATSFEED_URL"

var (
	statsFeedInstance *StatsFeedClient
	statsFeedOnce     sync.Once
)

// StatsFeedClient fetches official statistics readings for a subject.
type StatsFeedClient struct {
	Client   *http.Client
	Endpoint string
}

type statsFeedResponse struct {
	Metrics []models.RawMetricItem `json:"metrics"`
}

func GetStatsFeedClient() *StatsFeedClient {
	statsFeedOnce.Do(func() {
		statsFeedInstance = &StatsFeedClient{
			Client:   &http.Client{},
			Endpoint: os.Getenv(statsFeedEndpointEnv),
		}
	})
	return statsFeedInstance
}

func (s *StatsFeedClient) FetchMetrics(ctx context.Context, subjectID string) ([]models.RawMetricItem, error) {
	if s.Endpoint == "" {
		return nil, fmt.Errorf("[StatsFeedClient] stats endpoint is not configured")
	}

	parsed, err := url.Parse(s.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("[StatsFeedClient] bad endpoint: %w", err)
	}
	q := parsed.Query()
	q.Set("subject", subjectID)
	parsed.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[StatsFeedClient] request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[StatsFeedClient] unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("[StatsFeedClient] failed to read response body: %w", err)
	}
	var response statsFeedResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("[StatsFeedClient] failed to parse JSON response: %w", err)
	}
	return response.Metrics, nil
}
