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

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/avelldahl/framewatch/internal/models"
)

const (
	pollArchiveAPIEnv    = "POLL_ARCHIVE_URL"
	pollArchiveAuthEnv   = "POLL_ARCHIVE_TOKEN_URL"
	pollArchiveIDEnv     = "POLL_ARCHIVE_CLIENT_ID"
	pollArchiveSecretEnv = "POLL_ARCHIVE_CLIENT_SECRET"
)

var (
	pollArchiveInstance *PollArchiveClient
	pollArchiveOnce     sync.Once
)

// PollArchiveClient fetches published poll records for a subject from the
// poll archive API using client-credentials auth.
type PollArchiveClient struct {
	Config   *clientcredentials.Config
	Client   *http.Client
	Endpoint string
	mu       sync.Mutex
}

type pollArchiveResponse struct {
	Polls []models.RawPollItem `json:"polls"`
}

func GetPollArchiveClient() *PollArchiveClient {
	pollArchiveOnce.Do(func() {
		conf := &clientcredentials.Config{
			ClientID:     os.Getenv(pollArchiveIDEnv),
			ClientSecret: os.Getenv(pollArchiveSecretEnv),
			TokenURL:     os.Getenv(pollArchiveAuthEnv),
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		pollArchiveInstance = &PollArchiveClient{
			Config:   conf,
			Client:   conf.Client(context.Background()),
			Endpoint: os.Getenv(pollArchiveAPIEnv),
		}
	})
	return pollArchiveInstance
}

// RefreshClient rebuilds the underlying HTTP client after token invalidation.
func (pc *PollArchiveClient) RefreshClient() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.Client = pc.Config.Client(context.Background())
}

// FetchPolls pulls poll records in the fieldwork window for a subject.
func (pc *PollArchiveClient) FetchPolls(ctx context.Context, subjectID string, windowMonths int) ([]models.RawPollItem, error) {
	if pc.Endpoint == "" {
		return nil, fmt.Errorf("[PollArchiveClient] archive endpoint is not configured")
	}

	parsed, err := url.Parse(pc.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("[PollArchiveClient] bad endpoint: %w", err)
	}
	q := parsed.Query()
	q.Set("subject", subjectID)
	q.Set("window_months", fmt.Sprintf("%d", windowMonths))
	parsed.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	res, err := pc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[PollArchiveClient] request failed: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("[PollArchiveClient] failed to read response body: %w", err)
		}
		var response pollArchiveResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("[PollArchiveClient] failed to parse JSON response: %w", err)
		}
		return response.Polls, nil
	case http.StatusUnauthorized:
		pc.RefreshClient()
		return nil, fmt.Errorf("[PollArchiveClient] token rejected, client refreshed")
	default:
		return nil, fmt.Errorf("[PollArchiveClient] unexpected status %d", res.StatusCode)
	}
}
