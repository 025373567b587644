package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient is the optional cross-run seen-item cache. When no
// VALKEY_INIT_ADDRESS is configured the pipeline runs without it; the in-run
// composite-key dedup never depends on this cache.
type ValkeyClient struct {
	Client valkey.Client
}

const (
	valkeySeenHeadlinesKey = "framewatch:seen_headlines"
	valkeySeenTTLSeconds   = 86400
)

// HasValkeyAddress reports whether the seen-cache is configured.
func HasValkeyAddress() bool {
	return os.Getenv("VALKEY_INIT_ADDRESS") != ""
}

func InitValkey() (*ValkeyClient, error) {
	var initErr error
	valkeyOnce.Do(func() {
		opts := valkey.ClientOption{
			InitAddress:      []string{os.Getenv("VALKEY_INIT_ADDRESS")},
			Password:         os.Getenv("VALKEY_PASSWORD"),
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}
		if os.Getenv("VALKEY_TLS") == "true" {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
		}

		client, err := valkey.NewClient(opts)
		if err != nil {
			initErr = fmt.Errorf("[ValkeyClient] failed to create Valkey client: %w", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			initErr = fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
			return
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client}
	})
	if initErr != nil {
		return nil, initErr
	}
	return valkeyInstance, nil
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// MarkSeen records a headline dedup key with a 24h expiry.
func (vc *ValkeyClient) MarkSeen(ctx context.Context, key string) error {
	completed := []valkey.Completed{
		vc.Client.B().Sadd().Key(valkeySeenHeadlinesKey).Member(key).Build(),
		vc.Client.B().Expire().Key(valkeySeenHeadlinesKey).Seconds(valkeySeenTTLSeconds).Build(),
	}
	for _, res := range vc.doMultiWithRetry(ctx, completed, 3) {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

// IsSeen reports whether a headline dedup key was processed within the cache
// TTL. Cache errors read as "not seen" so a flaky cache never drops items.
func (vc *ValkeyClient) IsSeen(ctx context.Context, key string) bool {
	res := vc.doWithRetry(ctx, vc.Client.B().Sismember().Key(valkeySeenHeadlinesKey).Member(key).Build(), 3)
	ok, err := res.AsBool()
	if err != nil {
		return false
	}
	return ok
}

func (vc *ValkeyClient) doMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] DoMulti failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}
	return results
}

func (vc *ValkeyClient) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil {
			break
		}
		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))
		time.Sleep(250 * time.Millisecond)
	}
	return result
}
