package aml

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"kyccore/pkg/platform/sentinel"
)

// NormalizeDocumentNumber strips separators and case so "ab-12 34" and
// "AB1234" match.
func NormalizeDocumentNumber(n string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(n) {
		if r == ' ' || r == '-' || r == '.' || r == '/' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StaticWatchlist is an in-memory watchlist.
type StaticWatchlist struct {
	mu      sync.RWMutex
	entries map[string]struct{}
}

func NewStaticWatchlist(documentNumbers ...string) *StaticWatchlist {
	w := &StaticWatchlist{entries: make(map[string]struct{})}
	w.Add(documentNumbers...)
	return w
}

// Add lists the given document numbers.
func (w *StaticWatchlist) Add(documentNumbers ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, n := range documentNumbers {
		if key := NormalizeDocumentNumber(n); key != "" {
			w.entries[key] = struct{}{}
		}
	}
}

func (w *StaticWatchlist) Contains(_ context.Context, documentNumber string) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.entries[NormalizeDocumentNumber(documentNumber)]
	return ok, nil
}

// DefaultWatchlistKey is the Redis set holding listed document numbers.
const DefaultWatchlistKey = "kyc:aml:watchlist"

// RedisWatchlist reads the watchlist from a Redis set maintained by the
// sanctions feed.
type RedisWatchlist struct {
	client redis.UniversalClient
	key    string
}

// NewRedisWatchlist creates a watchlist over key (DefaultWatchlistKey when empty).
func NewRedisWatchlist(client redis.UniversalClient, key string) *RedisWatchlist {
	if key == "" {
		key = DefaultWatchlistKey
	}
	return &RedisWatchlist{client: client, key: key}
}

func (w *RedisWatchlist) Contains(ctx context.Context, documentNumber string) (bool, error) {
	listed, err := w.client.SIsMember(ctx, w.key, NormalizeDocumentNumber(documentNumber)).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, err
		}
		return false, fmt.Errorf("redis watchlist: %w: %w", sentinel.ErrUnavailable, err)
	}
	return listed, nil
}

// Add lists the given document numbers.
func (w *RedisWatchlist) Add(ctx context.Context, documentNumbers ...string) error {
	members := make([]any, 0, len(documentNumbers))
	for _, n := range documentNumbers {
		if key := NormalizeDocumentNumber(n); key != "" {
			members = append(members, key)
		}
	}
	if len(members) == 0 {
		return nil
	}
	if err := w.client.SAdd(ctx, w.key, members...).Err(); err != nil {
		return fmt.Errorf("redis watchlist add: %w", err)
	}
	return nil
}
