package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshUnknown indica un refresh token ya usado, revocado o vencido.
var ErrRefreshUnknown = errors.New("refresh token unknown")

// RefreshStore registra los jti de refresh vigentes. Consume es de un solo uso:
// devuelve el usuario dueno y borra el jti en la misma operacion.
type RefreshStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	Consume(ctx context.Context, jti string) (string, error)
}

type refreshEntry struct {
	userID  string
	expires time.Time
}

type memoryRefreshStore struct {
	mu    sync.Mutex
	items map[string]refreshEntry
}

func NewMemoryRefreshStore() RefreshStore {
	return &memoryRefreshStore{items: make(map[string]refreshEntry)}
}

func (s *memoryRefreshStore) Save(_ context.Context, jti, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[jti] = refreshEntry{userID: userID, expires: time.Now().Add(ttl)}
	return nil
}

func (s *memoryRefreshStore) Consume(_ context.Context, jti string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[jti]
	delete(s.items, jti)
	if !ok || time.Now().After(e.expires) {
		return "", ErrRefreshUnknown
	}
	return e.userID, nil
}

type redisRefreshClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

type redisRefreshStore struct {
	client redisRefreshClient
	prefix string
}

// NewRedisRefreshStore guarda jti -> user id con TTL; Consume usa GETDEL para
// que dos refresh concurrentes con el mismo token no roten ambos.
func NewRedisRefreshStore(client *redis.Client) RefreshStore {
	return &redisRefreshStore{client: client, prefix: "session:refresh:"}
}

func (s *redisRefreshStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, userID, ttl).Err()
}

func (s *redisRefreshStore) Consume(ctx context.Context, jti string) (string, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return "", ErrRefreshUnknown
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	userID, err := s.client.GetDel(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshUnknown
	}
	return userID, err
}
