package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mindfolk/internal/domain"
)

// ErrDraftNotFound indica que el usuario no tiene un borrador guardado.
var ErrDraftNotFound = errors.New("draft not found")

// DraftStore persiste el borrador del onboarding entre sesiones.
type DraftStore interface {
	Load(ctx context.Context, userID string) (domain.AssessmentDraft, error)
	Save(ctx context.Context, userID string, draft domain.AssessmentDraft) error
	Clear(ctx context.Context, userID string) error
}

type memoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]memoryDraft
}

type memoryDraft struct {
	draft     domain.AssessmentDraft
	expiresAt time.Time
}

func NewMemoryDraftStore(ttl time.Duration) DraftStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &memoryDraftStore{
		ttl:    ttl,
		drafts: make(map[string]memoryDraft),
	}
}

func (s *memoryDraftStore) Load(_ context.Context, userID string) (domain.AssessmentDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[userID]
	if !ok {
		return domain.AssessmentDraft{}, ErrDraftNotFound
	}
	if time.Now().UTC().After(d.expiresAt) {
		delete(s.drafts, userID)
		return domain.AssessmentDraft{}, ErrDraftNotFound
	}
	return d.draft, nil
}

func (s *memoryDraftStore) Save(_ context.Context, userID string, draft domain.AssessmentDraft) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("draft user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = memoryDraft{draft: draft, expiresAt: time.Now().UTC().Add(s.ttl)}
	return nil
}

func (s *memoryDraftStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}

type redisDraftClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisDraftStore struct {
	client redisDraftClient
	ttl    time.Duration
	prefix string
}

// NewRedisDraftStore guarda borradores como JSON con TTL deslizante.
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &redisDraftStore{
		client: client,
		ttl:    ttl,
		prefix: "assessment:draft:",
	}
}

func (s *redisDraftStore) Load(ctx context.Context, userID string) (domain.AssessmentDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := s.client.Get(ctx, s.prefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AssessmentDraft{}, ErrDraftNotFound
	}
	if err != nil {
		return domain.AssessmentDraft{}, err
	}
	var draft domain.AssessmentDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return domain.AssessmentDraft{}, err
	}
	return draft, nil
}

func (s *redisDraftStore) Save(ctx context.Context, userID string, draft domain.AssessmentDraft) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("draft user id is required")
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+userID, payload, s.ttl).Err()
}

func (s *redisDraftStore) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+userID).Err()
}
