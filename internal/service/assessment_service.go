package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"mindfolk/internal/domain"
	"mindfolk/internal/llm"
	"mindfolk/internal/matching"
	"mindfolk/internal/repository"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentService guarda las preferencias del cliente en formato canonico
// y administra el borrador del onboarding.
type AssessmentService struct {
	logger   *zap.Logger
	repo     repository.AssessmentRepository
	drafts   DraftStore
	embedder llm.Embedder
}

func NewAssessmentService(logger *zap.Logger, repo repository.AssessmentRepository, drafts DraftStore, embedder llm.Embedder) *AssessmentService {
	if drafts == nil {
		drafts = NewMemoryDraftStore(0)
	}
	return &AssessmentService{
		logger:   logger,
		repo:     repo,
		drafts:   drafts,
		embedder: embedder,
	}
}

// Save persiste las preferencias y descarta el borrador. Devuelve la forma visible.
func (s *AssessmentService) Save(ctx context.Context, userID string, input domain.AssessmentPreferences) (domain.AssessmentPreferences, error) {
	if s.repo == nil {
		return domain.AssessmentPreferences{}, errors.New("assessment service not configured")
	}
	now := time.Now().UTC()
	prefs := canonicalPreferences(input)
	prefs.UserID = userID
	prefs.CreatedAt = now
	prefs.UpdatedAt = now
	prefs.GoalsEmbedding = nil

	existing, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		prefs.CreatedAt = existing.CreatedAt
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return domain.AssessmentPreferences{}, err
	}

	prefs.GoalsEmbedding = s.embed(ctx, userID, goalsText(prefs))

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return domain.AssessmentPreferences{}, err
	}
	if err := s.drafts.Clear(ctx, userID); err != nil && s.logger != nil {
		s.logger.Warn("clear assessment draft failed", zap.Error(err), zap.String("user_id", userID))
	}
	return displayPreferences(prefs), nil
}

// Get devuelve las preferencias en formato visible.
func (s *AssessmentService) Get(ctx context.Context, userID string) (domain.AssessmentPreferences, error) {
	prefs, err := s.canonical(ctx, userID)
	if err != nil {
		return domain.AssessmentPreferences{}, err
	}
	return displayPreferences(prefs), nil
}

// canonical devuelve las preferencias tal como estan guardadas, para matching.
func (s *AssessmentService) canonical(ctx context.Context, userID string) (domain.AssessmentPreferences, error) {
	if s.repo == nil {
		return domain.AssessmentPreferences{}, errors.New("assessment service not configured")
	}
	prefs, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AssessmentPreferences{}, ErrAssessmentNotFound
		}
		return domain.AssessmentPreferences{}, err
	}
	return prefs, nil
}

func (s *AssessmentService) LoadDraft(ctx context.Context, userID string) (domain.AssessmentDraft, error) {
	return s.drafts.Load(ctx, userID)
}

func (s *AssessmentService) SaveDraft(ctx context.Context, userID string, draft domain.AssessmentDraft) (domain.AssessmentDraft, error) {
	if draft.Step < 0 {
		draft.Step = 0
	}
	draft.Preferences.UserID = userID
	draft.UpdatedAt = time.Now().UTC()
	if err := s.drafts.Save(ctx, userID, draft); err != nil {
		return domain.AssessmentDraft{}, err
	}
	return draft, nil
}

func (s *AssessmentService) ClearDraft(ctx context.Context, userID string) error {
	return s.drafts.Clear(ctx, userID)
}

func (s *AssessmentService) embed(ctx context.Context, userID, text string) []float32 {
	if s.embedder == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("goals embedding failed", zap.Error(err), zap.String("user_id", userID))
		}
		return nil
	}
	return vec
}

func goalsText(p domain.AssessmentPreferences) string {
	parts := make([]string, 0, len(p.TherapyGoals)+len(p.CommunicationStyle))
	parts = append(parts, matching.ToDisplayFormatAll(p.TherapyGoals)...)
	parts = append(parts, matching.ToDisplayFormatAll(p.CommunicationStyle)...)
	return strings.Join(parts, "; ")
}
