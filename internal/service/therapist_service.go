package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"mindfolk/internal/domain"
	"mindfolk/internal/llm"
	"mindfolk/internal/matching"
	"mindfolk/internal/repository"
)

var (
	ErrTherapistNotFound = errors.New("therapist not found")
	ErrInvalidStatus     = errors.New("invalid therapist status")
	ErrInvalidProfile    = errors.New("invalid therapist profile")
)

// TherapistService administra perfiles de terapeutas y su moderacion.
type TherapistService struct {
	logger   *zap.Logger
	repo     repository.TherapistRepository
	embedder llm.Embedder
}

func NewTherapistService(logger *zap.Logger, repo repository.TherapistRepository, embedder llm.Embedder) *TherapistService {
	return &TherapistService{
		logger:   logger,
		repo:     repo,
		embedder: embedder,
	}
}

// UpsertMine crea o actualiza el perfil del terapeuta autenticado.
// Un perfil nuevo queda pendiente de moderacion.
func (s *TherapistService) UpsertMine(ctx context.Context, userID string, input domain.TherapistProfile) (domain.TherapistProfile, error) {
	if strings.TrimSpace(input.Name) == "" || input.HourlyRate < 0 || input.YearsExperience < 0 {
		return domain.TherapistProfile{}, ErrInvalidProfile
	}
	now := time.Now().UTC()
	profile := canonicalProfile(input)
	profile.UserID = userID
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Bio = strings.TrimSpace(profile.Bio)
	profile.Approach = strings.TrimSpace(profile.Approach)
	profile.UpdatedAt = now

	existing, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		profile.ID = existing.ID
		profile.Status = existing.Status
		profile.CreatedAt = existing.CreatedAt
	case errors.Is(err, pgx.ErrNoRows):
		profile.ID = uuid.NewString()
		profile.Status = domain.TherapistStatusPending
		profile.CreatedAt = now
	default:
		return domain.TherapistProfile{}, err
	}

	profile.StyleEmbedding = s.embed(ctx, profile)

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return domain.TherapistProfile{}, err
	}
	return displayProfile(profile), nil
}

func (s *TherapistService) GetMine(ctx context.Context, userID string) (domain.TherapistProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return domain.TherapistProfile{}, mapTherapistErr(err)
	}
	return displayProfile(p), nil
}

// GetByID solo expone perfiles aprobados salvo que el llamador sea admin.
func (s *TherapistService) GetByID(ctx context.Context, id string, role domain.Role) (domain.TherapistProfile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TherapistProfile{}, mapTherapistErr(err)
	}
	if p.Status != domain.TherapistStatusApproved && role != domain.RoleAdmin {
		return domain.TherapistProfile{}, ErrTherapistNotFound
	}
	return displayProfile(p), nil
}

func (s *TherapistService) ListByStatus(ctx context.Context, status string, limit int) ([]domain.TherapistProfile, error) {
	if !domain.ValidTherapistStatus(status) {
		return nil, ErrInvalidStatus
	}
	profiles, err := s.repo.ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TherapistProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, displayProfile(p))
	}
	return out, nil
}

func (s *TherapistService) SetStatus(ctx context.Context, id, status string) error {
	if !domain.ValidTherapistStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return mapTherapistErr(err)
	}
	if s.logger != nil {
		s.logger.Info("therapist status updated", zap.String("therapist_id", id), zap.String("status", status))
	}
	return nil
}

// SetTags reemplaza las etiquetas de un perfil desde moderacion.
func (s *TherapistService) SetTags(ctx context.Context, id string, tags repository.TherapistTags) error {
	tags.Personality = canonicalTags(tags.Personality)
	tags.Specialties = canonicalTags(tags.Specialties)
	tags.Modalities = canonicalTags(tags.Modalities)
	tags.Languages = canonicalTags(tags.Languages)
	if err := s.repo.UpdateTags(ctx, id, tags); err != nil {
		return mapTherapistErr(err)
	}
	return nil
}

func (s *TherapistService) embed(ctx context.Context, p domain.TherapistProfile) []float32 {
	if s.embedder == nil {
		return nil
	}
	parts := []string{p.Bio, p.Approach}
	parts = append(parts, matching.ToDisplayFormatAll(p.Specialties)...)
	text := strings.TrimSpace(strings.Join(parts, "; "))
	if strings.Trim(text, "; ") == "" {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("style embedding failed", zap.Error(err), zap.String("user_id", p.UserID))
		}
		return nil
	}
	return vec
}

func mapTherapistErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTherapistNotFound
	}
	return err
}
