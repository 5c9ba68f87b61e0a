package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"mindfolk/internal/domain"
	"mindfolk/internal/matching"
	"mindfolk/internal/repository"
)

var ErrAssessmentRequired = errors.New("assessment required before discover")

// DiscoverService arma el feed Discover: busca datos y delega el ranking al
// paquete matching, que es puro.
type DiscoverService struct {
	logger      *zap.Logger
	assessments *AssessmentService
	therapists  repository.TherapistRepository
	weights     matching.Weights
	candidates  int
	defaultSize int
}

func NewDiscoverService(
	logger *zap.Logger,
	assessments *AssessmentService,
	therapists repository.TherapistRepository,
	weights matching.Weights,
	candidates, defaultSize int,
) *DiscoverService {
	if candidates <= 0 {
		candidates = 200
	}
	if defaultSize <= 0 {
		defaultSize = 20
	}
	return &DiscoverService{
		logger:      logger,
		assessments: assessments,
		therapists:  therapists,
		weights:     weights,
		candidates:  candidates,
		defaultSize: defaultSize,
	}
}

// Feed devuelve los terapeutas compatibles ordenados, con su overlay decorativo.
func (s *DiscoverService) Feed(ctx context.Context, userID string, limit int) ([]domain.DiscoverCard, error) {
	prefs, err := s.assessments.canonical(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrAssessmentNotFound) {
			return nil, ErrAssessmentRequired
		}
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx, prefs)
	if err != nil {
		return nil, err
	}

	ranked := matching.Rank(prefs, candidates, s.weights)
	if limit <= 0 {
		limit = s.defaultSize
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	cards := make([]domain.DiscoverCard, 0, len(ranked))
	for _, r := range ranked {
		overlay := matching.PickOverlay(prefs.CommunicationStyle, r.Therapist.Personality)
		r.Therapist = displayProfile(r.Therapist)
		cards = append(cards, domain.DiscoverCard{ScoredTherapist: r, Overlay: overlay})
	}
	if s.logger != nil {
		s.logger.Debug("discover feed built",
			zap.String("user_id", userID),
			zap.Int("candidates", len(candidates)),
			zap.Int("results", len(cards)),
		)
	}
	return cards, nil
}

// loadCandidates junta los vecinos del indice vectorial con el listado de
// aprobados. Un perfil sin embedding sigue siendo candidato: solo pierde la
// dimension semantica.
func (s *DiscoverService) loadCandidates(ctx context.Context, prefs domain.AssessmentPreferences) ([]domain.TherapistProfile, error) {
	var nearest []domain.TherapistProfile
	if len(prefs.GoalsEmbedding) > 0 {
		found, err := s.therapists.SearchByEmbedding(ctx, prefs.GoalsEmbedding, s.candidates)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("vector candidate search failed", zap.Error(err))
			}
		} else {
			nearest = found
		}
	}
	approved, err := s.therapists.ListByStatus(ctx, domain.TherapistStatusApproved, s.candidates)
	if err != nil {
		return nil, err
	}
	if len(nearest) == 0 {
		return approved, nil
	}

	seen := make(map[string]struct{}, len(nearest)+len(approved))
	out := make([]domain.TherapistProfile, 0, len(nearest)+len(approved))
	for _, group := range [][]domain.TherapistProfile{nearest, approved} {
		for _, p := range group {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}
