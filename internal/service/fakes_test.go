package service

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"mindfolk/internal/domain"
	"mindfolk/internal/repository"
)

type mockAssessmentRepo struct {
	items map[string]domain.AssessmentPreferences
	err   error
}

func newMockAssessmentRepo() *mockAssessmentRepo {
	return &mockAssessmentRepo{items: make(map[string]domain.AssessmentPreferences)}
}

func (m *mockAssessmentRepo) Upsert(_ context.Context, p domain.AssessmentPreferences) error {
	if m.err != nil {
		return m.err
	}
	if len(p.GoalsEmbedding) == 0 {
		p.GoalsEmbedding = m.items[p.UserID].GoalsEmbedding
	}
	m.items[p.UserID] = p
	return nil
}

func (m *mockAssessmentRepo) GetByUserID(_ context.Context, userID string) (domain.AssessmentPreferences, error) {
	p, ok := m.items[userID]
	if !ok {
		return domain.AssessmentPreferences{}, pgx.ErrNoRows
	}
	return p, nil
}

type mockTherapistRepo struct {
	byID        map[string]domain.TherapistProfile
	searchCalls int
	searchErr   error
}

func newMockTherapistRepo(profiles ...domain.TherapistProfile) *mockTherapistRepo {
	m := &mockTherapistRepo{byID: make(map[string]domain.TherapistProfile)}
	for _, p := range profiles {
		m.byID[p.ID] = p
	}
	return m
}

func (m *mockTherapistRepo) Upsert(_ context.Context, p domain.TherapistProfile) error {
	m.byID[p.ID] = p
	return nil
}

func (m *mockTherapistRepo) GetByID(_ context.Context, id string) (domain.TherapistProfile, error) {
	p, ok := m.byID[id]
	if !ok {
		return domain.TherapistProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockTherapistRepo) GetByUserID(_ context.Context, userID string) (domain.TherapistProfile, error) {
	for _, p := range m.byID {
		if p.UserID == userID {
			return p, nil
		}
	}
	return domain.TherapistProfile{}, pgx.ErrNoRows
}

func (m *mockTherapistRepo) ListByStatus(_ context.Context, status string, limit int) ([]domain.TherapistProfile, error) {
	var out []domain.TherapistProfile
	for _, p := range m.byID {
		if p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTherapistRepo) SearchByEmbedding(_ context.Context, _ []float32, k int) ([]domain.TherapistProfile, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var out []domain.TherapistProfile
	for _, p := range m.byID {
		if p.Status == domain.TherapistStatusApproved && len(p.StyleEmbedding) > 0 {
			out = append(out, p)
		}
	}
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (m *mockTherapistRepo) UpdateStatus(_ context.Context, id, status string) error {
	p, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	m.byID[id] = p
	return nil
}

func (m *mockTherapistRepo) UpdateTags(_ context.Context, id string, tags repository.TherapistTags) error {
	p, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Personality = tags.Personality
	p.Specialties = tags.Specialties
	p.Modalities = tags.Modalities
	p.Languages = tags.Languages
	m.byID[id] = p
	return nil
}
