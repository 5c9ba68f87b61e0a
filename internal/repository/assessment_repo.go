package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"mindfolk/internal/domain"
)

// AssessmentRepository persiste las preferencias del cuestionario del cliente.
type AssessmentRepository interface {
	Upsert(ctx context.Context, prefs domain.AssessmentPreferences) error
	GetByUserID(ctx context.Context, userID string) (domain.AssessmentPreferences, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) Upsert(ctx context.Context, p domain.AssessmentPreferences) error {
	const query = `
		INSERT INTO assessment_preferences (
			user_id, communication_style, languages, language_required, identity, therapy_goals,
			modalities, budget_range, age_group, cultural_identity, availability,
			prefers_experienced, excluded_therapist_ids, goals_embedding, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id)
		DO UPDATE SET
			communication_style = EXCLUDED.communication_style,
			languages = EXCLUDED.languages,
			language_required = EXCLUDED.language_required,
			identity = EXCLUDED.identity,
			therapy_goals = EXCLUDED.therapy_goals,
			modalities = EXCLUDED.modalities,
			budget_range = EXCLUDED.budget_range,
			age_group = EXCLUDED.age_group,
			cultural_identity = EXCLUDED.cultural_identity,
			availability = EXCLUDED.availability,
			prefers_experienced = EXCLUDED.prefers_experienced,
			excluded_therapist_ids = EXCLUDED.excluded_therapist_ids,
			goals_embedding = COALESCE(EXCLUDED.goals_embedding, assessment_preferences.goals_embedding),
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		p.UserID,
		nonNil(p.CommunicationStyle),
		nonNil(p.Languages),
		p.LanguageRequired,
		nonNil(p.Identity),
		nonNil(p.TherapyGoals),
		nonNil(p.Modalities),
		nonNil(p.BudgetRange),
		p.AgeGroup,
		nonNil(p.CulturalIdentity),
		nonNil(p.Availability),
		p.PrefersExperienced,
		nonNil(p.ExcludedTherapistIDs),
		vectorArg(p.GoalsEmbedding),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PgAssessmentRepository) GetByUserID(ctx context.Context, userID string) (domain.AssessmentPreferences, error) {
	const query = `
		SELECT user_id, communication_style, languages, language_required, identity, therapy_goals,
			modalities, budget_range, age_group, cultural_identity, availability,
			prefers_experienced, excluded_therapist_ids, goals_embedding, created_at, updated_at
		FROM assessment_preferences
		WHERE user_id = $1
	`
	var (
		p   domain.AssessmentPreferences
		emb *pgvector.Vector
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.CommunicationStyle,
		&p.Languages,
		&p.LanguageRequired,
		&p.Identity,
		&p.TherapyGoals,
		&p.Modalities,
		&p.BudgetRange,
		&p.AgeGroup,
		&p.CulturalIdentity,
		&p.Availability,
		&p.PrefersExperienced,
		&p.ExcludedTherapistIDs,
		&emb,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.AssessmentPreferences{}, err
	}
	p.GoalsEmbedding = vectorSlice(emb)
	return p, nil
}

// nonNil evita guardar NULL en columnas text[] NOT NULL.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
