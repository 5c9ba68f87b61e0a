package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"mindfolk/internal/domain"
)

type TherapistRepository interface {
	Upsert(ctx context.Context, profile domain.TherapistProfile) error
	GetByID(ctx context.Context, id string) (domain.TherapistProfile, error)
	GetByUserID(ctx context.Context, userID string) (domain.TherapistProfile, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.TherapistProfile, error)
	SearchByEmbedding(ctx context.Context, queryEmbedding []float32, k int) ([]domain.TherapistProfile, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateTags(ctx context.Context, id string, tags TherapistTags) error
}

// TherapistTags agrupa las etiquetas editables por moderacion.
type TherapistTags struct {
	Personality []string `json:"personality"`
	Specialties []string `json:"specialties"`
	Modalities  []string `json:"modalities"`
	Languages   []string `json:"languages"`
}

type PgTherapistRepository struct {
	pool *pgxpool.Pool
}

func NewPgTherapistRepository(pool *pgxpool.Pool) *PgTherapistRepository {
	return &PgTherapistRepository{pool: pool}
}

const therapistColumns = `id, user_id, name, bio, approach, personality, specialties, modalities, languages,
	identity, cultural_identity, age_groups, availability, hourly_rate, years_experience, status,
	style_embedding, created_at, updated_at`

func (r *PgTherapistRepository) Upsert(ctx context.Context, p domain.TherapistProfile) error {
	const query = `
		INSERT INTO therapist_profiles (` + therapistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			bio = EXCLUDED.bio,
			approach = EXCLUDED.approach,
			personality = EXCLUDED.personality,
			specialties = EXCLUDED.specialties,
			modalities = EXCLUDED.modalities,
			languages = EXCLUDED.languages,
			identity = EXCLUDED.identity,
			cultural_identity = EXCLUDED.cultural_identity,
			age_groups = EXCLUDED.age_groups,
			availability = EXCLUDED.availability,
			hourly_rate = EXCLUDED.hourly_rate,
			years_experience = EXCLUDED.years_experience,
			style_embedding = COALESCE(EXCLUDED.style_embedding, therapist_profiles.style_embedding),
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Bio,
		p.Approach,
		nonNil(p.Personality),
		nonNil(p.Specialties),
		nonNil(p.Modalities),
		nonNil(p.Languages),
		nonNil(p.Identity),
		nonNil(p.CulturalIdentity),
		nonNil(p.AgeGroups),
		nonNil(p.Availability),
		p.HourlyRate,
		p.YearsExperience,
		p.Status,
		vectorArg(p.StyleEmbedding),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PgTherapistRepository) GetByID(ctx context.Context, id string) (domain.TherapistProfile, error) {
	const query = `SELECT ` + therapistColumns + ` FROM therapist_profiles WHERE id = $1`
	return scanTherapist(r.pool.QueryRow(ctx, query, id))
}

func (r *PgTherapistRepository) GetByUserID(ctx context.Context, userID string) (domain.TherapistProfile, error) {
	const query = `SELECT ` + therapistColumns + ` FROM therapist_profiles WHERE user_id = $1`
	return scanTherapist(r.pool.QueryRow(ctx, query, userID))
}

func (r *PgTherapistRepository) ListByStatus(ctx context.Context, status string, limit int) ([]domain.TherapistProfile, error) {
	if limit <= 0 {
		limit = 200
	}
	const query = `
		SELECT ` + therapistColumns + `
		FROM therapist_profiles
		WHERE status = $1
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTherapists(rows)
}

// SearchByEmbedding devuelve los k perfiles aprobados mas cercanos por distancia coseno.
func (r *PgTherapistRepository) SearchByEmbedding(ctx context.Context, queryEmbedding []float32, k int) ([]domain.TherapistProfile, error) {
	if k <= 0 {
		k = 200
	}
	const query = `
		SELECT ` + therapistColumns + `
		FROM therapist_profiles
		WHERE status = 'approved' AND style_embedding IS NOT NULL
		ORDER BY style_embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(queryEmbedding), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTherapists(rows)
}

func (r *PgTherapistRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE therapist_profiles SET status = $2, updated_at = now() WHERE id = $1`
	return execOne(ctx, r.pool, query, id, status)
}

func (r *PgTherapistRepository) UpdateTags(ctx context.Context, id string, tags TherapistTags) error {
	const query = `
		UPDATE therapist_profiles
		SET personality = $2, specialties = $3, modalities = $4, languages = $5, updated_at = now()
		WHERE id = $1
	`
	return execOne(ctx, r.pool, query, id,
		nonNil(tags.Personality),
		nonNil(tags.Specialties),
		nonNil(tags.Modalities),
		nonNil(tags.Languages),
	)
}

func scanTherapist(row pgx.Row) (domain.TherapistProfile, error) {
	return scanTherapistRow(row)
}

func scanTherapists(rows pgxRows) ([]domain.TherapistProfile, error) {
	var out []domain.TherapistProfile
	for rows.Next() {
		p, err := scanTherapistRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTherapistRow(row interface{ Scan(...any) error }) (domain.TherapistProfile, error) {
	var (
		p   domain.TherapistProfile
		emb *pgvector.Vector
	)
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Bio,
		&p.Approach,
		&p.Personality,
		&p.Specialties,
		&p.Modalities,
		&p.Languages,
		&p.Identity,
		&p.CulturalIdentity,
		&p.AgeGroups,
		&p.Availability,
		&p.HourlyRate,
		&p.YearsExperience,
		&p.Status,
		&emb,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return domain.TherapistProfile{}, err
	}
	p.StyleEmbedding = vectorSlice(emb)
	return p, nil
}

// pgxRows es la interfaz minima de filas de pgx para escanear y testear.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
