package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mindfolk/internal/domain"
)

// UserRepository persiste cuentas y su vinculo con el proveedor de identidad.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByIdentity(ctx context.Context, provider, subject string) (domain.User, error)
	LinkIdentity(ctx context.Context, id, provider, subject string) error
	MarkSeen(ctx context.Context, id string, at time.Time) error
}

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, display_name, role, provider, subject, password_hash, created_at, last_seen_at`

func (r *PgUserRepository) Create(ctx context.Context, u domain.User) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.DisplayName, string(u.Role),
		u.Provider, u.Subject, u.PasswordHash,
		u.CreatedAt, u.LastSeenAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *PgUserRepository) GetByIdentity(ctx context.Context, provider, subject string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND subject = $2`
	return scanUser(r.pool.QueryRow(ctx, query, provider, subject))
}

// LinkIdentity asocia una cuenta existente (por ejemplo, creada por email) al sujeto del proveedor.
func (r *PgUserRepository) LinkIdentity(ctx context.Context, id, provider, subject string) error {
	return execOne(ctx, r.pool, `UPDATE users SET provider = $2, subject = $3 WHERE id = $1`, id, provider, subject)
}

func (r *PgUserRepository) MarkSeen(ctx context.Context, id string, at time.Time) error {
	return execOne(ctx, r.pool, `UPDATE users SET last_seen_at = $2 WHERE id = $1`, id, at)
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u                               domain.User
		role                            string
		email, provider, subject, phash *string
	)
	if err := row.Scan(
		&u.ID, &email, &u.DisplayName, &role,
		&provider, &subject, &phash,
		&u.CreatedAt, &u.LastSeenAt,
	); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.Email = deref(email)
	u.Provider = deref(provider)
	u.Subject = deref(subject)
	u.PasswordHash = deref(phash)
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// execOne ejecuta un UPDATE y devuelve pgx.ErrNoRows si no afecto filas.
func execOne(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) error {
	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
