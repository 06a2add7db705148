package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nsdigital/agency-api/internal/domain/entity"
	"github.com/nsdigital/agency-api/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, name, photo, role, is_blocked, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, photo, role, is_blocked)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.Name, u.Photo, u.Role, u.IsBlocked)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET is_blocked = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+userColumns+`
	`, blocked, id)
	return scanUser(row)
}

func (r *UserRepository) UpdatePhoto(ctx context.Context, id string, photo string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET photo = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+userColumns+`
	`, photo, id)
	return scanUser(row)
}

func (r *UserRepository) Stats(ctx context.Context) (repository.Stats, error) {
	var s repository.Stats
	row := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_blocked),
		       count(*) FILTER (WHERE role = 'ADMIN')
		FROM users
	`)
	if err := row.Scan(&s.TotalUsers, &s.BlockedUsers, &s.AdminUsers); err != nil {
		return repository.Stats{}, err
	}
	return s, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Photo,
		&u.Role, &u.IsBlocked, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
