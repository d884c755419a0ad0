package roles

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/users"
	"sentinel/internal/infra/dbx"
)

const QueryTimeoutDuration = time.Second * 5

type Store interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id int64) (*Role, error)
	GetByRole(ctx context.Context, role users.Role) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]*Role, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *Repository) Create(ctx context.Context, role *Role) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx,
		`INSERT INTO roles (role, comment) VALUES ($1, $2) RETURNING id`,
		role.Role, role.Comment,
	).Scan(&role.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.AlreadyExists("role", "role", role.Role)
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Role, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanRole(r.db.QueryRow(ctx,
		`SELECT id, role, comment FROM roles WHERE id = $1`, id))
}

func (r *Repository) GetByRole(ctx context.Context, role users.Role) (*Role, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanRole(r.db.QueryRow(ctx,
		`SELECT id, role, comment FROM roles WHERE role = $1`, role))
}

func scanRole(row pgx.Row) (*Role, error) {
	role := &Role{}
	if err := row.Scan(&role.ID, &role.Role, &role.Comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *Repository) Update(ctx context.Context, role *Role) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE roles SET role = $1, comment = $2 WHERE id = $3`,
		role.Role, role.Comment, role.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.AlreadyExists("role", "role", role.Role)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) GetAll(ctx context.Context) ([]*Role, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT id, role, comment FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Role{}
	for rows.Next() {
		role := &Role{}
		if err := rows.Scan(&role.ID, &role.Role, &role.Comment); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}
