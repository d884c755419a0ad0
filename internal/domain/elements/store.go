package elements

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sentinel/internal/domain/errs"
	"sentinel/internal/infra/dbx"
)

const QueryTimeoutDuration = time.Second * 5

type Store interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, element *Element) error
	GetByID(ctx context.Context, id int64) (*Element, error)
	GetByName(ctx context.Context, name string) (*Element, error)
	Update(ctx context.Context, element *Element) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]*Element, error)
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
		`SELECT EXISTS (SELECT 1 FROM business_elements WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *Repository) Create(ctx context.Context, element *Element) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx,
		`INSERT INTO business_elements (kind, name, comment) VALUES ($1, $2, $3) RETURNING id`,
		element.Kind, element.Name, element.Comment,
	).Scan(&element.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.AlreadyExists("business element", "name", element.Name)
		}
		return err
	}
	return nil
}

func scanElement(row pgx.Row) (*Element, error) {
	element := &Element{}
	if err := row.Scan(&element.ID, &element.Kind, &element.Name, &element.Comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return element, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Element, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanElement(r.db.QueryRow(ctx,
		`SELECT id, kind, name, comment FROM business_elements WHERE id = $1`, id))
}

func (r *Repository) GetByName(ctx context.Context, name string) (*Element, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanElement(r.db.QueryRow(ctx,
		`SELECT id, kind, name, comment FROM business_elements WHERE name = $1`, name))
}

func (r *Repository) Update(ctx context.Context, element *Element) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE business_elements SET kind = $1, name = $2, comment = $3 WHERE id = $4`,
		element.Kind, element.Name, element.Comment, element.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.AlreadyExists("business element", "name", element.Name)
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

	tag, err := r.db.Exec(ctx, `DELETE FROM business_elements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) GetAll(ctx context.Context) ([]*Element, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT id, kind, name, comment FROM business_elements ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Element{}
	for rows.Next() {
		element := &Element{}
		if err := rows.Scan(&element.ID, &element.Kind, &element.Name, &element.Comment); err != nil {
			return nil, err
		}
		out = append(out, element)
	}
	return out, rows.Err()
}
