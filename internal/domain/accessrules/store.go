package accessrules

import (
	"context"
	"errors"
	"fmt"
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
	Create(ctx context.Context, rule *Rule) error
	GetByID(ctx context.Context, id int64) (*Rule, error)
	GetByRoleAndElement(ctx context.Context, role users.Role, elementID int64) (*Rule, error)
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]*Rule, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q}
}

const ruleColumns = `id, role, element_id,
	read_permission, read_all_permission, create_permission,
	update_permission, update_all_permission,
	delete_permission, delete_all_permission,
	comment, created_at, updated_at`

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM access_role_rules WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *Repository) Create(ctx context.Context, rule *Rule) error {
	query := `
		INSERT INTO access_role_rules (
			role, element_id,
			read_permission, read_all_permission, create_permission,
			update_permission, update_all_permission,
			delete_permission, delete_all_permission,
			comment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		rule.Role, rule.ElementID,
		rule.Read, rule.ReadAll, rule.Create,
		rule.Update, rule.UpdateAll,
		rule.Delete, rule.DeleteAll,
		rule.Comment,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.AlreadyExists("access rule", "role/element",
				fmt.Sprintf("%s/%d", rule.Role, rule.ElementID))
		}
		return err
	}
	return nil
}

func scanRule(row pgx.Row) (*Rule, error) {
	rule := &Rule{}
	err := row.Scan(
		&rule.ID, &rule.Role, &rule.ElementID,
		&rule.Read, &rule.ReadAll, &rule.Create,
		&rule.Update, &rule.UpdateAll,
		&rule.Delete, &rule.DeleteAll,
		&rule.Comment, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanRule(r.db.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM access_role_rules WHERE id = $1`, id))
}

func (r *Repository) GetByRoleAndElement(ctx context.Context, role users.Role, elementID int64) (*Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanRule(r.db.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM access_role_rules WHERE role = $1 AND element_id = $2`,
		role, elementID))
}

func (r *Repository) Update(ctx context.Context, rule *Rule) error {
	query := `
		UPDATE access_role_rules
		SET read_permission = $1, read_all_permission = $2, create_permission = $3,
		    update_permission = $4, update_all_permission = $5,
		    delete_permission = $6, delete_all_permission = $7,
		    comment = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		rule.Read, rule.ReadAll, rule.Create,
		rule.Update, rule.UpdateAll,
		rule.Delete, rule.DeleteAll,
		rule.Comment, rule.ID,
	).Scan(&rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM access_role_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) GetAll(ctx context.Context) ([]*Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+ruleColumns+` FROM access_role_rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Rule{}
	for rows.Next() {
		rule := &Rule{}
		if err := rows.Scan(
			&rule.ID, &rule.Role, &rule.ElementID,
			&rule.Read, &rule.ReadAll, &rule.Create,
			&rule.Update, &rule.UpdateAll,
			&rule.Delete, &rule.DeleteAll,
			&rule.Comment, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}
