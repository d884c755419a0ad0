package tokens

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
	Create(ctx context.Context, token *RefreshToken) error
	GetByID(ctx context.Context, id int64) (*RefreshToken, error)
	GetByUser(ctx context.Context, userID int64) ([]*RefreshToken, error)
	GetAll(ctx context.Context) ([]*RefreshToken, error)
	Revoke(ctx context.Context, id int64) error
	RevokeUserTokens(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q}
}

const tokenColumns = `id, user_id, token_hash, revoked, expires_at, created_at, updated_at`

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *Repository) Create(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, revoked, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		token.UserID, token.TokenHash, token.ExpiresAt,
	).Scan(&token.ID, &token.Revoked, &token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.AlreadyExists("refresh token", "token_hash", token.TokenHash)
		}
		return err
	}
	return nil
}

func scanToken(row pgx.Row) (*RefreshToken, error) {
	token := &RefreshToken{}
	err := row.Scan(
		&token.ID, &token.UserID, &token.TokenHash,
		&token.Revoked, &token.ExpiresAt,
		&token.CreatedAt, &token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return token, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanToken(r.db.QueryRow(ctx,
		`SELECT `+tokenColumns+` FROM refresh_tokens WHERE id = $1`, id))
}

func (r *Repository) GetByUser(ctx context.Context, userID int64) ([]*RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.queryTokens(ctx,
		`SELECT `+tokenColumns+` FROM refresh_tokens WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *Repository) GetAll(ctx context.Context) ([]*RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.queryTokens(ctx,
		`SELECT `+tokenColumns+` FROM refresh_tokens ORDER BY id`)
}

func (r *Repository) queryTokens(ctx context.Context, query string, args ...any) ([]*RefreshToken, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*RefreshToken{}
	for rows.Next() {
		token := &RefreshToken{}
		if err := rows.Scan(
			&token.ID, &token.UserID, &token.TokenHash,
			&token.Revoked, &token.ExpiresAt,
			&token.CreatedAt, &token.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, token)
	}
	return out, rows.Err()
}

// Revoke marks the token revoked. Revoking an already-revoked token is a
// no-op, not an error; revoked is absorbing.
func (r *Repository) Revoke(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// RevokeUserTokens revokes every active token of one user and reports how
// many flipped. A second call returns 0.
func (r *Repository) RevokeUserTokens(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE, updated_at = NOW()
		 WHERE user_id = $1 AND revoked = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
