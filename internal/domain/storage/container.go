package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sentinel/internal/domain/accessrules"
	"sentinel/internal/domain/elements"
	"sentinel/internal/domain/roles"
	"sentinel/internal/domain/sessions"
	"sentinel/internal/domain/tokens"
	"sentinel/internal/domain/users"
)

type Container struct {
	pool          *pgxpool.Pool // IMPORTANT: set the pool so WithTx works
	Users         users.Store
	Roles         roles.Store
	Elements      elements.Store
	AccessRules   accessrules.Store
	Sessions      sessions.Store
	RefreshTokens tokens.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:          db,
		Users:         users.NewRepository(db),
		Roles:         roles.NewRepository(db),
		Elements:      elements.NewRepository(db),
		AccessRules:   accessrules.NewRepository(db),
		Sessions:      sessions.NewRepository(db),
		RefreshTokens: tokens.NewRepository(db),
	}
}

// Tx is a temporary, tx-scoped set of repos for atomic units of work, such
// as issuing a session and refresh token together at login.
type Tx struct {
	Users         users.Store
	Roles         roles.Store
	Elements      elements.Store
	AccessRules   accessrules.Store
	Sessions      sessions.Store
	RefreshTokens tokens.Store
}

// WithTx runs a unit of work atomically. The callback's repos all share one
// transaction; an error from the callback rolls everything back.
func (c *Container) WithTx(ctx context.Context, fn func(t *Tx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil (did you forget to set pool in NewContainer?)")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // safe even if already committed
	}()

	t := &Tx{
		Users:         users.NewRepository(tx),
		Roles:         roles.NewRepository(tx),
		Elements:      elements.NewRepository(tx),
		AccessRules:   accessrules.NewRepository(tx),
		Sessions:      sessions.NewRepository(tx),
		RefreshTokens: tokens.NewRepository(tx),
	}

	if err := fn(t); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
