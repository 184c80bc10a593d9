package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// WithTransaction executes fn inside a database transaction
func WithTransaction(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback failed during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// Transactor runs service code inside one transaction. Services depend on this
// instead of *database.DB so they can be tested without Postgres.
type Transactor interface {
	InTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type pgTransactor struct {
	db *database.DB
}

func NewTransactor(db *database.DB) Transactor {
	return &pgTransactor{db: db}
}

// InTx implements Transactor.
func (p *pgTransactor) InTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return WithTransaction(ctx, p.db, func(tx pgx.Tx) error {
		return fn(database.WithTx(ctx, tx))
	})
}
