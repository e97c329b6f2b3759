package repository

import (
	"context"
	"errors"
	"fmt"

	"weather-pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Repository implements location and weather persistence for PostgreSQL
type Repository struct {
	db DBTX
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return persistenceErr("ping", err)
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on any error.
func (r *Repository) withTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return persistenceErr(op, fmt.Errorf("begin transaction: %w", err))
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return persistenceErr(op, fmt.Errorf("%w (rollback: %v)", err, rbErr))
		}
		return persistenceErr(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return persistenceErr(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

func persistenceErr(op string, err error) error {
	var pe *models.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &models.PersistenceError{Op: "repository: " + op, Err: err}
}
