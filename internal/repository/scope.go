package repository

import (
	"context"

	"github.com/rpattn/sparkify-etl/internal/db"

	"github.com/jackc/pgx/v5"
)

// TxScope runs units of work against repositories bound to a fresh transaction.
type TxScope struct {
	db    db.Beginner
	stmts Statements
}

// NewTxScope wires a scope over conn, usually a *db.Connection.
func NewTxScope(conn db.Beginner, stmts Statements) *TxScope {
	return &TxScope{db: conn, stmts: stmts.WithDefaults()}
}

// Within commits when fn returns nil and rolls back otherwise.
func (s *TxScope) Within(ctx context.Context, fn func(Repositories) error) error {
	return db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(New(tx, s.stmts))
	})
}
