package repository

import (
	"context"
	"fmt"

	"clinic-booking/pkg/database"

	"go.uber.org/zap"
)

// TxManager runs a function against a transaction-bound Repository.
// If fn returns an error the transaction is rolled back, otherwise it is
// committed. Mutating workflows that must be all-or-nothing (slot claim +
// appointment + payment, reconciliation, slot close) go through here.
type TxManager interface {
	InTx(ctx context.Context, fn func(r *Repository) error) error
}

type txManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &txManager{
		db:  db,
		log: log.With(zap.String("component", "txmanager")),
	}
}

func (m *txManager) InTx(ctx context.Context, fn func(r *Repository) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		m.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newWithQuerier(tx, m.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		m.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
