package repository

import (
	"context"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"go.uber.org/zap"
)

type AuditLogRepository interface {
	Insert(ctx context.Context, log *entity.AuditLog) error
}

type auditLogRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewAuditLogRepository(db database.Querier, log *zap.Logger) AuditLogRepository {
	return &auditLogRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit")),
	}
}

func (r *auditLogRepository) Insert(ctx context.Context, entry *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, entity, entity_id, action, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Entity,
		entry.EntityID,
		entry.Action,
		entry.ActorID,
		entry.Metadata,
		entry.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert audit log",
			zap.Error(err),
			zap.String("entity", entry.Entity),
			zap.String("action", entry.Action),
		)
		return fmt.Errorf("insert audit log %s/%s: %w", entry.Entity, entry.Action, err)
	}

	return nil
}
