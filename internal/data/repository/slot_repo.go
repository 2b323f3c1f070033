package repository

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SlotRepository interface {
	Create(ctx context.Context, slot *entity.Slot) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	FindByDoctorStart(ctx context.Context, doctorID uuid.UUID, start time.Time) (*entity.Slot, error)
	ListOpen(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error)

	// Claim atomically flips is_available true -> false and reports rows
	// affected. Zero means the slot was already taken: the caller lost the
	// race and must treat it as a recoverable failure.
	Claim(ctx context.Context, id uuid.UUID) (int64, error)
	Release(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, doctorID uuid.UUID, start time.Time) error
}

type slotRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSlotRepository(db database.Querier, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot")),
	}
}

// Create inserts a slot; a duplicate (doctor_id, start_time) is a no-op.
// The returned bool reports whether a row was actually inserted.
func (r *slotRepository) Create(ctx context.Context, slot *entity.Slot) (bool, error) {
	query := `
		INSERT INTO availability_slots (id, doctor_id, start_time, end_time, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (doctor_id, start_time) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.DoctorID,
		slot.StartTime,
		slot.EndTime,
		slot.IsAvailable,
		slot.CreatedAt,
		slot.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create slot",
			zap.Error(err),
			zap.String("doctor_id", slot.DoctorID.String()),
			zap.Time("start_time", slot.StartTime),
		)
		return false, fmt.Errorf("create slot for doctor %s: %w", slot.DoctorID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `
		SELECT id, doctor_id, start_time, end_time, is_available, created_at, updated_at
		FROM availability_slots
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *slotRepository) FindByDoctorStart(ctx context.Context, doctorID uuid.UUID, start time.Time) (*entity.Slot, error) {
	query := `
		SELECT id, doctor_id, start_time, end_time, is_available, created_at, updated_at
		FROM availability_slots
		WHERE doctor_id = $1 AND start_time = $2
	`

	return r.scanOne(r.db.QueryRow(ctx, query, doctorID, start))
}

func (r *slotRepository) ListOpen(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error) {
	query := `
		SELECT id, doctor_id, start_time, end_time, is_available, created_at, updated_at
		FROM availability_slots
		WHERE doctor_id = $1 AND is_available = true AND start_time >= $2 AND start_time <= $3
		ORDER BY start_time ASC
	`

	return r.list(ctx, query, doctorID, from, to)
}

func (r *slotRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error) {
	query := `
		SELECT id, doctor_id, start_time, end_time, is_available, created_at, updated_at
		FROM availability_slots
		WHERE doctor_id = $1 AND start_time >= $2 AND start_time <= $3
		ORDER BY start_time ASC
	`

	return r.list(ctx, query, doctorID, from, to)
}

// Claim is the sole anti-double-booking gate: a conditional update, not a
// read-then-write. Only one concurrent caller can observe RowsAffected = 1.
func (r *slotRepository) Claim(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE availability_slots
		SET is_available = false, updated_at = NOW()
		WHERE id = $1 AND is_available = true
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to claim slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return 0, fmt.Errorf("claim slot %s: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *slotRepository) Release(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE availability_slots
		SET is_available = true, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to release slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return fmt.Errorf("release slot %s: %w", id.String(), err)
	}

	return nil
}

func (r *slotRepository) Delete(ctx context.Context, doctorID uuid.UUID, start time.Time) error {
	query := `DELETE FROM availability_slots WHERE doctor_id = $1 AND start_time = $2`

	_, err := r.db.Exec(ctx, query, doctorID, start)
	if err != nil {
		r.log.Error("Failed to delete slot",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
			zap.Time("start_time", start),
		)
		return fmt.Errorf("delete slot for doctor %s: %w", doctorID.String(), err)
	}

	return nil
}

func (r *slotRepository) scanOne(row pgx.Row) (*entity.Slot, error) {
	var slot entity.Slot
	err := row.Scan(
		&slot.ID,
		&slot.DoctorID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to scan slot row", zap.Error(err))
		return nil, fmt.Errorf("scan slot row: %w", err)
	}

	return &slot, nil
}

func (r *slotRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Slot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list slots", zap.Error(err))
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*entity.Slot
	for rows.Next() {
		var slot entity.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.DoctorID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsAvailable,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, nil
}
