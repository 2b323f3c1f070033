package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MedicalRecordRepository interface {
	Create(ctx context.Context, record *entity.MedicalRecord) error
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.MedicalRecord, error)
}

type medicalRecordRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMedicalRecordRepository(db database.Querier, log *zap.Logger) MedicalRecordRepository {
	return &medicalRecordRepository{
		db:  db,
		log: log.With(zap.String("repository", "medical_record")),
	}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *entity.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (id, appointment_id, diagnosis, symptoms, prescription, notes, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.AppointmentID,
		record.Diagnosis,
		record.Symptoms,
		record.Prescription,
		record.Notes,
		record.Type,
		record.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create medical record",
			zap.Error(err),
			zap.String("appointment_id", record.AppointmentID.String()),
		)
		return fmt.Errorf("create medical record for appointment %s: %w", record.AppointmentID.String(), err)
	}

	return nil
}

func (r *medicalRecordRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.MedicalRecord, error) {
	query := `
		SELECT id, appointment_id, diagnosis, symptoms, prescription, notes, type, created_at
		FROM medical_records
		WHERE appointment_id = $1
	`

	var record entity.MedicalRecord
	err := r.db.QueryRow(ctx, query, appointmentID).Scan(
		&record.ID,
		&record.AppointmentID,
		&record.Diagnosis,
		&record.Symptoms,
		&record.Prescription,
		&record.Notes,
		&record.Type,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to find medical record",
			zap.Error(err),
			zap.String("appointment_id", appointmentID.String()),
		)
		return nil, fmt.Errorf("find medical record for appointment %s: %w", appointmentID.String(), err)
	}

	return &record, nil
}
