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

type AppointmentRepository interface {
	Create(ctx context.Context, appt *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	ExistsActive(ctx context.Context, doctorID uuid.UUID, start time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error

	// CancelIfPending cancels only if the appointment is still
	// PENDING_PAYMENT; returns rows affected so the sweeper cannot clobber
	// a concurrently reconciled payment.
	CancelIfPending(ctx context.Context, id uuid.UUID) (int64, error)

	// MarkPaidIfPending moves PENDING_PAYMENT to PAID and reports rows
	// affected; zero rows means the appointment already left the pending
	// state, so reconciliation must not resurrect it.
	MarkPaidIfPending(ctx context.Context, id uuid.UUID) (int64, error)
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*entity.Appointment, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.AppointmentDetail, error)
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, upcoming bool, limit, offset int) ([]*entity.AppointmentDetail, error)
	CountByDoctor(ctx context.Context, doctorID uuid.UUID, upcoming bool) (int64, error)
	ListByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) ([]*entity.AppointmentDetail, error)
}

type appointmentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewAppointmentRepository(db database.Querier, log *zap.Logger) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "appointment")),
	}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, start_time, end_time, status, appointment_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		appt.ID,
		appt.PatientID,
		appt.DoctorID,
		appt.StartTime,
		appt.EndTime,
		appt.Status,
		appt.Type,
		appt.CreatedAt,
		appt.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("patient_id", appt.PatientID.String()),
			zap.String("doctor_id", appt.DoctorID.String()),
		)
		return fmt.Errorf("create appointment for patient %s: %w", appt.PatientID.String(), err)
	}

	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, start_time, end_time, status, appointment_type, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	var appt entity.Appointment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&appt.ID,
		&appt.PatientID,
		&appt.DoctorID,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.Type,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find appointment by ID",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("find appointment by ID %s: %w", id.String(), err)
	}

	return &appt, nil
}

func (r *appointmentRepository) ExistsActive(ctx context.Context, doctorID uuid.UUID, start time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND start_time = $2 AND status <> 'CANCELLED'
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, doctorID, start).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check active appointment",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
			zap.Time("start_time", start),
		)
		return false, fmt.Errorf("check active appointment for doctor %s: %w", doctorID.String(), err)
	}

	return exists, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update appointment status",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update appointment %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s not found", id.String())
	}

	return nil
}

func (r *appointmentRepository) CancelIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING_PAYMENT'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to cancel pending appointment",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return 0, fmt.Errorf("cancel pending appointment %s: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *appointmentRepository) MarkPaidIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'PAID', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING_PAYMENT'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark pending appointment paid",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return 0, fmt.Errorf("mark pending appointment %s paid: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *appointmentRepository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*entity.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, start_time, end_time, status, appointment_type, created_at, updated_at
		FROM appointments
		WHERE status = 'PENDING_PAYMENT' AND created_at < $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to list expired pending appointments", zap.Error(err))
		return nil, fmt.Errorf("list expired pending appointments: %w", err)
	}
	defer rows.Close()

	var appts []*entity.Appointment
	for rows.Next() {
		var appt entity.Appointment
		err := rows.Scan(
			&appt.ID,
			&appt.PatientID,
			&appt.DoctorID,
			&appt.StartTime,
			&appt.EndTime,
			&appt.Status,
			&appt.Type,
			&appt.CreatedAt,
			&appt.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan appointment row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appts = append(appts, &appt)
	}

	return appts, nil
}

const detailColumns = `
	a.id, a.patient_id, a.doctor_id, a.start_time, a.end_time, a.status, a.appointment_type, a.created_at, a.updated_at,
	u.name, u.email,
	p.id, p.appointment_id, p.provider, p.provider_reference, p.amount, p.currency, p.status, p.paid_at, p.created_at, p.updated_at
`

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.AppointmentDetail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		LEFT JOIN payments p ON p.appointment_id = a.id
		WHERE a.patient_id = $1
		ORDER BY a.start_time DESC
		LIMIT $2 OFFSET $3
	`

	return r.listDetails(ctx, query, patientID, limit, offset)
}

func (r *appointmentRepository) CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, patientID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count appointments by patient",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
		return 0, fmt.Errorf("count appointments by patient %s: %w", patientID.String(), err)
	}

	return count, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, upcoming bool, limit, offset int) ([]*entity.AppointmentDetail, error) {
	cmp, order := "<", "DESC"
	if upcoming {
		cmp, order = ">=", "ASC"
	}

	query := `
		SELECT ` + detailColumns + `
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		LEFT JOIN payments p ON p.appointment_id = a.id
		WHERE a.doctor_id = $1 AND a.start_time ` + cmp + ` NOW()
		ORDER BY a.start_time ` + order + `
		LIMIT $2 OFFSET $3
	`

	return r.listDetails(ctx, query, doctorID, limit, offset)
}

func (r *appointmentRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID, upcoming bool) (int64, error) {
	cmp := "<"
	if upcoming {
		cmp = ">="
	}

	query := `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND start_time ` + cmp + ` NOW()`

	var count int64
	err := r.db.QueryRow(ctx, query, doctorID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count appointments by doctor",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
		)
		return 0, fmt.Errorf("count appointments by doctor %s: %w", doctorID.String(), err)
	}

	return count, nil
}

func (r *appointmentRepository) ListByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) ([]*entity.AppointmentDetail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		LEFT JOIN payments p ON p.appointment_id = a.id
		WHERE a.doctor_id = $1 AND a.patient_id = $2
		ORDER BY a.start_time DESC
	`

	return r.listDetails(ctx, query, doctorID, patientID)
}

func (r *appointmentRepository) listDetails(ctx context.Context, query string, args ...any) ([]*entity.AppointmentDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list appointment details", zap.Error(err))
		return nil, fmt.Errorf("list appointment details: %w", err)
	}
	defer rows.Close()

	var details []*entity.AppointmentDetail
	for rows.Next() {
		var d entity.AppointmentDetail
		var payID *uuid.UUID
		var payApptID *uuid.UUID
		var payProvider *entity.PaymentProvider
		var payRef *string
		var payAmount *int64
		var payCurrency *string
		var payStatus *entity.PaymentStatus
		var payPaidAt *time.Time
		var payCreatedAt, payUpdatedAt *time.Time

		err := rows.Scan(
			&d.ID,
			&d.PatientID,
			&d.DoctorID,
			&d.StartTime,
			&d.EndTime,
			&d.Status,
			&d.Type,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.PatientName,
			&d.PatientEmail,
			&payID,
			&payApptID,
			&payProvider,
			&payRef,
			&payAmount,
			&payCurrency,
			&payStatus,
			&payPaidAt,
			&payCreatedAt,
			&payUpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan appointment detail row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment detail row: %w", err)
		}

		if payID != nil {
			d.Payment = &entity.Payment{
				AppointmentID:     *payApptID,
				Provider:          *payProvider,
				ProviderReference: *payRef,
				Amount:            *payAmount,
				Currency:          *payCurrency,
				Status:            *payStatus,
				PaidAt:            payPaidAt,
			}
			d.Payment.ID = *payID
			d.Payment.CreatedAt = *payCreatedAt
			d.Payment.UpdatedAt = *payUpdatedAt
		}

		details = append(details, &d)
	}

	return details, nil
}
