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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Payment, error)
	FindByProviderReference(ctx context.Context, ref string) (*entity.Payment, error)
	SetProviderReference(ctx context.Context, id uuid.UUID, ref string) error
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error

	// UpsertPaid records a simulated/manual payment. The unique constraint
	// on appointment_id keeps the one-payment-per-appointment invariant.
	UpsertPaid(ctx context.Context, payment *entity.Payment) error
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, appointment_id, provider, provider_reference, amount, currency, status, paid_at, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, appointment_id, provider, provider_reference, amount, currency, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.AppointmentID,
		payment.Provider,
		payment.ProviderReference,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("appointment_id", payment.AppointmentID.String()),
		)
		return fmt.Errorf("create payment for appointment %s: %w", payment.AppointmentID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE appointment_id = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, appointmentID))
}

func (r *paymentRepository) FindByProviderReference(ctx context.Context, ref string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_reference = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, ref))
}

func (r *paymentRepository) SetProviderReference(ctx context.Context, id uuid.UUID, ref string) error {
	query := `UPDATE payments SET provider_reference = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, ref)
	if err != nil {
		r.log.Error("Failed to set provider reference",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("provider_reference", ref),
		)
		return fmt.Errorf("set provider reference on payment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	query := `UPDATE payments SET status = 'PAID', paid_at = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, paidAt)
	if err != nil {
		r.log.Error("Failed to mark payment paid",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return fmt.Errorf("mark payment %s paid: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}

func (r *paymentRepository) UpsertPaid(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, appointment_id, provider, provider_reference, amount, currency, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (appointment_id) DO UPDATE
		SET status = EXCLUDED.status,
		    provider_reference = EXCLUDED.provider_reference,
		    paid_at = EXCLUDED.paid_at,
		    updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.AppointmentID,
		payment.Provider,
		payment.ProviderReference,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert payment",
			zap.Error(err),
			zap.String("appointment_id", payment.AppointmentID.String()),
		)
		return fmt.Errorf("upsert payment for appointment %s: %w", payment.AppointmentID.String(), err)
	}

	return nil
}

func (r *paymentRepository) scanOne(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.AppointmentID,
		&payment.Provider,
		&payment.ProviderReference,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.PaidAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to scan payment row", zap.Error(err))
		return nil, fmt.Errorf("scan payment row: %w", err)
	}

	return &payment, nil
}
