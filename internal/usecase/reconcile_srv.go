package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"

	"go.uber.org/zap"
)

type ReconcileOutcome int

const (
	// PaymentOutcomeApplied means the payment and appointment transitioned.
	PaymentOutcomeApplied ReconcileOutcome = iota
	// PaymentOutcomeIgnored means a duplicate or irrelevant notification.
	PaymentOutcomeIgnored
	// PaymentOutcomeNotFound means no payment carries the order reference.
	PaymentOutcomeNotFound
)

type ReconcileService interface {
	Reconcile(ctx context.Context, orderID, state string) (ReconcileOutcome, error)
}

type reconcileService struct {
	tx  repository.TxManager
	log *zap.Logger
}

func NewReconcileService(tx repository.TxManager, log *zap.Logger) ReconcileService {
	return &reconcileService{
		tx:  tx,
		log: log.With(zap.String("service", "reconcile")),
	}
}

// Reconcile applies an asynchronous payment notification. Redelivered
// notifications land on an already PAID payment and are ignored, so the
// provider can retry as often as it likes.
func (s *reconcileService) Reconcile(ctx context.Context, orderID, state string) (ReconcileOutcome, error) {
	if state != "paid" {
		s.log.Info("Ignoring non-paid order state",
			zap.String("order_id", orderID),
			zap.String("state", state),
		)
		return PaymentOutcomeIgnored, nil
	}

	outcome := PaymentOutcomeIgnored
	err := s.tx.InTx(ctx, func(r *repository.Repository) error {
		payment, err := r.Payment.FindByProviderReference(ctx, orderID)
		if err != nil {
			return err
		}
		if payment == nil {
			s.log.Warn("Notification for unknown order", zap.String("order_id", orderID))
			outcome = PaymentOutcomeNotFound
			return nil
		}
		if payment.Status == entity.PaymentStatusPaid {
			outcome = PaymentOutcomeIgnored
			return nil
		}
		// A FAILED payment means the sweeper (or gateway compensation)
		// already cancelled the appointment and reopened the slot, which
		// may be claimed again by now. A late notification must not pull
		// the appointment out of CANCELLED.
		if payment.Status == entity.PaymentStatusFailed {
			s.log.Warn("Notification for failed payment ignored",
				zap.String("order_id", orderID),
				zap.String("payment_id", payment.ID.String()),
			)
			outcome = PaymentOutcomeIgnored
			return nil
		}

		// Guard against the sweeper cancelling between our read and this
		// write: only a still-pending appointment may become PAID.
		rows, err := r.Appointment.MarkPaidIfPending(ctx, payment.AppointmentID)
		if err != nil {
			return err
		}
		if rows == 0 {
			s.log.Warn("Appointment no longer pending, notification ignored",
				zap.String("order_id", orderID),
				zap.String("appointment_id", payment.AppointmentID.String()),
			)
			outcome = PaymentOutcomeIgnored
			return nil
		}

		if err := r.Payment.MarkPaid(ctx, payment.ID, time.Now()); err != nil {
			return err
		}
		if err := r.Audit.Insert(ctx, auditEntry("appointment", payment.AppointmentID, entity.AuditWebhookPaymentSuccess, nil, map[string]string{
			"order_id": orderID,
		})); err != nil {
			return err
		}

		outcome = PaymentOutcomeApplied
		return nil
	})
	if err != nil {
		return PaymentOutcomeIgnored, err
	}

	if outcome == PaymentOutcomeApplied {
		s.log.Info("Payment reconciled", zap.String("order_id", orderID))
	}

	return outcome, nil
}
