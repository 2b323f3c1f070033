package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestReconcileAppliesThenIgnores(t *testing.T) {
	mocks, repo := newTestRepos()

	payment := &entity.Payment{
		Base:              entity.Base{ID: uuid.New()},
		AppointmentID:     uuid.New(),
		ProviderReference: "ord_abc",
		Status:            entity.PaymentStatusCreated,
	}

	mocks.Payment.FindByProviderReferenceFunc = func(_ context.Context, ref string) (*entity.Payment, error) {
		return payment, nil
	}
	mocks.Payment.MarkPaidFunc = func(_ context.Context, id uuid.UUID, paidAt time.Time) error {
		payment.Status = entity.PaymentStatusPaid
		payment.PaidAt = &paidAt
		return nil
	}

	svc := NewReconcileService(&FakeTxManager{Repo: repo}, zap.NewNop())

	first, err := svc.Reconcile(context.Background(), "ord_abc", "paid")
	assert.NoError(t, err)
	assert.Equal(t, PaymentOutcomeApplied, first)
	assert.Equal(t, 1, mocks.Appointment.MarkPaidIfPendingCalls)

	// Redelivery of the same notification.
	second, err := svc.Reconcile(context.Background(), "ord_abc", "paid")
	assert.NoError(t, err)
	assert.Equal(t, PaymentOutcomeIgnored, second)

	assert.Equal(t, 1, mocks.Payment.MarkPaidCalls)
	assert.Len(t, mocks.Audit.Entries, 1)
	assert.Equal(t, entity.AuditWebhookPaymentSuccess, mocks.Audit.Entries[0].Action)
}

func TestReconcileUnknownOrder(t *testing.T) {
	_, repo := newTestRepos()

	svc := NewReconcileService(&FakeTxManager{Repo: repo}, zap.NewNop())

	outcome, err := svc.Reconcile(context.Background(), "ord_missing", "paid")

	assert.NoError(t, err)
	assert.Equal(t, PaymentOutcomeNotFound, outcome)
}

// A notification arriving after the sweeper already failed the payment and
// cancelled the appointment must be ignored: the slot is back in the open
// pool and may belong to someone else by now.
func TestReconcileIgnoresFailedPayment(t *testing.T) {
	mocks, repo := newTestRepos()

	payment := &entity.Payment{
		Base:              entity.Base{ID: uuid.New()},
		AppointmentID:     uuid.New(),
		ProviderReference: "ord_late",
		Status:            entity.PaymentStatusFailed,
	}

	mocks.Payment.FindByProviderReferenceFunc = func(_ context.Context, ref string) (*entity.Payment, error) {
		return payment, nil
	}

	svc := NewReconcileService(&FakeTxManager{Repo: repo}, zap.NewNop())

	outcome, err := svc.Reconcile(context.Background(), "ord_late", "paid")

	assert.NoError(t, err)
	assert.Equal(t, PaymentOutcomeIgnored, outcome)
	assert.Equal(t, 0, mocks.Payment.MarkPaidCalls)
	assert.Equal(t, 0, mocks.Appointment.MarkPaidIfPendingCalls)
	assert.NotContains(t, mocks.Appointment.UpdateStatusCalls, entity.AppointmentStatusPaid)
	assert.Empty(t, mocks.Audit.Entries)
}

// The conditional transition is the last line of defense: if the sweeper
// cancelled the appointment between our payment read and the write, zero
// rows come back and nothing is recorded as paid.
func TestReconcileIgnoresNoLongerPendingAppointment(t *testing.T) {
	mocks, repo := newTestRepos()

	payment := &entity.Payment{
		Base:              entity.Base{ID: uuid.New()},
		AppointmentID:     uuid.New(),
		ProviderReference: "ord_raced",
		Status:            entity.PaymentStatusCreated,
	}

	mocks.Payment.FindByProviderReferenceFunc = func(_ context.Context, ref string) (*entity.Payment, error) {
		return payment, nil
	}
	mocks.Appointment.MarkPaidIfPendingFunc = func(_ context.Context, id uuid.UUID) (int64, error) {
		return 0, nil
	}

	svc := NewReconcileService(&FakeTxManager{Repo: repo}, zap.NewNop())

	outcome, err := svc.Reconcile(context.Background(), "ord_raced", "paid")

	assert.NoError(t, err)
	assert.Equal(t, PaymentOutcomeIgnored, outcome)
	assert.Equal(t, 0, mocks.Payment.MarkPaidCalls)
	assert.Empty(t, mocks.Audit.Entries)
}

func TestReconcileIgnoresOtherStates(t *testing.T) {
	mocks, repo := newTestRepos()

	svc := NewReconcileService(&FakeTxManager{Repo: repo}, zap.NewNop())

	outcome, err := svc.Reconcile(context.Background(), "ord_abc", "expired")

	assert.NoError(t, err)
	assert.Equal(t, PaymentOutcomeIgnored, outcome)
	assert.Equal(t, 0, mocks.Payment.MarkPaidCalls)
}
