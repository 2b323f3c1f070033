package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/integrations/culqi"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{TimeZone: "America/Lima"},
		Payment: utils.PaymentConfig{
			CulqiPublicKey:         "pk_test_123",
			ConsultationPriceCents: 10000,
			Currency:               "PEN",
			PendingTTL:             24 * time.Hour,
		},
		Session: utils.SessionConfig{ExpiryHours: 168},
	}
}

func futureSlot(doctorID uuid.UUID) *entity.Slot {
	start := time.Now().Add(48 * time.Hour)
	return &entity.Slot{
		Base:        entity.Base{ID: uuid.New()},
		DoctorID:    doctorID,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		IsAvailable: true,
	}
}

func testPatient() *entity.User {
	return &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Name:     "Ana Quispe",
		Email:    "ana@example.com",
		Role:     entity.RolePatient,
		IsActive: true,
	}
}

func TestReserveSuccess(t *testing.T) {
	mocks, repo := newTestRepos()
	patient := testPatient()
	slot := futureSlot(uuid.New())

	mocks.User.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return patient, nil
	}
	mocks.Slot.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
		return slot, nil
	}

	gateway := &MockGateway{
		CreateOrderFunc: func(_ context.Context, req *culqi.OrderRequest) (*culqi.Order, error) {
			return &culqi.Order{
				ID:           "ord_test_123",
				OrderNumber:  req.OrderNumber,
				Amount:       req.Amount,
				CurrencyCode: req.CurrencyCode,
				State:        "pending",
			}, nil
		},
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, gateway, testConfig(), zap.NewNop())

	resp, err := svc.Reserve(context.Background(), patient.ID, &request.CreateAppointmentRequest{
		SlotID:          slot.ID.String(),
		AppointmentType: "virtual",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ord_test_123", resp.OrderID)
	assert.Equal(t, "pk_test_123", resp.CulqiPublicKey)
	assert.Equal(t, string(entity.AppointmentStatusPendingPayment), resp.Status)
	assert.Equal(t, int64(10000), resp.Amount)

	assert.Equal(t, 1, mocks.Slot.ClaimCalls)
	assert.Equal(t, 1, mocks.Appointment.CreateCalls)
	assert.Equal(t, 1, mocks.Payment.CreateCalls)

	if assert.Len(t, mocks.Audit.Entries, 1) {
		assert.Equal(t, entity.AuditBookingInitiated, mocks.Audit.Entries[0].Action)
		assert.NotNil(t, mocks.Audit.Entries[0].ActorID)
	}
}

func TestReserveSlotAlreadyClaimed(t *testing.T) {
	mocks, repo := newTestRepos()
	patient := testPatient()
	slot := futureSlot(uuid.New())

	mocks.User.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return patient, nil
	}
	mocks.Slot.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
		return slot, nil
	}
	mocks.Slot.ClaimFunc = func(_ context.Context, id uuid.UUID) (int64, error) {
		return 0, nil
	}

	gateway := &MockGateway{}
	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, gateway, testConfig(), zap.NewNop())

	_, err := svc.Reserve(context.Background(), patient.ID, &request.CreateAppointmentRequest{
		SlotID:          slot.ID.String(),
		AppointmentType: "virtual",
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 0, mocks.Appointment.CreateCalls)
	assert.Equal(t, 0, gateway.CreateOrderCalls)
}

// Two patients race for the same slot: the second claim affects zero rows
// and the loser walks away without an appointment or a gateway call.
func TestReserveConcurrentClaim(t *testing.T) {
	mocks, repo := newTestRepos()
	patient := testPatient()
	slot := futureSlot(uuid.New())

	mocks.User.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return patient, nil
	}
	mocks.Slot.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
		return slot, nil
	}

	claims := 0
	mocks.Slot.ClaimFunc = func(_ context.Context, id uuid.UUID) (int64, error) {
		claims++
		if claims == 1 {
			return 1, nil
		}
		return 0, nil
	}

	gateway := &MockGateway{
		CreateOrderFunc: func(_ context.Context, req *culqi.OrderRequest) (*culqi.Order, error) {
			return &culqi.Order{ID: "ord_winner", State: "pending"}, nil
		},
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, gateway, testConfig(), zap.NewNop())

	req := &request.CreateAppointmentRequest{SlotID: slot.ID.String(), AppointmentType: "in_person"}

	_, firstErr := svc.Reserve(context.Background(), patient.ID, req)
	_, secondErr := svc.Reserve(context.Background(), patient.ID, req)

	assert.NoError(t, firstErr)
	assert.ErrorIs(t, secondErr, ErrSlotUnavailable)
	assert.Equal(t, 1, mocks.Appointment.CreateCalls)
	assert.Equal(t, 1, gateway.CreateOrderCalls)
}

func TestReserveGatewayFailureCompensates(t *testing.T) {
	mocks, repo := newTestRepos()
	patient := testPatient()
	slot := futureSlot(uuid.New())

	mocks.User.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return patient, nil
	}
	mocks.Slot.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
		return slot, nil
	}
	mocks.Slot.FindByDoctorStartFunc = func(_ context.Context, doctorID uuid.UUID, start time.Time) (*entity.Slot, error) {
		return slot, nil
	}

	gateway := &MockGateway{
		CreateOrderFunc: func(_ context.Context, req *culqi.OrderRequest) (*culqi.Order, error) {
			return nil, errors.New("provider unreachable")
		},
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, gateway, testConfig(), zap.NewNop())

	_, err := svc.Reserve(context.Background(), patient.ID, &request.CreateAppointmentRequest{
		SlotID:          slot.ID.String(),
		AppointmentType: "virtual",
	})

	assert.ErrorIs(t, err, ErrPaymentGateway)

	// Compensation reopened the slot and cancelled the started records.
	assert.Equal(t, 1, mocks.Slot.ReleaseCalls)
	assert.Contains(t, mocks.Appointment.UpdateStatusCalls, entity.AppointmentStatusCancelled)
	assert.Contains(t, mocks.Payment.UpdateStatusCalls, entity.PaymentStatusFailed)
	assert.Empty(t, mocks.Audit.Entries)
}

func TestReservePastSlotRejected(t *testing.T) {
	mocks, repo := newTestRepos()
	patient := testPatient()
	slot := futureSlot(uuid.New())
	slot.StartTime = time.Now().Add(-time.Hour)

	mocks.User.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return patient, nil
	}
	mocks.Slot.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
		return slot, nil
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, &MockGateway{}, testConfig(), zap.NewNop())

	_, err := svc.Reserve(context.Background(), patient.ID, &request.CreateAppointmentRequest{
		SlotID:          slot.ID.String(),
		AppointmentType: "virtual",
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 0, mocks.Slot.ClaimCalls)
}

func TestReleaseExpiredReservations(t *testing.T) {
	mocks, repo := newTestRepos()

	doctorID := uuid.New()
	start := time.Now().Add(-time.Hour)
	appt := &entity.Appointment{
		Base:      entity.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		StartTime: start,
		Status:    entity.AppointmentStatusPendingPayment,
	}
	payment := &entity.Payment{
		Base:          entity.Base{ID: uuid.New()},
		AppointmentID: appt.ID,
		Status:        entity.PaymentStatusCreated,
	}
	slot := &entity.Slot{
		Base:      entity.Base{ID: uuid.New()},
		DoctorID:  doctorID,
		StartTime: start,
	}

	mocks.Appointment.ListExpiredPendingFunc = func(_ context.Context, cutoff time.Time) ([]*entity.Appointment, error) {
		return []*entity.Appointment{appt}, nil
	}
	mocks.Slot.FindByDoctorStartFunc = func(_ context.Context, id uuid.UUID, ts time.Time) (*entity.Slot, error) {
		return slot, nil
	}
	mocks.Payment.FindByAppointmentIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
		return payment, nil
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, &MockGateway{}, testConfig(), zap.NewNop())

	released, err := svc.ReleaseExpiredReservations(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, 1, mocks.Slot.ReleaseCalls)
	assert.Contains(t, mocks.Payment.UpdateStatusCalls, entity.PaymentStatusFailed)

	if assert.Len(t, mocks.Audit.Entries, 1) {
		assert.Equal(t, entity.AuditBookingExpired, mocks.Audit.Entries[0].Action)
		assert.Nil(t, mocks.Audit.Entries[0].ActorID)
	}
}

// A reservation that got paid between the sweep listing and the cancel must
// not be touched: the conditional cancel affects zero rows.
func TestReleaseExpiredSkipsReconciled(t *testing.T) {
	mocks, repo := newTestRepos()

	appt := &entity.Appointment{
		Base:      entity.Base{ID: uuid.New()},
		DoctorID:  uuid.New(),
		StartTime: time.Now().Add(-time.Hour),
		Status:    entity.AppointmentStatusPendingPayment,
	}

	mocks.Appointment.ListExpiredPendingFunc = func(_ context.Context, cutoff time.Time) ([]*entity.Appointment, error) {
		return []*entity.Appointment{appt}, nil
	}
	mocks.Appointment.CancelIfPendingFunc = func(_ context.Context, id uuid.UUID) (int64, error) {
		return 0, nil
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, &MockGateway{}, testConfig(), zap.NewNop())

	released, err := svc.ReleaseExpiredReservations(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, 0, mocks.Slot.ReleaseCalls)
	assert.Empty(t, mocks.Audit.Entries)
}

func TestSimulatePaymentRequiresPending(t *testing.T) {
	mocks, repo := newTestRepos()

	appt := &entity.Appointment{
		Base:   entity.Base{ID: uuid.New()},
		Status: entity.AppointmentStatusPaid,
	}
	mocks.Appointment.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
		return appt, nil
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, &MockGateway{}, testConfig(), zap.NewNop())

	err := svc.SimulatePayment(context.Background(), uuid.New(), appt.ID)

	assert.ErrorIs(t, err, ErrAppointmentNotPaid)
}

func TestSimulatePaymentMarksPaid(t *testing.T) {
	mocks, repo := newTestRepos()

	appt := &entity.Appointment{
		Base:   entity.Base{ID: uuid.New()},
		Status: entity.AppointmentStatusPendingPayment,
	}
	mocks.Appointment.FindByIDFunc = func(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
		return appt, nil
	}

	var upserted *entity.Payment
	mocks.Payment.UpsertPaidFunc = func(_ context.Context, p *entity.Payment) error {
		upserted = p
		return nil
	}

	svc := NewBookingService(repo, &FakeTxManager{Repo: repo}, &MockGateway{}, testConfig(), zap.NewNop())

	adminID := uuid.New()
	err := svc.SimulatePayment(context.Background(), adminID, appt.ID)

	assert.NoError(t, err)
	if assert.NotNil(t, upserted) {
		assert.Equal(t, entity.PaymentStatusPaid, upserted.Status)
		assert.NotNil(t, upserted.PaidAt)
	}
	assert.Contains(t, mocks.Appointment.UpdateStatusCalls, entity.AppointmentStatusPaid)

	if assert.Len(t, mocks.Audit.Entries, 1) {
		assert.Equal(t, entity.AuditPaymentSimulated, mocks.Audit.Entries[0].Action)
		assert.Equal(t, adminID, *mocks.Audit.Entries[0].ActorID)
	}
}
