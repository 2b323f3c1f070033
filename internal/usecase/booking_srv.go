package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/internal/integrations/culqi"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	Reserve(ctx context.Context, patientID uuid.UUID, req *request.CreateAppointmentRequest) (*response.ReservationResponse, error)
	GetAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*response.AppointmentResponse, error)
	ListPatientAppointments(ctx context.Context, patientID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)

	// SimulatePayment marks a pending appointment paid without the
	// provider. Admin only; used in environments without real checkout.
	SimulatePayment(ctx context.Context, adminID uuid.UUID, appointmentID uuid.UUID) error

	// ReleaseExpiredReservations cancels PENDING_PAYMENT appointments older
	// than the configured TTL and reopens their slots.
	ReleaseExpiredReservations(ctx context.Context) (int, error)
}

type bookingService struct {
	repo    *repository.Repository
	tx      repository.TxManager
	gateway culqi.Gateway
	cfg     *utils.Config
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, tx repository.TxManager, gateway culqi.Gateway, cfg *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		tx:      tx,
		gateway: gateway,
		cfg:     cfg,
		log:     log.With(zap.String("service", "booking")),
	}
}

// Reserve runs the booking saga. First transaction: claim the slot and
// create the appointment plus a payment placeholder. Then, outside any
// transaction, create the provider order. Second transaction: attach the
// order reference, or on gateway failure compensate by reopening the slot
// and cancelling the appointment. The slot claim is a conditional update,
// so two patients racing for the same slot cannot both win.
func (s *bookingService) Reserve(ctx context.Context, patientID uuid.UUID, req *request.CreateAppointmentRequest) (*response.ReservationResponse, error) {
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, ErrSlotNotFound
	}

	patient, err := s.repo.User.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrUserNotFound
	}

	var (
		appt    *entity.Appointment
		payment *entity.Payment
	)

	err = s.tx.InTx(ctx, func(r *repository.Repository) error {
		slot, err := r.Slot.FindByID(ctx, slotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return ErrSlotNotFound
		}
		if slot.StartTime.Before(time.Now()) {
			return ErrSlotUnavailable
		}

		rows, err := r.Slot.Claim(ctx, slot.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrSlotUnavailable
		}

		now := time.Now()
		appt = &entity.Appointment{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			PatientID: patientID,
			DoctorID:  slot.DoctorID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    entity.AppointmentStatusPendingPayment,
			Type:      entity.AppointmentType(req.AppointmentType),
		}
		if err := r.Appointment.Create(ctx, appt); err != nil {
			return err
		}

		payment = &entity.Payment{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			AppointmentID: appt.ID,
			Provider:      entity.PaymentProviderCulqi,
			Amount:        s.cfg.Payment.ConsultationPriceCents,
			Currency:      s.cfg.Payment.Currency,
			Status:        entity.PaymentStatusCreated,
		}
		return r.Payment.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	order, gatewayErr := s.createOrder(ctx, patient, appt, payment)
	if gatewayErr != nil {
		s.log.Error("Gateway order failed, compensating reservation",
			zap.Error(gatewayErr),
			zap.String("appointment_id", appt.ID.String()),
		)
		if compErr := s.compensate(ctx, appt, payment); compErr != nil {
			// The sweeper will pick this reservation up once it ages out.
			s.log.Error("Compensation failed, reservation left to sweeper",
				zap.Error(compErr),
				zap.String("appointment_id", appt.ID.String()),
			)
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, gatewayErr)
	}

	err = s.tx.InTx(ctx, func(r *repository.Repository) error {
		if err := r.Payment.SetProviderReference(ctx, payment.ID, order.ID); err != nil {
			return err
		}
		return r.Audit.Insert(ctx, auditEntry("appointment", appt.ID, entity.AuditBookingInitiated, &patientID, map[string]string{
			"order_id": order.ID,
			"slot_id":  slotID.String(),
		}))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Reservation created",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("order_id", order.ID),
	)

	return &response.ReservationResponse{
		AppointmentID:  appt.ID.String(),
		OrderID:        order.ID,
		CulqiPublicKey: s.cfg.Payment.CulqiPublicKey,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Status:         string(appt.Status),
	}, nil
}

func (s *bookingService) createOrder(ctx context.Context, patient *entity.User, appt *entity.Appointment, payment *entity.Payment) (*culqi.Order, error) {
	firstName, lastName := splitName(patient.Name)
	phone := ""
	if patient.Phone != nil {
		phone = *patient.Phone
	}

	return s.gateway.CreateOrder(ctx, &culqi.OrderRequest{
		Amount:       payment.Amount,
		CurrencyCode: payment.Currency,
		Description:  fmt.Sprintf("Consulta medica %s", appt.StartTime.Format("2006-01-02 15:04")),
		OrderNumber:  utils.GenerateOrderNumber(),
		ClientDetails: culqi.ClientDetails{
			FirstName:   firstName,
			LastName:    lastName,
			Email:       patient.Email,
			PhoneNumber: phone,
		},
		ExpirationDate: time.Now().Add(s.cfg.Payment.PendingTTL).Unix(),
		Metadata: map[string]string{
			"appointment_id": appt.ID.String(),
		},
	})
}

func (s *bookingService) compensate(ctx context.Context, appt *entity.Appointment, payment *entity.Payment) error {
	return s.tx.InTx(ctx, func(r *repository.Repository) error {
		slot, err := r.Slot.FindByDoctorStart(ctx, appt.DoctorID, appt.StartTime)
		if err != nil {
			return err
		}
		if slot != nil {
			if err := r.Slot.Release(ctx, slot.ID); err != nil {
				return err
			}
		}
		if err := r.Appointment.UpdateStatus(ctx, appt.ID, entity.AppointmentStatusCancelled); err != nil {
			return err
		}
		return r.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed)
	})
}

func (s *bookingService) GetAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*response.AppointmentResponse, error) {
	appt, err := s.repo.Appointment.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.PatientID != patientID {
		return nil, ErrNotAppointmentOwner
	}

	detail := &entity.AppointmentDetail{Appointment: *appt}

	if payment, err := s.repo.Payment.FindByAppointmentID(ctx, appointmentID); err == nil && payment != nil {
		detail.Payment = payment
	}
	if record, err := s.repo.MedicalRecord.FindByAppointmentID(ctx, appointmentID); err == nil && record != nil {
		detail.Record = record
	}

	resp := toAppointmentResponse(detail)
	return &resp, nil
}

func (s *bookingService) ListPatientAppointments(ctx context.Context, patientID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	page.Normalize()
	offset := utils.CalculateOffset(page.Page, page.Limit)

	details, err := s.repo.Appointment.ListByPatient(ctx, patientID, page.Limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Appointment.CountByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	items := make([]response.AppointmentResponse, 0, len(details))
	for _, d := range details {
		items = append(items, toAppointmentResponse(d))
	}

	return &response.PaginatedResponse[response.AppointmentResponse]{
		Items:      items,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: utils.CalculateTotalPages(total, page.Limit),
	}, nil
}

func (s *bookingService) SimulatePayment(ctx context.Context, adminID uuid.UUID, appointmentID uuid.UUID) error {
	return s.tx.InTx(ctx, func(r *repository.Repository) error {
		appt, err := r.Appointment.FindByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if appt == nil {
			return ErrAppointmentNotFound
		}
		if appt.Status != entity.AppointmentStatusPendingPayment {
			return ErrAppointmentNotPaid
		}

		now := time.Now()
		payment := &entity.Payment{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			AppointmentID:     appt.ID,
			Provider:          entity.PaymentProviderCulqi,
			ProviderReference: "simulated-" + appt.ID.String(),
			Amount:            s.cfg.Payment.ConsultationPriceCents,
			Currency:          s.cfg.Payment.Currency,
			Status:            entity.PaymentStatusPaid,
			PaidAt:            &now,
		}
		if err := r.Payment.UpsertPaid(ctx, payment); err != nil {
			return err
		}

		if err := r.Appointment.UpdateStatus(ctx, appt.ID, entity.AppointmentStatusPaid); err != nil {
			return err
		}

		return r.Audit.Insert(ctx, auditEntry("appointment", appt.ID, entity.AuditPaymentSimulated, &adminID, nil))
	})
}

func (s *bookingService) ReleaseExpiredReservations(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.cfg.Payment.PendingTTL)

	expired, err := s.repo.Appointment.ListExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, appt := range expired {
		err := s.tx.InTx(ctx, func(r *repository.Repository) error {
			// Conditional cancel: a webhook may have flipped this to PAID
			// between the listing and now.
			rows, err := r.Appointment.CancelIfPending(ctx, appt.ID)
			if err != nil {
				return err
			}
			if rows == 0 {
				return nil
			}

			slot, err := r.Slot.FindByDoctorStart(ctx, appt.DoctorID, appt.StartTime)
			if err != nil {
				return err
			}
			if slot != nil {
				if err := r.Slot.Release(ctx, slot.ID); err != nil {
					return err
				}
			}

			if payment, err := r.Payment.FindByAppointmentID(ctx, appt.ID); err != nil {
				return err
			} else if payment != nil && payment.Status == entity.PaymentStatusCreated {
				if err := r.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed); err != nil {
					return err
				}
			}

			released++
			return r.Audit.Insert(ctx, auditEntry("appointment", appt.ID, entity.AuditBookingExpired, nil, nil))
		})
		if err != nil {
			s.log.Error("Failed to release expired reservation",
				zap.Error(err),
				zap.String("appointment_id", appt.ID.String()),
			)
		}
	}

	if released > 0 {
		s.log.Info("Expired reservations released", zap.Int("count", released))
	}

	return released, nil
}

func splitName(full string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func auditEntry(entityName string, entityID uuid.UUID, action string, actorID *uuid.UUID, metadata map[string]string) *entity.AuditLog {
	var raw json.RawMessage
	if metadata != nil {
		raw, _ = json.Marshal(metadata)
	}

	return &entity.AuditLog{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Entity:   entityName,
		EntityID: entityID,
		Action:   action,
		ActorID:  actorID,
		Metadata: raw,
	}
}
