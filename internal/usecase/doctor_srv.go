package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DoctorService interface {
	ListDoctors(ctx context.Context) ([]response.DoctorResponse, error)
	ListOpenSlots(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]response.SlotResponse, error)
	ListAppointments(ctx context.Context, doctorUserID uuid.UUID, upcoming bool, page *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)
}

type doctorService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDoctorService(repo *repository.Repository, log *zap.Logger) DoctorService {
	return &doctorService{
		repo: repo,
		log:  log.With(zap.String("service", "doctor")),
	}
}

func (s *doctorService) ListDoctors(ctx context.Context) ([]response.DoctorResponse, error) {
	doctors, err := s.repo.Doctor.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]response.DoctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, response.DoctorResponse{
			ID:        d.ID.String(),
			Name:      d.Name,
			Email:     d.Email,
			Specialty: d.Specialty,
		})
	}

	return out, nil
}

func (s *doctorService) ListOpenSlots(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]response.SlotResponse, error) {
	doctor, err := s.repo.Doctor.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.Active {
		return nil, ErrDoctorNotFound
	}

	slots, err := s.repo.Slot.ListOpen(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	return toSlotResponses(slots), nil
}

func (s *doctorService) ListAppointments(ctx context.Context, doctorUserID uuid.UUID, upcoming bool, page *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	doctor, err := s.repo.Doctor.FindByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	page.Normalize()
	offset := utils.CalculateOffset(page.Page, page.Limit)

	details, err := s.repo.Appointment.ListByDoctor(ctx, doctor.ID, upcoming, page.Limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Appointment.CountByDoctor(ctx, doctor.ID, upcoming)
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

func toSlotResponses(slots []*entity.Slot) []response.SlotResponse {
	out := make([]response.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, response.SlotResponse{
			ID:          slot.ID.String(),
			DoctorID:    slot.DoctorID.String(),
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
			IsAvailable: slot.IsAvailable,
		})
	}
	return out
}

func toAppointmentResponse(d *entity.AppointmentDetail) response.AppointmentResponse {
	resp := response.AppointmentResponse{
		ID:           d.ID.String(),
		DoctorID:     d.DoctorID.String(),
		PatientID:    d.PatientID.String(),
		PatientName:  d.PatientName,
		PatientEmail: d.PatientEmail,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		Status:       string(d.Status),
		Type:         string(d.Type),
		CreatedAt:    d.CreatedAt,
	}

	if d.Payment != nil {
		resp.Payment = &response.PaymentResponse{
			ID:                d.Payment.ID.String(),
			Provider:          string(d.Payment.Provider),
			ProviderReference: d.Payment.ProviderReference,
			Amount:            d.Payment.Amount,
			Currency:          d.Payment.Currency,
			Status:            string(d.Payment.Status),
			PaidAt:            d.Payment.PaidAt,
		}
	}

	if d.Record != nil {
		resp.Record = &response.RecordResponse{
			ID:            d.Record.ID.String(),
			AppointmentID: d.Record.AppointmentID.String(),
			Diagnosis:     d.Record.Diagnosis,
			Symptoms:      d.Record.Symptoms,
			Prescription:  d.Record.Prescription,
			Notes:         d.Record.Notes,
			Type:          d.Record.Type,
			CreatedAt:     d.Record.CreatedAt,
		}
	}

	return resp
}
