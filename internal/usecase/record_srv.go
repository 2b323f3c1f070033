package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecordService interface {
	CreateRecord(ctx context.Context, doctorUserID uuid.UUID, req *request.CreateRecordRequest) (*response.RecordResponse, error)
	PatientHistory(ctx context.Context, doctorUserID, patientID uuid.UUID) ([]response.AppointmentResponse, error)
}

type recordService struct {
	repo *repository.Repository
	tx   repository.TxManager
	log  *zap.Logger
}

func NewRecordService(repo *repository.Repository, tx repository.TxManager, log *zap.Logger) RecordService {
	return &recordService{
		repo: repo,
		tx:   tx,
		log:  log.With(zap.String("service", "record")),
	}
}

// CreateRecord files a diagnosis against a paid appointment owned by the
// calling doctor and moves the appointment to CONFIRMED. One record per
// appointment.
func (s *recordService) CreateRecord(ctx context.Context, doctorUserID uuid.UUID, req *request.CreateRecordRequest) (*response.RecordResponse, error) {
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, ErrAppointmentNotFound
	}

	doctor, err := s.repo.Doctor.FindByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	var record *entity.MedicalRecord
	err = s.tx.InTx(ctx, func(r *repository.Repository) error {
		appt, err := r.Appointment.FindByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if appt == nil {
			return ErrAppointmentNotFound
		}
		if appt.DoctorID != doctor.ID {
			return ErrNotAppointmentOwner
		}
		if appt.Status != entity.AppointmentStatusPaid {
			return ErrAppointmentNotPaid
		}

		existing, err := r.MedicalRecord.FindByAppointmentID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrRecordExists
		}

		record = &entity.MedicalRecord{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			AppointmentID: appointmentID,
			Diagnosis:     req.Diagnosis,
			Symptoms:      req.Symptoms,
			Prescription:  req.Prescription,
			Notes:         req.Notes,
			Type:          req.Type,
		}
		if err := r.MedicalRecord.Create(ctx, record); err != nil {
			return err
		}

		return r.Appointment.UpdateStatus(ctx, appointmentID, entity.AppointmentStatusConfirmed)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Medical record filed",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("doctor_id", doctor.ID.String()),
	)

	return &response.RecordResponse{
		ID:            record.ID.String(),
		AppointmentID: record.AppointmentID.String(),
		Diagnosis:     record.Diagnosis,
		Symptoms:      record.Symptoms,
		Prescription:  record.Prescription,
		Notes:         record.Notes,
		Type:          record.Type,
		CreatedAt:     record.CreatedAt,
	}, nil
}

// PatientHistory lists the shared history between the calling doctor and
// one patient, records included where filed.
func (s *recordService) PatientHistory(ctx context.Context, doctorUserID, patientID uuid.UUID) ([]response.AppointmentResponse, error) {
	doctor, err := s.repo.Doctor.FindByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	details, err := s.repo.Appointment.ListByDoctorAndPatient(ctx, doctor.ID, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]response.AppointmentResponse, 0, len(details))
	for _, d := range details {
		if record, err := s.repo.MedicalRecord.FindByAppointmentID(ctx, d.ID); err == nil && record != nil {
			d.Record = record
		}
		out = append(out, toAppointmentResponse(d))
	}

	return out, nil
}
