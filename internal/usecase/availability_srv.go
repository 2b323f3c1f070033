package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	OpenSlot(ctx context.Context, doctorUserID uuid.UUID, req *request.ToggleSlotRequest) (*response.SlotResponse, error)
	CloseSlot(ctx context.Context, doctorUserID uuid.UUID, req *request.ToggleSlotRequest) error
	GenerateSlots(ctx context.Context, doctorUserID uuid.UUID, req *request.GenerateSlotsRequest) (*response.GenerateSlotsResponse, error)
	ListSlotsForDate(ctx context.Context, doctorUserID uuid.UUID, date string) ([]response.SlotResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	tx   repository.TxManager
	loc  *time.Location
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, tx repository.TxManager, cfg *utils.Config, log *zap.Logger) AvailabilityService {
	loc, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		log.Warn("Unknown timezone, falling back to UTC", zap.String("timezone", cfg.App.TimeZone))
		loc = time.UTC
	}

	return &availabilityService{
		repo: repo,
		tx:   tx,
		loc:  loc,
		log:  log.With(zap.String("service", "availability")),
	}
}

// OpenSlot publishes a one-hour window. Opening an already open window is a
// no-op thanks to the unique (doctor_id, start_time) constraint.
func (s *availabilityService) OpenSlot(ctx context.Context, doctorUserID uuid.UUID, req *request.ToggleSlotRequest) (*response.SlotResponse, error) {
	doctor, err := s.doctorFor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	start, err := s.slotStart(req.Date, req.Hour)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	slot := &entity.Slot{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DoctorID:    doctor.ID,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		IsAvailable: true,
	}

	inserted, err := s.repo.Slot.Create(ctx, slot)
	if err != nil {
		return nil, err
	}
	if !inserted {
		existing, err := s.repo.Slot.FindByDoctorStart(ctx, doctor.ID, start)
		if err != nil {
			return nil, err
		}
		slot = existing
	}

	return &response.SlotResponse{
		ID:          slot.ID.String(),
		DoctorID:    slot.DoctorID.String(),
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		IsAvailable: slot.IsAvailable,
	}, nil
}

// CloseSlot withdraws a window. A window held by a non-cancelled appointment
// cannot be closed; the appointment has to be resolved first. The check and
// the delete run in one transaction so a concurrent claim cannot slip
// between them.
func (s *availabilityService) CloseSlot(ctx context.Context, doctorUserID uuid.UUID, req *request.ToggleSlotRequest) error {
	doctor, err := s.doctorFor(ctx, doctorUserID)
	if err != nil {
		return err
	}

	start, err := s.slotStart(req.Date, req.Hour)
	if err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(r *repository.Repository) error {
		slot, err := r.Slot.FindByDoctorStart(ctx, doctor.ID, start)
		if err != nil {
			return err
		}
		if slot == nil {
			return ErrSlotNotFound
		}

		held, err := r.Appointment.ExistsActive(ctx, doctor.ID, start)
		if err != nil {
			return err
		}
		if held {
			return ErrBlockedByActiveAppointment
		}

		return r.Slot.Delete(ctx, doctor.ID, start)
	})
}

// GenerateSlots bulk-publishes windows for the next req.Days days. Existing
// windows are skipped, so re-running the generation with the same inputs
// produces the same slot set.
func (s *availabilityService) GenerateSlots(ctx context.Context, doctorUserID uuid.UUID, req *request.GenerateSlotsRequest) (*response.GenerateSlotsResponse, error) {
	doctor, err := s.doctorFor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	step := time.Duration(req.SlotMinutes) * time.Minute

	resp := &response.GenerateSlotsResponse{}
	for day := 0; day < req.Days; day++ {
		date := today.AddDate(0, 0, day)
		dayStart := date.Add(time.Duration(req.StartHour) * time.Hour)
		dayEnd := date.Add(time.Duration(req.EndHour) * time.Hour)

		for start := dayStart; start.Before(dayEnd); start = start.Add(step) {
			if start.Before(now) {
				continue
			}

			ts := time.Now()
			slot := &entity.Slot{
				Base: entity.Base{
					ID:        uuid.New(),
					CreatedAt: ts,
					UpdatedAt: ts,
				},
				DoctorID:    doctor.ID,
				StartTime:   start,
				EndTime:     start.Add(step),
				IsAvailable: true,
			}

			inserted, err := s.repo.Slot.Create(ctx, slot)
			if err != nil {
				return nil, err
			}
			if inserted {
				resp.Created++
			} else {
				resp.Skipped++
			}
		}
	}

	s.log.Info("Slots generated",
		zap.String("doctor_id", doctor.ID.String()),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
	)

	return resp, nil
}

func (s *availabilityService) ListSlotsForDate(ctx context.Context, doctorUserID uuid.UUID, date string) ([]response.SlotResponse, error) {
	doctor, err := s.doctorFor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	dayStart, err := s.slotStart(date, 0)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.Slot.ListForDoctor(ctx, doctor.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return toSlotResponses(slots), nil
}

func (s *availabilityService) doctorFor(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	doctor, err := s.repo.Doctor.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// slotStart anchors a (date, hour) pair in the clinic timezone.
func (s *availabilityService) slotStart(date string, hour int) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return day.Add(time.Duration(hour) * time.Hour), nil
}
