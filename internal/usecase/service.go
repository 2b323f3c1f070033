package usecase

import (
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/integrations/culqi"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Doctor       DoctorService
	Availability AvailabilityService
	Booking      BookingService
	Reconcile    ReconcileService
	Record       RecordService
}

func NewService(repo *repository.Repository, tx repository.TxManager, gateway culqi.Gateway, cfg *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, cfg, log),
		User:         NewUserService(repo, log),
		Doctor:       NewDoctorService(repo, log),
		Availability: NewAvailabilityService(repo, tx, cfg, log),
		Booking:      NewBookingService(repo, tx, gateway, cfg, log),
		Reconcile:    NewReconcileService(tx, log),
		Record:       NewRecordService(repo, tx, log),
	}
}
