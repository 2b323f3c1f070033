package repository

import (
	"clinic-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User          UserRepository
	Doctor        DoctorRepository
	Session       SessionRepository
	Slot          SlotRepository
	Appointment   AppointmentRepository
	Payment       PaymentRepository
	MedicalRecord MedicalRecordRepository
	Audit         AuditLogRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return newWithQuerier(db, log)
}

// newWithQuerier binds every repo to q, which is either the pool or an
// open transaction. TxManager uses it to hand transactional callers a
// fully wired Repository.
func newWithQuerier(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(q, log),
		Doctor:        NewDoctorRepository(q, log),
		Session:       NewSessionRepository(q, log),
		Slot:          NewSlotRepository(q, log),
		Appointment:   NewAppointmentRepository(q, log),
		Payment:       NewPaymentRepository(q, log),
		MedicalRecord: NewMedicalRecordRepository(q, log),
		Audit:         NewAuditLogRepository(q, log),
	}
}
