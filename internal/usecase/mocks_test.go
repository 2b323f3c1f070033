package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/integrations/culqi"

	"github.com/google/uuid"
)

// Compile-time checks that the mocks satisfy the repository contracts.
var (
	_ repository.SlotRepository          = (*MockSlotRepository)(nil)
	_ repository.AppointmentRepository   = (*MockAppointmentRepository)(nil)
	_ repository.PaymentRepository       = (*MockPaymentRepository)(nil)
	_ repository.UserRepository          = (*MockUserRepository)(nil)
	_ repository.DoctorRepository        = (*MockDoctorRepository)(nil)
	_ repository.MedicalRecordRepository = (*MockMedicalRecordRepository)(nil)
	_ repository.AuditLogRepository      = (*MockAuditLogRepository)(nil)
	_ repository.SessionRepository       = (*MockSessionRepository)(nil)
	_ repository.TxManager               = (*FakeTxManager)(nil)
	_ culqi.Gateway                      = (*MockGateway)(nil)
)

// FakeTxManager hands fn the mock-populated Repository instead of opening a
// real transaction.
type FakeTxManager struct {
	Repo  *repository.Repository
	Calls int
	Err   error
}

func (m *FakeTxManager) InTx(_ context.Context, fn func(r *repository.Repository) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(m.Repo)
}

type MockSlotRepository struct {
	CreateFunc            func(ctx context.Context, slot *entity.Slot) (bool, error)
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	FindByDoctorStartFunc func(ctx context.Context, doctorID uuid.UUID, start time.Time) (*entity.Slot, error)
	ListOpenFunc          func(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error)
	ListForDoctorFunc     func(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error)
	ClaimFunc             func(ctx context.Context, id uuid.UUID) (int64, error)
	ReleaseFunc           func(ctx context.Context, id uuid.UUID) error
	DeleteFunc            func(ctx context.Context, doctorID uuid.UUID, start time.Time) error

	ClaimCalls   int
	ReleaseCalls int
	DeleteCalls  int
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *entity.Slot) (bool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, slot)
	}
	return true, nil
}

func (m *MockSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSlotRepository) FindByDoctorStart(ctx context.Context, doctorID uuid.UUID, start time.Time) (*entity.Slot, error) {
	if m.FindByDoctorStartFunc != nil {
		return m.FindByDoctorStartFunc(ctx, doctorID, start)
	}
	return nil, nil
}

func (m *MockSlotRepository) ListOpen(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error) {
	if m.ListOpenFunc != nil {
		return m.ListOpenFunc(ctx, doctorID, from, to)
	}
	return nil, nil
}

func (m *MockSlotRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*entity.Slot, error) {
	if m.ListForDoctorFunc != nil {
		return m.ListForDoctorFunc(ctx, doctorID, from, to)
	}
	return nil, nil
}

func (m *MockSlotRepository) Claim(ctx context.Context, id uuid.UUID) (int64, error) {
	m.ClaimCalls++
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockSlotRepository) Release(ctx context.Context, id uuid.UUID) error {
	m.ReleaseCalls++
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, id)
	}
	return nil
}

func (m *MockSlotRepository) Delete(ctx context.Context, doctorID uuid.UUID, start time.Time) error {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, doctorID, start)
	}
	return nil
}

type MockAppointmentRepository struct {
	CreateFunc                 func(ctx context.Context, appt *entity.Appointment) error
	FindByIDFunc               func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	ExistsActiveFunc           func(ctx context.Context, doctorID uuid.UUID, start time.Time) (bool, error)
	UpdateStatusFunc           func(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error
	CancelIfPendingFunc        func(ctx context.Context, id uuid.UUID) (int64, error)
	MarkPaidIfPendingFunc      func(ctx context.Context, id uuid.UUID) (int64, error)
	ListExpiredPendingFunc     func(ctx context.Context, cutoff time.Time) ([]*entity.Appointment, error)
	ListByPatientFunc          func(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.AppointmentDetail, error)
	CountByPatientFunc         func(ctx context.Context, patientID uuid.UUID) (int64, error)
	ListByDoctorFunc           func(ctx context.Context, doctorID uuid.UUID, upcoming bool, limit, offset int) ([]*entity.AppointmentDetail, error)
	CountByDoctorFunc          func(ctx context.Context, doctorID uuid.UUID, upcoming bool) (int64, error)
	ListByDoctorAndPatientFunc func(ctx context.Context, doctorID, patientID uuid.UUID) ([]*entity.AppointmentDetail, error)

	CreateCalls            int
	UpdateStatusCalls      []entity.AppointmentStatus
	MarkPaidIfPendingCalls int
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, appt)
	}
	return nil
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) ExistsActive(ctx context.Context, doctorID uuid.UUID, start time.Time) (bool, error) {
	if m.ExistsActiveFunc != nil {
		return m.ExistsActiveFunc(ctx, doctorID, start)
	}
	return false, nil
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, status)
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockAppointmentRepository) CancelIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.CancelIfPendingFunc != nil {
		return m.CancelIfPendingFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockAppointmentRepository) MarkPaidIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	m.MarkPaidIfPendingCalls++
	if m.MarkPaidIfPendingFunc != nil {
		return m.MarkPaidIfPendingFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockAppointmentRepository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*entity.Appointment, error) {
	if m.ListExpiredPendingFunc != nil {
		return m.ListExpiredPendingFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.AppointmentDetail, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID, limit, offset)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	if m.CountByPatientFunc != nil {
		return m.CountByPatientFunc(ctx, patientID)
	}
	return 0, nil
}

func (m *MockAppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, upcoming bool, limit, offset int) ([]*entity.AppointmentDetail, error) {
	if m.ListByDoctorFunc != nil {
		return m.ListByDoctorFunc(ctx, doctorID, upcoming, limit, offset)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID, upcoming bool) (int64, error) {
	if m.CountByDoctorFunc != nil {
		return m.CountByDoctorFunc(ctx, doctorID, upcoming)
	}
	return 0, nil
}

func (m *MockAppointmentRepository) ListByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) ([]*entity.AppointmentDetail, error) {
	if m.ListByDoctorAndPatientFunc != nil {
		return m.ListByDoctorAndPatientFunc(ctx, doctorID, patientID)
	}
	return nil, nil
}

type MockPaymentRepository struct {
	CreateFunc                  func(ctx context.Context, payment *entity.Payment) error
	FindByAppointmentIDFunc     func(ctx context.Context, appointmentID uuid.UUID) (*entity.Payment, error)
	FindByProviderReferenceFunc func(ctx context.Context, ref string) (*entity.Payment, error)
	SetProviderReferenceFunc    func(ctx context.Context, id uuid.UUID, ref string) error
	MarkPaidFunc                func(ctx context.Context, id uuid.UUID, paidAt time.Time) error
	UpdateStatusFunc            func(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error
	UpsertPaidFunc              func(ctx context.Context, payment *entity.Payment) error

	CreateCalls       int
	MarkPaidCalls     int
	UpdateStatusCalls []entity.PaymentStatus
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, payment)
	}
	return nil
}

func (m *MockPaymentRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Payment, error) {
	if m.FindByAppointmentIDFunc != nil {
		return m.FindByAppointmentIDFunc(ctx, appointmentID)
	}
	return nil, nil
}

func (m *MockPaymentRepository) FindByProviderReference(ctx context.Context, ref string) (*entity.Payment, error) {
	if m.FindByProviderReferenceFunc != nil {
		return m.FindByProviderReferenceFunc(ctx, ref)
	}
	return nil, nil
}

func (m *MockPaymentRepository) SetProviderReference(ctx context.Context, id uuid.UUID, ref string) error {
	if m.SetProviderReferenceFunc != nil {
		return m.SetProviderReferenceFunc(ctx, id, ref)
	}
	return nil
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	m.MarkPaidCalls++
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, id, paidAt)
	}
	return nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, status)
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockPaymentRepository) UpsertPaid(ctx context.Context, payment *entity.Payment) error {
	if m.UpsertPaidFunc != nil {
		return m.UpsertPaidFunc(ctx, payment)
	}
	return nil
}

type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *entity.User) error
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmailFunc   func(ctx context.Context, email string) (*entity.User, error)
	UpdateProfileFunc func(ctx context.Context, user *entity.User) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, user)
	}
	return nil
}

type MockDoctorRepository struct {
	CreateFunc       func(ctx context.Context, doctor *entity.Doctor) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByUserIDFunc func(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error)
	ListActiveFunc   func(ctx context.Context) ([]*entity.DoctorProfile, error)
}

func (m *MockDoctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, doctor)
	}
	return nil
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockDoctorRepository) ListActive(ctx context.Context) ([]*entity.DoctorProfile, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

type MockMedicalRecordRepository struct {
	CreateFunc              func(ctx context.Context, record *entity.MedicalRecord) error
	FindByAppointmentIDFunc func(ctx context.Context, appointmentID uuid.UUID) (*entity.MedicalRecord, error)

	CreateCalls int
}

func (m *MockMedicalRecordRepository) Create(ctx context.Context, record *entity.MedicalRecord) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return nil
}

func (m *MockMedicalRecordRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.MedicalRecord, error) {
	if m.FindByAppointmentIDFunc != nil {
		return m.FindByAppointmentIDFunc(ctx, appointmentID)
	}
	return nil, nil
}

type MockAuditLogRepository struct {
	InsertFunc func(ctx context.Context, entry *entity.AuditLog) error

	Entries []*entity.AuditLog
}

func (m *MockAuditLogRepository) Insert(ctx context.Context, entry *entity.AuditLog) error {
	m.Entries = append(m.Entries, entry)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	return nil
}

type MockSessionRepository struct {
	CreateFunc           func(ctx context.Context, session *entity.Session) error
	FindValidSessionFunc func(ctx context.Context, token string) (*entity.Session, error)
	RevokeFunc           func(ctx context.Context, token string) error

	Created []*entity.Session
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	m.Created = append(m.Created, session)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	if m.FindValidSessionFunc != nil {
		return m.FindValidSessionFunc(ctx, token)
	}
	return nil, nil
}

func (m *MockSessionRepository) Revoke(ctx context.Context, token string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	return nil
}

type MockGateway struct {
	CreateOrderFunc func(ctx context.Context, req *culqi.OrderRequest) (*culqi.Order, error)

	CreateOrderCalls int
}

func (m *MockGateway) CreateOrder(ctx context.Context, req *culqi.OrderRequest) (*culqi.Order, error) {
	m.CreateOrderCalls++
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return nil, errors.New("CreateOrderFunc not implemented in mock")
}

// testRepos bundles fresh mocks into a Repository for one test.
type testRepos struct {
	Slot        *MockSlotRepository
	Appointment *MockAppointmentRepository
	Payment     *MockPaymentRepository
	User        *MockUserRepository
	Doctor      *MockDoctorRepository
	Record      *MockMedicalRecordRepository
	Audit       *MockAuditLogRepository
	Session     *MockSessionRepository
}

func newTestRepos() (*testRepos, *repository.Repository) {
	mocks := &testRepos{
		Slot:        &MockSlotRepository{},
		Appointment: &MockAppointmentRepository{},
		Payment:     &MockPaymentRepository{},
		User:        &MockUserRepository{},
		Doctor:      &MockDoctorRepository{},
		Record:      &MockMedicalRecordRepository{},
		Audit:       &MockAuditLogRepository{},
		Session:     &MockSessionRepository{},
	}

	repo := &repository.Repository{
		Slot:          mocks.Slot,
		Appointment:   mocks.Appointment,
		Payment:       mocks.Payment,
		User:          mocks.User,
		Doctor:        mocks.Doctor,
		MedicalRecord: mocks.Record,
		Audit:         mocks.Audit,
		Session:       mocks.Session,
	}

	return mocks, repo
}
