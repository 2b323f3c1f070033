package repository

import (
	"context"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error)
	ListActive(ctx context.Context) ([]*entity.DoctorProfile, error)
}

type doctorRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewDoctorRepository(db database.Querier, log *zap.Logger) DoctorRepository {
	return &doctorRepository{
		db:  db,
		log: log.With(zap.String("repository", "doctor")),
	}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	query := `
		INSERT INTO doctors (id, user_id, specialty, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.Specialty,
		doctor.Active,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create doctor",
			zap.Error(err),
			zap.String("user_id", doctor.UserID.String()),
		)
		return fmt.Errorf("create doctor for user %s: %w", doctor.UserID.String(), err)
	}

	return nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	query := `
		SELECT id, user_id, specialty, active, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *doctorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	query := `
		SELECT id, user_id, specialty, active, created_at, updated_at
		FROM doctors
		WHERE user_id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *doctorRepository) ListActive(ctx context.Context) ([]*entity.DoctorProfile, error) {
	query := `
		SELECT d.id, d.user_id, d.specialty, d.active, d.created_at, d.updated_at, u.name, u.email
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.active = true AND u.is_active = true
		ORDER BY u.name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list active doctors", zap.Error(err))
		return nil, fmt.Errorf("list active doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*entity.DoctorProfile
	for rows.Next() {
		var d entity.DoctorProfile
		err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Specialty,
			&d.Active,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.Name,
			&d.Email,
		)
		if err != nil {
			r.log.Error("Failed to scan doctor row", zap.Error(err))
			return nil, fmt.Errorf("scan doctor row: %w", err)
		}
		doctors = append(doctors, &d)
	}

	return doctors, nil
}

func (r *doctorRepository) scanOne(row pgx.Row) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.UserID,
		&doctor.Specialty,
		&doctor.Active,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to scan doctor row", zap.Error(err))
		return nil, fmt.Errorf("scan doctor row: %w", err)
	}

	return &doctor, nil
}
