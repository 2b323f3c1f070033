package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/database"
	"clinic-booking/pkg/utils"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	seedDays      = 7
	seedStartHour = 9
	seedEndHour   = 17
	seedSlotStep  = 30 * time.Minute
)

// Seeds a demo doctor with a week of open slots plus a handful of patient
// accounts. Safe to re-run: users are skipped by email, slots by the
// (doctor_id, start_time) constraint.
func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := repository.NewRepository(db, logger)
	ctx := context.Background()

	loc, err := time.LoadLocation(config.App.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	doctor, err := seedDoctor(ctx, repos)
	if err != nil {
		logger.Fatal("Failed to seed doctor", zap.Error(err))
	}

	created, err := seedSlots(ctx, repos, doctor, loc)
	if err != nil {
		logger.Fatal("Failed to seed slots", zap.Error(err))
	}
	logger.Info("Slots seeded", zap.Int("created", created))

	if err := seedPatients(ctx, repos, 5); err != nil {
		logger.Fatal("Failed to seed patients", zap.Error(err))
	}

	if err := seedAdmin(ctx, repos); err != nil {
		logger.Fatal("Failed to seed admin", zap.Error(err))
	}

	logger.Info("Seed complete")
}

func seedDoctor(ctx context.Context, repos *repository.Repository) (*entity.Doctor, error) {
	const email = "doctor@clinic.test"

	user, err := repos.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user, err = newUser("Dra. Maria Torres", email, entity.RoleDoctor)
		if err != nil {
			return nil, err
		}
		if err := repos.User.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	doctor, err := repos.Doctor.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if doctor != nil {
		return doctor, nil
	}

	now := time.Now()
	doctor = &entity.Doctor{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    user.ID,
		Specialty: "Medicina General",
		Active:    true,
	}
	if err := repos.Doctor.Create(ctx, doctor); err != nil {
		return nil, err
	}

	return doctor, nil
}

func seedSlots(ctx context.Context, repos *repository.Repository, doctor *entity.Doctor, loc *time.Location) (int, error) {
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	created := 0
	for day := 0; day < seedDays; day++ {
		date := today.AddDate(0, 0, day)
		dayStart := date.Add(seedStartHour * time.Hour)
		dayEnd := date.Add(seedEndHour * time.Hour)

		for start := dayStart; start.Before(dayEnd); start = start.Add(seedSlotStep) {
			if start.Before(now) {
				continue
			}

			ts := time.Now()
			inserted, err := repos.Slot.Create(ctx, &entity.Slot{
				Base: entity.Base{
					ID:        uuid.New(),
					CreatedAt: ts,
					UpdatedAt: ts,
				},
				DoctorID:    doctor.ID,
				StartTime:   start,
				EndTime:     start.Add(seedSlotStep),
				IsAvailable: true,
			})
			if err != nil {
				return created, err
			}
			if inserted {
				created++
			}
		}
	}

	return created, nil
}

func seedPatients(ctx context.Context, repos *repository.Repository, count int) error {
	for i := 0; i < count; i++ {
		email := fmt.Sprintf("patient%d@clinic.test", i+1)

		existing, err := repos.User.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		user, err := newUser(gofakeit.Name(), email, entity.RolePatient)
		if err != nil {
			return err
		}
		phone := gofakeit.Phone()
		address := gofakeit.Street()
		user.Phone = &phone
		user.Address = &address

		if err := repos.User.Create(ctx, user); err != nil {
			return err
		}
	}

	return nil
}

func seedAdmin(ctx context.Context, repos *repository.Repository) error {
	const email = "admin@clinic.test"

	existing, err := repos.User.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	user, err := newUser("Admin", email, entity.RoleAdmin)
	if err != nil {
		return err
	}

	return repos.User.Create(ctx, user)
}

func newUser(name, email string, role entity.Role) (*entity.User, error) {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}
