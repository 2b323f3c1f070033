package usecase

import (
	"context"
	"testing"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/dto/request"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRegisterCreatesPatient(t *testing.T) {
	mocks, repo := newTestRepos()

	var created *entity.User
	mocks.User.CreateFunc = func(_ context.Context, user *entity.User) error {
		created = user
		return nil
	}

	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Carlos Mendoza",
		Email:    "carlos@example.com",
		Password: "supersecret1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, string(entity.RolePatient), resp.User.Role)

	if assert.NotNil(t, created) {
		// Self-service signup never yields anything but a patient.
		assert.Equal(t, entity.RolePatient, created.Role)
		assert.NotEqual(t, "supersecret1", created.PasswordHash)
		assert.True(t, utils.CheckPassword(created.PasswordHash, "supersecret1"))
	}

	if assert.Len(t, mocks.Session.Created, 1) {
		assert.Equal(t, entity.RolePatient, mocks.Session.Created[0].Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mocks, repo := newTestRepos()

	mocks.User.FindByEmailFunc = func(_ context.Context, email string) (*entity.User, error) {
		return testPatient(), nil
	}

	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Carlos Mendoza",
		Email:    "carlos@example.com",
		Password: "supersecret1",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	mocks, repo := newTestRepos()

	hash, _ := utils.HashPassword("rightpassword")
	user := testPatient()
	user.PasswordHash = hash

	mocks.User.FindByEmailFunc = func(_ context.Context, email string) (*entity.User, error) {
		return user, nil
	}

	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    user.Email,
		Password: "wrongpassword",
	}, "", "")

	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.Empty(t, mocks.Session.Created)
}

func TestLoginInactiveUser(t *testing.T) {
	mocks, repo := newTestRepos()

	hash, _ := utils.HashPassword("rightpassword")
	user := testPatient()
	user.PasswordHash = hash
	user.IsActive = false

	mocks.User.FindByEmailFunc = func(_ context.Context, email string) (*entity.User, error) {
		return user, nil
	}

	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    user.Email,
		Password: "rightpassword",
	}, "", "")

	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginIssuesSessionWithRole(t *testing.T) {
	mocks, repo := newTestRepos()

	hash, _ := utils.HashPassword("rightpassword")
	user := testPatient()
	user.PasswordHash = hash
	user.Role = entity.RoleDoctor

	mocks.User.FindByEmailFunc = func(_ context.Context, email string) (*entity.User, error) {
		return user, nil
	}

	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    user.Email,
		Password: "rightpassword",
	}, "test-agent", "10.0.0.1:1234")

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	_, parseErr := uuid.Parse(resp.Token)
	assert.NoError(t, parseErr)

	if assert.Len(t, mocks.Session.Created, 1) {
		session := mocks.Session.Created[0]
		assert.Equal(t, entity.RoleDoctor, session.Role)
		assert.Equal(t, user.ID, session.UserID)
		if assert.NotNil(t, session.UserAgent) {
			assert.Equal(t, "test-agent", *session.UserAgent)
		}
	}
}
