package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func TestRegister_NormalizesEmailAndCreates(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo)

	userRepo.On("GetByEmail", "admin@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := svc.Register("  Admin@Example.COM ", "supersecret", "Ada", "L")

	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, entity.UserRoleAdmin, user.Role)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository))

	_, err := svc.Register("admin@example.com", "short", "", "")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo)

	userRepo.On("GetByEmail", "admin@example.com").Return(&entity.User{ID: 1, Email: "admin@example.com"}, nil)

	_, err := svc.Register("admin@example.com", "supersecret", "", "")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create")
}

func TestLogin_UnknownEmailYieldsUnauthorized(t *testing.T) {
	// Не раскрываем, существует ли учетная запись
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo)

	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Login("ghost@example.com", "whatever")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo)

	user := &entity.User{ID: 1, Email: "admin@example.com", Password: "plaintext"}
	require.NoError(t, user.BeforeSave(nil)) // хешируем пароль как при сохранении
	userRepo.On("GetByEmail", "admin@example.com").Return(user, nil)

	_, err := svc.Login("admin@example.com", "not-the-password")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo)

	user := &entity.User{ID: 1, Email: "admin@example.com", Password: "plaintext"}
	require.NoError(t, user.BeforeSave(nil))
	userRepo.On("GetByEmail", "admin@example.com").Return(user, nil)

	got, err := svc.Login("Admin@Example.com", "plaintext")

	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
}
