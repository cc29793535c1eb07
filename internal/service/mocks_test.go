package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисов
// ============================================================================

// MockTestRepository реализует repository.TestRepository
type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) Create(test *entity.Test) error {
	args := m.Called(test)
	return args.Error(0)
}

func (m *MockTestRepository) GetByID(id uint) (*entity.Test, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Test), args.Error(1)
}

func (m *MockTestRepository) GetWithMappings(id uint) (*entity.Test, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Test), args.Error(1)
}

func (m *MockTestRepository) ListByOwner(ownerID uint, filters repository.TestFilters, limit, offset int) ([]entity.Test, int64, error) {
	args := m.Called(ownerID, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Test), args.Get(1).(int64), args.Error(2)
}

func (m *MockTestRepository) Update(test *entity.Test) error {
	args := m.Called(test)
	return args.Error(0)
}

func (m *MockTestRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockTestRepository) ReplaceMappings(testID uint, mappings []entity.TestQuestionMapping) error {
	args := m.Called(testID, mappings)
	return args.Error(0)
}

func (m *MockTestRepository) GetMappings(testID uint) ([]entity.TestQuestionMapping, error) {
	args := m.Called(testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TestQuestionMapping), args.Error(1)
}

func (m *MockTestRepository) CountQuestions(testID uint) (int64, error) {
	args := m.Called(testID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTestRepository) MarkSetupInProgress(testID uint) error {
	args := m.Called(testID)
	return args.Error(0)
}

func (m *MockTestRepository) ActivateIf(testID uint, fromStatus string, activatedAt time.Time) error {
	args := m.Called(testID, fromStatus, activatedAt)
	return args.Error(0)
}

// MockAccessCodeRepository реализует repository.AccessCodeRepository
type MockAccessCodeRepository struct {
	mock.Mock
}

func (m *MockAccessCodeRepository) Upsert(code *entity.TestAccessCode) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockAccessCodeRepository) GetByID(id uint) (*entity.TestAccessCode, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestAccessCode), args.Error(1)
}

func (m *MockAccessCodeRepository) ListByTest(testID uint) ([]entity.TestAccessCode, error) {
	args := m.Called(testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TestAccessCode), args.Error(1)
}

func (m *MockAccessCodeRepository) CountByTest(testID uint) (int64, error) {
	args := m.Called(testID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessCodeRepository) FindForSession(testID, respondentID uint, issuedAt, email string) ([]entity.TestAccessCode, error) {
	args := m.Called(testID, respondentID, issuedAt, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TestAccessCode), args.Error(1)
}

// MockRespondentRepository реализует repository.RespondentRepository
type MockRespondentRepository struct {
	mock.Mock
}

func (m *MockRespondentRepository) UpsertByEmail(respondent *entity.Respondent) error {
	args := m.Called(respondent)
	return args.Error(0)
}

func (m *MockRespondentRepository) GetByID(id uint) (*entity.Respondent, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Respondent), args.Error(1)
}

func (m *MockRespondentRepository) GetByEmail(email string) (*entity.Respondent, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Respondent), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAccessCode(ctx context.Context, toEmail, respondentName, testName, accessCode, idempotencyKey string) error {
	args := m.Called(ctx, toEmail, respondentName, testName, accessCode, idempotencyKey)
	return args.Error(0)
}
