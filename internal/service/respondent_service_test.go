package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/pkg/accesscode"
)

var provisionNow = time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)

func newRespondentServiceWithMocks(
	testRepo *MockTestRepository,
	respondentRepo *MockRespondentRepository,
	accessCodeRepo *MockAccessCodeRepository,
) *RespondentService {
	return &RespondentService{
		testRepo:       testRepo,
		respondentRepo: respondentRepo,
		accessCodeRepo: accessCodeRepo,
		codec:          accesscode.New(""),
		now:            func() time.Time { return provisionNow },
	}
}

func TestProvisionRespondents_RejectsEmptyBatch(t *testing.T) {
	svc := newRespondentServiceWithMocks(new(MockTestRepository), new(MockRespondentRepository), new(MockAccessCodeRepository))

	_, err := svc.ProvisionRespondents(1, nil)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProvisionRespondents_RejectsOversizedBatch(t *testing.T) {
	svc := newRespondentServiceWithMocks(new(MockTestRepository), new(MockRespondentRepository), new(MockAccessCodeRepository))

	batch := make([]ProvisionedRespondent, MaxRespondentsPerBatch+1)
	for i := range batch {
		batch[i].Email = "r@example.com"
	}

	_, err := svc.ProvisionRespondents(1, batch)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProvisionRespondents_RejectsBlankEmail(t *testing.T) {
	svc := newRespondentServiceWithMocks(new(MockTestRepository), new(MockRespondentRepository), new(MockAccessCodeRepository))

	batch := []ProvisionedRespondent{
		{FirstName: "Anna", Email: "anna@example.com"},
		{FirstName: "NoEmail", Email: "   "},
	}

	_, err := svc.ProvisionRespondents(1, batch)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProvisionRespondents_RequiresExistingTest(t *testing.T) {
	testRepo := new(MockTestRepository)
	svc := newRespondentServiceWithMocks(testRepo, new(MockRespondentRepository), new(MockAccessCodeRepository))

	testRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.ProvisionRespondents(99, []ProvisionedRespondent{{Email: "a@example.com"}})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProvisionRespondents_IssuesCodesInOrder(t *testing.T) {
	// Arrange
	testRepo := new(MockTestRepository)
	respondentRepo := new(MockRespondentRepository)
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newRespondentServiceWithMocks(testRepo, respondentRepo, accessCodeRepo)

	testRepo.On("GetByID", uint(42)).Return(&entity.Test{ID: 42, Status: entity.TestStatusSetupInProgress}, nil)

	// Upsert присваивает идентификаторы в порядке обработки
	nextID := uint(0)
	respondentRepo.On("UpsertByEmail", mock.AnythingOfType("*entity.Respondent")).
		Run(func(args mock.Arguments) {
			nextID++
			args.Get(0).(*entity.Respondent).ID = nextID
		}).
		Return(nil)

	var upserted []*entity.TestAccessCode
	accessCodeRepo.On("Upsert", mock.AnythingOfType("*entity.TestAccessCode")).
		Run(func(args mock.Arguments) {
			upserted = append(upserted, args.Get(0).(*entity.TestAccessCode))
		}).
		Return(nil)

	batch := []ProvisionedRespondent{
		{FirstName: "Anna", LastName: "Ivanova", Email: "anna@example.com"},
		{FirstName: "Boris", Email: "boris@example.com"},
	}

	// Act
	result, err := svc.ProvisionRespondents(42, batch)

	// Assert
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Порядок партии сохранен, идентификаторы присвоены
	assert.Equal(t, uint(1), result[0].RespondentID)
	assert.Equal(t, "anna@example.com", result[0].Email)
	assert.Equal(t, uint(2), result[1].RespondentID)

	// Код детерминирован для фиксированного момента выдачи
	codec := accesscode.New("")
	assert.Equal(t, codec.Encode(42, 1, provisionNow), result[0].AccessCode)
	assert.Equal(t, codec.Encode(42, 2, provisionNow), result[1].AccessCode)

	// Запись кода хранит ту же компактную метку, что закодирована в коде
	require.Len(t, upserted, 2)
	assert.Equal(t, accesscode.FormatCompact(provisionNow), upserted[0].IssuedAt)
	assert.Equal(t, uint(42), upserted[0].TestID)
}

func TestProvisionRespondents_ReissueOverwritesCode(t *testing.T) {
	// Повторная подача того же email дает новый код для той же записи
	testRepo := new(MockTestRepository)
	respondentRepo := new(MockRespondentRepository)
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newRespondentServiceWithMocks(testRepo, respondentRepo, accessCodeRepo)

	testRepo.On("GetByID", uint(7)).Return(&entity.Test{ID: 7}, nil)

	// Существующий респондент: upsert возвращает прежний ID
	respondentRepo.On("UpsertByEmail", mock.AnythingOfType("*entity.Respondent")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Respondent).ID = 15
		}).
		Return(nil)
	accessCodeRepo.On("Upsert", mock.AnythingOfType("*entity.TestAccessCode")).Return(nil)

	result, err := svc.ProvisionRespondents(7, []ProvisionedRespondent{
		{FirstName: "Renamed", Email: "same@example.com"},
	})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, uint(15), result[0].RespondentID)

	codec := accesscode.New("")
	assert.Equal(t, codec.Encode(7, 15, provisionNow), result[0].AccessCode)
}

func TestListProvisioned(t *testing.T) {
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newRespondentServiceWithMocks(new(MockTestRepository), new(MockRespondentRepository), accessCodeRepo)

	accessCodeRepo.On("ListByTest", uint(3)).Return([]entity.TestAccessCode{
		{
			ID:           1,
			TestID:       3,
			RespondentID: 5,
			Code:         "abc",
			Respondent:   entity.Respondent{ID: 5, FirstName: "Anna", Email: "anna@example.com"},
		},
	}, nil)

	result, err := svc.ListProvisioned(3)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, uint(5), result[0].RespondentID)
	assert.Equal(t, "abc", result[0].AccessCode)
	assert.Equal(t, "anna@example.com", result[0].Email)
}
