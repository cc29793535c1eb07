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

func newSessionServiceWithMocks(
	accessCodeRepo *MockAccessCodeRepository,
	testRepo *MockTestRepository,
	cacheRepo *MockCacheRepository,
) *SessionService {
	return &SessionService{
		accessCodeRepo: accessCodeRepo,
		testRepo:       testRepo,
		cacheRepo:      cacheRepo,
		codec:          accesscode.New(""),
	}
}

func TestResolveSession_InvalidCodeShortCircuits(t *testing.T) {
	// Невалидный код отклоняется до обращения к хранилищу
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newSessionServiceWithMocks(accessCodeRepo, new(MockTestRepository), new(MockCacheRepository))

	cases := []struct {
		name string
		code string
	}{
		{"не base64", "!!!not-base64!!!"},
		{"мало сегментов", "NDItNw=="},         // "42-7"
		{"нулевой testId", "MC03LTA3MDMyNTA5MDU="}, // "0-7-0703250905"
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ResolveSession(tc.code, "anna@example.com")
			assert.ErrorIs(t, err, ErrInvalidAccessCode)
		})
	}

	accessCodeRepo.AssertNotCalled(t, "FindForSession")
}

func TestResolveSession_NoMatchingRecord(t *testing.T) {
	// Arrange
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newSessionServiceWithMocks(accessCodeRepo, new(MockTestRepository), new(MockCacheRepository))

	issuedAt := time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)
	code := svc.codec.Encode(42, 7, issuedAt)

	// Код валиден, но запись не найдена (чужой email или тест не ACTIVE)
	accessCodeRepo.On("FindForSession", uint(42), uint(7), accesscode.FormatCompact(issuedAt), "wrong@example.com").
		Return([]entity.TestAccessCode{}, nil)

	// Act
	_, err := svc.ResolveSession(code, "wrong@example.com")

	// Assert
	assert.ErrorIs(t, err, ErrNoMatchingSession)
}

func TestResolveSession_AmbiguousRecords(t *testing.T) {
	// Нарушение целостности: две записи для одной пары (тест, респондент)
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newSessionServiceWithMocks(accessCodeRepo, new(MockTestRepository), new(MockCacheRepository))

	issuedAt := time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)
	code := svc.codec.Encode(42, 7, issuedAt)

	accessCodeRepo.On("FindForSession", uint(42), uint(7), mock.Anything, "anna@example.com").
		Return([]entity.TestAccessCode{{ID: 1}, {ID: 2}}, nil)

	_, err := svc.ResolveSession(code, "anna@example.com")

	assert.ErrorIs(t, err, ErrAmbiguousSession)
}

func TestResolveSession_Success(t *testing.T) {
	// Arrange
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newSessionServiceWithMocks(accessCodeRepo, new(MockTestRepository), new(MockCacheRepository))

	issuedAt := time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)
	code := svc.codec.Encode(42, 7, issuedAt)

	accessCodeRepo.On("FindForSession", uint(42), uint(7), accesscode.FormatCompact(issuedAt), "anna@example.com").
		Return([]entity.TestAccessCode{
			{
				ID:           100,
				TestID:       42,
				RespondentID: 7,
				Respondent: entity.Respondent{
					ID:        7,
					FirstName: "Anna",
					LastName:  "Ivanova",
					Email:     "anna@example.com",
				},
			},
		}, nil)

	// Act
	identity, err := svc.ResolveSession(code, "anna@example.com")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(100), identity.AccessRecordID)
	assert.Equal(t, uint(42), identity.TestID)
	assert.Equal(t, uint(7), identity.RespondentID)
	assert.Equal(t, "Anna", identity.FirstName)
	assert.Equal(t, "anna@example.com", identity.Email)
}

func TestFetchQuizPayload_UnknownAccessRecord(t *testing.T) {
	accessCodeRepo := new(MockAccessCodeRepository)
	svc := newSessionServiceWithMocks(accessCodeRepo, new(MockTestRepository), new(MockCacheRepository))

	accessCodeRepo.On("GetByID", uint(999)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.FetchQuizPayload(999)

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFetchQuizPayload_StripsCorrectness(t *testing.T) {
	// Arrange
	accessCodeRepo := new(MockAccessCodeRepository)
	testRepo := new(MockTestRepository)
	cacheRepo := new(MockCacheRepository)
	svc := newSessionServiceWithMocks(accessCodeRepo, testRepo, cacheRepo)

	accessCodeRepo.On("GetByID", uint(100)).Return(&entity.TestAccessCode{ID: 100, TestID: 42}, nil)
	cacheRepo.On("GetJSON", "qz:payload:test:42", mock.Anything).Return(apperrors.ErrNotFound)

	test := &entity.Test{
		ID:                42,
		Name:              "Go Basics",
		Language:          "en",
		QuestionSortOrder: entity.QuestionSortOrderFixed,
		DurationMode:      entity.DurationModeWholeTest,
		DurationMin:       45,
		Mappings: []entity.TestQuestionMapping{
			{
				QuestionID:     1,
				AnswerOptionID: 10,
				IsCorrect:      true,
				Question:       entity.Question{ID: 1, Question: "What is a goroutine?", Type: entity.QuestionTypeSingleChoice},
				AnswerOption:   entity.AnswerOption{ID: 10, Answer: "A lightweight thread"},
			},
			{
				QuestionID:     1,
				AnswerOptionID: 11,
				IsCorrect:      false,
				Question:       entity.Question{ID: 1, Question: "What is a goroutine?", Type: entity.QuestionTypeSingleChoice},
				AnswerOption:   entity.AnswerOption{ID: 11, Answer: "An OS process"},
			},
			{
				QuestionID:     2,
				AnswerOptionID: 20,
				IsCorrect:      true,
				Question:       entity.Question{ID: 2, Question: "Pick the keywords", Type: entity.QuestionTypeMultiChoice},
				AnswerOption:   entity.AnswerOption{ID: 20, Answer: "chan"},
			},
		},
	}
	testRepo.On("GetWithMappings", uint(42)).Return(test, nil)
	cacheRepo.On("SetJSON", "qz:payload:test:42", mock.Anything, quizPayloadCacheTTL).Return(nil)

	// Act
	payload, err := svc.FetchQuizPayload(100)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), payload.TestID)
	assert.Equal(t, "Go Basics", payload.Name)
	require.Len(t, payload.Questions, 2)

	// Варианты сгруппированы по вопросам, порядок привязок сохранен
	first := payload.Questions[0]
	assert.Equal(t, uint(1), first.QuestionID)
	require.Len(t, first.Options, 2)
	assert.Equal(t, uint(10), first.Options[0].AnswerOptionID)
	assert.Equal(t, "A lightweight thread", first.Options[0].Answer)

	second := payload.Questions[1]
	assert.Equal(t, uint(2), second.QuestionID)
	require.Len(t, second.Options, 1)
}

func TestFetchQuizPayload_ServesFromCache(t *testing.T) {
	// Попадание в кеш не трогает PostgreSQL
	accessCodeRepo := new(MockAccessCodeRepository)
	testRepo := new(MockTestRepository)
	cacheRepo := new(MockCacheRepository)
	svc := newSessionServiceWithMocks(accessCodeRepo, testRepo, cacheRepo)

	accessCodeRepo.On("GetByID", uint(100)).Return(&entity.TestAccessCode{ID: 100, TestID: 42}, nil)
	cacheRepo.On("GetJSON", "qz:payload:test:42", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*QuizPayload)
			dest.TestID = 42
			dest.Name = "Cached"
		}).
		Return(nil)

	payload, err := svc.FetchQuizPayload(100)

	require.NoError(t, err)
	assert.Equal(t, "Cached", payload.Name)
	testRepo.AssertNotCalled(t, "GetWithMappings")
}
