package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// TestService предоставляет методы жизненного цикла теста:
// создание/настройка, привязка вопросов и активация.
type TestService struct {
	testRepo       repository.TestRepository
	accessCodeRepo repository.AccessCodeRepository
	cacheRepo      repository.CacheRepository
	emailService   EmailService
	now            func() time.Time
}

// NewTestService создает новый сервис тестов
func NewTestService(
	testRepo repository.TestRepository,
	accessCodeRepo repository.AccessCodeRepository,
	cacheRepo repository.CacheRepository,
	emailService EmailService,
) *TestService {
	return &TestService{
		testRepo:       testRepo,
		accessCodeRepo: accessCodeRepo,
		cacheRepo:      cacheRepo,
		emailService:   emailService,
		now:            time.Now,
	}
}

// CreateTest создает новый тест в статусе DRAFT
func (s *TestService) CreateTest(ownerID uint, name, description, category string) (*entity.Test, error) {
	test := &entity.Test{
		Name:              name,
		Description:       description,
		Category:          category,
		Status:            entity.TestStatusDraft,
		QuestionSortOrder: entity.QuestionSortOrderRandom,
		CreateUserID:      ownerID,
	}

	if err := s.testRepo.Create(test); err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}
	return test, nil
}

// GetTestByID возвращает тест по ID
func (s *TestService) GetTestByID(testID uint) (*entity.Test, error) {
	return s.testRepo.GetByID(testID)
}

// GetTestWithMappings возвращает тест с привязками вопросов
func (s *TestService) GetTestWithMappings(testID uint) (*entity.Test, error) {
	return s.testRepo.GetWithMappings(testID)
}

// ListTests возвращает тесты владельца с фильтрацией и пагинацией
func (s *TestService) ListTests(ownerID uint, filters repository.TestFilters, page, pageSize int) ([]entity.Test, int64, error) {
	offset := (page - 1) * pageSize
	return s.testRepo.ListByOwner(ownerID, filters, pageSize, offset)
}

// UpdateTestDefinition обновляет базовые атрибуты теста
func (s *TestService) UpdateTestDefinition(testID uint, name, description, category, questionSortOrder string) (*entity.Test, error) {
	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}

	test.Name = name
	test.Description = description
	test.Category = category
	if questionSortOrder != "" {
		test.QuestionSortOrder = questionSortOrder
	}

	if err := s.testRepo.Update(test); err != nil {
		return nil, fmt.Errorf("failed to update test: %w", err)
	}
	return test, nil
}

// GradingSettings описывает настройки оценивания теста
type GradingSettings struct {
	PassThreshold int
	ShowResults   bool
	ShowPassFail  bool
	PassMessage   string
	FailMessage   string
}

// UpdateGradingSettings обновляет настройки оценивания
func (s *TestService) UpdateGradingSettings(testID uint, settings GradingSettings) (*entity.Test, error) {
	if settings.PassThreshold < 0 || settings.PassThreshold > 100 {
		return nil, fmt.Errorf("pass threshold must be between 0 and 100: %w", apperrors.ErrValidation)
	}

	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}

	test.PassThreshold = settings.PassThreshold
	test.ShowResults = settings.ShowResults
	test.ShowPassFail = settings.ShowPassFail
	test.PassMessage = settings.PassMessage
	test.FailMessage = settings.FailMessage

	if err := s.testRepo.Update(test); err != nil {
		return nil, fmt.Errorf("failed to update grading settings: %w", err)
	}
	return test, nil
}

// TimeSettings описывает настройки времени и активации теста
type TimeSettings struct {
	DurationMode               string
	DurationMin                int
	ActivationMode             string
	DurationAfterActivationMin int
	ScheduledStartAt           *time.Time
	ScheduledEndAt             *time.Time
	AccessMode                 string
}

// UpdateTimeSettings обновляет настройки времени, активации и режима доступа
func (s *TestService) UpdateTimeSettings(testID uint, settings TimeSettings) (*entity.Test, error) {
	if settings.DurationMode != entity.DurationModeWholeTest && settings.DurationMode != entity.DurationModePerQuestion {
		return nil, fmt.Errorf("unknown duration mode %q: %w", settings.DurationMode, apperrors.ErrValidation)
	}
	if settings.DurationMin <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", apperrors.ErrValidation)
	}
	if settings.ActivationMode == entity.ActivationModeScheduled {
		if settings.ScheduledStartAt == nil || settings.ScheduledEndAt == nil {
			return nil, fmt.Errorf("scheduled activation requires start and end: %w", apperrors.ErrValidation)
		}
		if !settings.ScheduledEndAt.After(*settings.ScheduledStartAt) {
			return nil, fmt.Errorf("scheduled end must be after start: %w", apperrors.ErrValidation)
		}
	}

	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}

	test.DurationMode = settings.DurationMode
	test.DurationMin = settings.DurationMin
	if settings.ActivationMode != "" {
		test.ActivationMode = settings.ActivationMode
	}
	test.DurationAfterActivationMin = settings.DurationAfterActivationMin
	test.ScheduledStartAt = settings.ScheduledStartAt
	test.ScheduledEndAt = settings.ScheduledEndAt
	if settings.AccessMode != "" {
		test.AccessMode = settings.AccessMode
	}

	if err := s.testRepo.Update(test); err != nil {
		return nil, fmt.Errorf("failed to update time settings: %w", err)
	}
	return test, nil
}

// SaveQuestionMappings заменяет привязки вопросов теста и переводит тест в
// SETUP_IN_PROGRESS. Переход безусловный: правка вопросов ACTIVE-теста
// понижает его - это явный переход машины состояний, а не побочный эффект.
func (s *TestService) SaveQuestionMappings(testID uint, mappings []entity.TestQuestionMapping) error {
	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return err
	}

	if err := s.testRepo.ReplaceMappings(testID, mappings); err != nil {
		return fmt.Errorf("failed to save question mappings: %w", err)
	}

	if err := s.testRepo.MarkSetupInProgress(testID); err != nil {
		return fmt.Errorf("failed to mark test as setup in progress: %w", err)
	}

	if test.IsActive() {
		log.Printf("[TestService] Тест ID=%d понижен ACTIVE → SETUP_IN_PROGRESS из-за правки вопросов", testID)
	}

	// Набор вопросов изменился - кешированная полезная нагрузка квиза устарела
	if err := s.cacheRepo.Delete(quizPayloadCacheKey(testID)); err != nil {
		log.Printf("[TestService] Не удалось инвалидировать кеш полезной нагрузки теста ID=%d: %v", testID, err)
	}

	return nil
}

// Activate переводит тест SETUP_IN_PROGRESS → ACTIVE.
// Предусловия проверяются до какой-либо мутации; сам переход выполняется
// условным UPDATE (ровно одна строка), поэтому конкурирующая активация
// получит ErrConflict. После перехода всем держателям кодов отправляются
// уведомления с их кодами; сбои доставки логируются и не откатывают активацию.
func (s *TestService) Activate(testID uint) (*entity.Test, error) {
	test, err := s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}

	if !test.IsSetupInProgress() {
		return nil, NewInvalidTransitionError(test.Status, entity.TestStatusActive)
	}

	questionCount, err := s.testRepo.CountQuestions(testID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if questionCount == 0 {
		return nil, ErrNoQuestions
	}

	if test.IsAccessCodeGated() {
		codeCount, err := s.accessCodeRepo.CountByTest(testID)
		if err != nil {
			return nil, fmt.Errorf("failed to count access codes: %w", err)
		}
		if codeCount == 0 {
			return nil, ErrNoAccessCodes
		}
	}

	activatedAt := s.now()
	if err := s.testRepo.ActivateIf(testID, entity.TestStatusSetupInProgress, activatedAt); err != nil {
		return nil, err
	}

	test, err = s.testRepo.GetByID(testID)
	if err != nil {
		return nil, err
	}

	log.Printf("[TestService] Тест ID=%d активирован (%s)", testID, activatedAt.Format(time.RFC3339))

	if test.IsAccessCodeGated() {
		s.notifyRespondents(test)
	}

	return test, nil
}

// notifyRespondents рассылает коды доступа всем респондентам теста.
// Fire-and-forget: активация не ждет подтверждения доставки.
func (s *TestService) notifyRespondents(test *entity.Test) {
	codes, err := s.accessCodeRepo.ListByTest(test.ID)
	if err != nil {
		log.Printf("[TestService] Не удалось получить коды доступа для рассылки, тест ID=%d: %v", test.ID, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		sent := 0
		for _, code := range codes {
			idempotencyKey := uuid.NewString()
			err := s.emailService.SendAccessCode(
				ctx,
				code.Respondent.Email,
				code.Respondent.DisplayName(),
				test.Name,
				code.Code,
				idempotencyKey,
			)
			if err != nil {
				log.Printf("[TestService] Сбой отправки кода доступа респонденту %s (тест ID=%d): %v",
					code.Respondent.Email, test.ID, err)
				continue
			}
			sent++
		}
		log.Printf("[TestService] Рассылка кодов для теста ID=%d: отправлено %d из %d", test.ID, sent, len(codes))
	}()
}
