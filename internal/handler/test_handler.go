package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	"github.com/yourusername/assessment-api/internal/handler/dto"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service"
)

// TestHandler обрабатывает запросы жизненного цикла теста
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler создает новый обработчик тестов
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// loadOwnedTest загружает тест и проверяет, что он принадлежит текущему
// администратору. Возвращает nil, если ответ уже записан.
func (h *TestHandler) loadOwnedTest(c *gin.Context) *entity.Test {
	testID := c.MustGet("testID").(uint)
	userID := c.MustGet("user_id").(uint)

	test, err := h.testService.GetTestByID(testID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
			return nil
		}
		log.Printf("[TestHandler] Ошибка загрузки теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get test"})
		return nil
	}

	if test.CreateUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this test"})
		return nil
	}
	return test
}

// CreateTest создает новый тест в статусе DRAFT
// POST /api/mytests
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req dto.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint)

	test, err := h.testService.CreateTest(userID, req.Name, req.Description, req.Category)
	if err != nil {
		log.Printf("[TestHandler] Ошибка создания теста: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create test"})
		return
	}

	c.JSON(http.StatusCreated, dto.NewTestResponse(test, false))
}

// ListMyTests возвращает тесты текущего администратора
// GET /api/mytests?status=&category=&search=&page=&page_size=
func (h *TestHandler) ListMyTests(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filters := repository.TestFilters{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	tests, total, err := h.testService.ListTests(userID, filters, page, pageSize)
	if err != nil {
		log.Printf("[TestHandler] Ошибка получения списка тестов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tests"})
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedTestResponse(tests, total, page, pageSize))
}

// GetTest возвращает тест владельца с привязками вопросов
// GET /api/mytests/:id
func (h *TestHandler) GetTest(c *gin.Context) {
	if h.loadOwnedTest(c) == nil {
		return
	}
	testID := c.MustGet("testID").(uint)

	test, err := h.testService.GetTestWithMappings(testID)
	if err != nil {
		log.Printf("[TestHandler] Ошибка загрузки привязок теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get test"})
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResponse(test, true))
}

// UpdateTest обновляет базовые атрибуты теста
// PUT /api/mytests/:id
func (h *TestHandler) UpdateTest(c *gin.Context) {
	var req dto.UpdateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.loadOwnedTest(c) == nil {
		return
	}
	testID := c.MustGet("testID").(uint)

	test, err := h.testService.UpdateTestDefinition(testID, req.Name, req.Description, req.Category, req.QuestionSortOrder)
	if err != nil {
		log.Printf("[TestHandler] Ошибка обновления теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update test"})
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResponse(test, false))
}

// SaveQuestionMappings заменяет привязки вопросов теста.
// Тест переходит в SETUP_IN_PROGRESS, даже если был ACTIVE.
// PUT /api/mytests/:id/questions
func (h *TestHandler) SaveQuestionMappings(c *gin.Context) {
	var req dto.SaveMappingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.loadOwnedTest(c) == nil {
		return
	}
	testID := c.MustGet("testID").(uint)

	mappings := make([]entity.TestQuestionMapping, 0, len(req.Mappings))
	for _, m := range req.Mappings {
		mappings = append(mappings, entity.TestQuestionMapping{
			TestID:         testID,
			QuestionID:     m.QuestionID,
			AnswerOptionID: m.AnswerOptionID,
			IsCorrect:      m.IsCorrect,
			Position:       m.Position,
		})
	}

	if err := h.testService.SaveQuestionMappings(testID, mappings); err != nil {
		log.Printf("[TestHandler] Ошибка сохранения привязок теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save question mappings"})
		return
	}

	test, err := h.testService.GetTestWithMappings(testID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload test"})
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResponse(test, true))
}

// UpdateGradingSettings обновляет настройки оценивания теста
// PUT /api/mytests/:id/grading
func (h *TestHandler) UpdateGradingSettings(c *gin.Context) {
	var req dto.GradingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.loadOwnedTest(c) == nil {
		return
	}
	testID := c.MustGet("testID").(uint)

	test, err := h.testService.UpdateGradingSettings(testID, service.GradingSettings{
		PassThreshold: req.PassThreshold,
		ShowResults:   req.ShowResults,
		ShowPassFail:  req.ShowPassFail,
		PassMessage:   req.PassMessage,
		FailMessage:   req.FailMessage,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[TestHandler] Ошибка обновления оценивания теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grading settings"})
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResponse(test, false))
}

// UpdateTimeSettings обновляет настройки времени, активации и режима доступа
// PUT /api/mytests/:id/timesettings
func (h *TestHandler) UpdateTimeSettings(c *gin.Context) {
	var req dto.TimeSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.loadOwnedTest(c) == nil {
		return
	}
	testID := c.MustGet("testID").(uint)

	test, err := h.testService.UpdateTimeSettings(testID, service.TimeSettings{
		DurationMode:               req.DurationMode,
		DurationMin:                req.DurationMin,
		ActivationMode:             req.ActivationMode,
		DurationAfterActivationMin: req.DurationAfterActivationMin,
		ScheduledStartAt:           req.ScheduledStartAt,
		ScheduledEndAt:             req.ScheduledEndAt,
		AccessMode:                 req.AccessMode,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[TestHandler] Ошибка обновления настроек времени теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update time settings"})
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResponse(test, false))
}

// Activate переводит тест SETUP_IN_PROGRESS → ACTIVE
// POST /api/mytests/:id/activation
func (h *TestHandler) Activate(c *gin.Context) {
	if h.loadOwnedTest(c) == nil {
		return
	}
	testID := c.MustGet("testID").(uint)

	test, err := h.testService.Activate(testID)
	if err != nil {
		var transitionErr *service.InvalidTransitionError
		switch {
		case errors.As(err, &transitionErr):
			c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
		case errors.Is(err, service.ErrNoQuestions):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Test has no questions"})
		case errors.Is(err, service.ErrNoAccessCodes):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Test requires access codes but none have been issued"})
		case errors.Is(err, apperrors.ErrConflict):
			// Конкурирующая активация успела раньше
			c.JSON(http.StatusConflict, gin.H{"error": "Test status changed, please refresh and try again"})
		default:
			log.Printf("[TestHandler] Ошибка активации теста ID=%d: %v", testID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate test"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResponse(test, false))
}
