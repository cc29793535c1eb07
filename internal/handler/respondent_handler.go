package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/assessment-api/internal/handler/dto"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service"
)

// RespondentHandler обрабатывает выдачу кодов доступа респондентам
type RespondentHandler struct {
	testService       *service.TestService
	respondentService *service.RespondentService
}

// NewRespondentHandler создает новый обработчик респондентов
func NewRespondentHandler(testService *service.TestService, respondentService *service.RespondentService) *RespondentHandler {
	return &RespondentHandler{
		testService:       testService,
		respondentService: respondentService,
	}
}

// checkOwnership проверяет, что тест принадлежит текущему администратору.
// Возвращает false, если ответ уже записан.
func (h *RespondentHandler) checkOwnership(c *gin.Context) bool {
	testID := c.MustGet("testID").(uint)
	userID := c.MustGet("user_id").(uint)

	test, err := h.testService.GetTestByID(testID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
			return false
		}
		log.Printf("[RespondentHandler] Ошибка загрузки теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get test"})
		return false
	}
	if test.CreateUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this test"})
		return false
	}
	return true
}

// SaveRespondents выдает коды доступа партии респондентов.
// Повторная выдача для того же email перевыпускает код.
// POST /api/mytests/:id/respondents
func (h *RespondentHandler) SaveRespondents(c *gin.Context) {
	var req dto.SaveRespondentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.checkOwnership(c) {
		return
	}
	testID := c.MustGet("testID").(uint)

	batch := make([]service.ProvisionedRespondent, 0, len(req.Respondents))
	for _, r := range req.Respondents {
		batch = append(batch, service.ProvisionedRespondent{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
		})
	}

	result, err := h.respondentService.ProvisionRespondents(testID, batch)
	if err != nil {
		h.handleProvisionError(c, testID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"respondents": result})
}

// ListRespondents возвращает респондентов теста с их кодами доступа
// GET /api/mytests/:id/respondents
func (h *RespondentHandler) ListRespondents(c *gin.Context) {
	if !h.checkOwnership(c) {
		return
	}
	testID := c.MustGet("testID").(uint)

	result, err := h.respondentService.ListProvisioned(testID)
	if err != nil {
		log.Printf("[RespondentHandler] Ошибка получения списка респондентов теста ID=%d: %v", testID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list respondents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"respondents": result})
}

// ImportRespondents выдает коды доступа по загруженному xlsx-файлу.
// Колонки листа: имя, фамилия, email. Первая строка-заголовок пропускается.
// POST /api/mytests/:id/respondents/import
func (h *RespondentHandler) ImportRespondents(c *gin.Context) {
	if !h.checkOwnership(c) {
		return
	}
	testID := c.MustGet("testID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required (multipart field 'file')"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is not a valid xlsx workbook"})
		return
	}
	defer workbook.Close()

	batch, err := parseRespondentSheet(workbook)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.respondentService.ProvisionRespondents(testID, batch)
	if err != nil {
		h.handleProvisionError(c, testID, err)
		return
	}

	log.Printf("[RespondentHandler] Импорт из xlsx: выдано %d кодов для теста ID=%d", len(result), testID)
	c.JSON(http.StatusOK, gin.H{"respondents": result})
}

func (h *RespondentHandler) handleProvisionError(c *gin.Context, testID uint, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
		return
	}
	log.Printf("[RespondentHandler] Ошибка выдачи кодов для теста ID=%d: %v", testID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save respondents"})
}

// parseRespondentSheet читает первый лист книги: колонки A/B/C - имя, фамилия, email.
// Строка-заголовок (без '@' в третьей колонке) пропускается, пустые строки игнорируются.
func parseRespondentSheet(workbook *excelize.File) ([]service.ProvisionedRespondent, error) {
	sheet := workbook.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, errors.New("failed to read sheet rows")
	}

	batch := make([]service.ProvisionedRespondent, 0, len(rows))
	for i, row := range rows {
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		firstName, lastName, email := cell(0), cell(1), cell(2)
		if firstName == "" && lastName == "" && email == "" {
			continue
		}
		if i == 0 && !strings.Contains(email, "@") {
			// Строка заголовка
			continue
		}
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("row %d has no valid email in the third column", i+1)
		}

		batch = append(batch, service.ProvisionedRespondent{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
		})
	}

	if len(batch) == 0 {
		return nil, errors.New("workbook contains no respondent rows")
	}
	return batch, nil
}
