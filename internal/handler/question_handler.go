package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/assessment-api/internal/handler/dto"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service"
)

// QuestionHandler обрабатывает запросы авторинга вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// CreateQuestion создает вопрос с вариантами ответов
// POST /api/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint)

	question, options, err := h.questionService.CreateQuestion(userID, service.QuestionDraft{
		Question: req.Question,
		Category: req.Category,
		Type:     req.Type,
		Answers:  req.Answers,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[QuestionHandler] Ошибка создания вопроса: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question, options))
}

// GetQuestion возвращает вопрос по ID
// GET /api/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	question, err := h.questionService.GetQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get question"})
		return
	}

	userID := c.MustGet("user_id").(uint)
	if question.CreateUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this question"})
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question, nil))
}

// ListMyQuestions возвращает вопросы текущего администратора
// GET /api/questions?page=&page_size=
func (h *QuestionHandler) ListMyQuestions(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	questions, err := h.questionService.ListQuestions(userID, page, pageSize)
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка получения списка вопросов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list questions"})
		return
	}

	list := make([]*dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		list = append(list, dto.NewQuestionResponse(&questions[i], nil))
	}

	c.JSON(http.StatusOK, gin.H{"questions": list, "page": page, "per_page": pageSize})
}
