package dto

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// CreateQuestionRequest представляет запрос на создание вопроса с вариантами ответов
type CreateQuestionRequest struct {
	Question string   `json:"question" binding:"required"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Answers  []string `json:"answers" binding:"required,min=2"`
}

// CreatedAnswerOption - созданный вариант ответа
type CreatedAnswerOption struct {
	AnswerOptionID uint   `json:"answer_option_id"`
	Answer         string `json:"answer"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID       uint                  `json:"id"`
	Question string                `json:"question"`
	Category string                `json:"category"`
	Type     string                `json:"type"`
	Options  []CreatedAnswerOption `json:"options,omitempty"`
}

// NewQuestionResponse создает DTO для вопроса и его вариантов ответов
func NewQuestionResponse(question *entity.Question, options []entity.AnswerOption) *QuestionResponse {
	if question == nil {
		return nil
	}
	resp := &QuestionResponse{
		ID:       question.ID,
		Question: question.Question,
		Category: question.Category,
		Type:     question.Type,
	}
	for _, opt := range options {
		resp.Options = append(resp.Options, CreatedAnswerOption{
			AnswerOptionID: opt.ID,
			Answer:         opt.Answer,
		})
	}
	return resp
}
