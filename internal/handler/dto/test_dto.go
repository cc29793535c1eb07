package dto

import (
	"time"

	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// AnswerOptionResponse представляет вариант ответа в привязке теста.
// Используется только в админских ответах: содержит is_correct.
type AnswerOptionResponse struct {
	AnswerOptionID uint   `json:"answer_option_id"`
	Answer         string `json:"answer"`
	IsCorrect      bool   `json:"is_correct"`
}

// QuestionMappingResponse представляет вопрос теста с вариантами ответов
type QuestionMappingResponse struct {
	QuestionID uint                   `json:"question_id"`
	Question   string                 `json:"question"`
	Category   string                 `json:"category"`
	Type       string                 `json:"type"`
	Options    []AnswerOptionResponse `json:"options"`
}

// TestResponse представляет тест в формате для ответа клиенту
type TestResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Category          string `json:"category"`
	Status            string `json:"status"`
	QuestionSortOrder string `json:"question_sort_order"`
	Language          string `json:"language"`

	PassThreshold int    `json:"pass_threshold"`
	ShowResults   bool   `json:"show_results"`
	ShowPassFail  bool   `json:"show_pass_fail"`
	PassMessage   string `json:"pass_message,omitempty"`
	FailMessage   string `json:"fail_message,omitempty"`

	DurationMode               string     `json:"duration_mode"`
	DurationMin                int        `json:"duration_min"`
	ActivationMode             string     `json:"activation_mode"`
	DurationAfterActivationMin int        `json:"duration_after_activation_min"`
	ScheduledStartAt           *time.Time `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt             *time.Time `json:"scheduled_end_at,omitempty"`
	ActivatedAt                *time.Time `json:"activated_at,omitempty"`
	AccessMode                 string     `json:"access_mode"`

	Questions []QuestionMappingResponse `json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaginatedTestResponse представляет пагинированный список тестов
type PaginatedTestResponse struct {
	Tests   []*TestResponse `json:"tests"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// NewTestResponse создает DTO для теста. includeMappings добавляет вопросы
// с вариантами ответов и признаками правильности (только для владельца).
func NewTestResponse(test *entity.Test, includeMappings bool) *TestResponse {
	if test == nil {
		return nil
	}

	resp := &TestResponse{
		ID:                         test.ID,
		Name:                       test.Name,
		Description:                test.Description,
		Category:                   test.Category,
		Status:                     test.Status,
		QuestionSortOrder:          test.QuestionSortOrder,
		Language:                   test.Language,
		PassThreshold:              test.PassThreshold,
		ShowResults:                test.ShowResults,
		ShowPassFail:               test.ShowPassFail,
		PassMessage:                test.PassMessage,
		FailMessage:                test.FailMessage,
		DurationMode:               test.DurationMode,
		DurationMin:                test.DurationMin,
		ActivationMode:             test.ActivationMode,
		DurationAfterActivationMin: test.DurationAfterActivationMin,
		ScheduledStartAt:           test.ScheduledStartAt,
		ScheduledEndAt:             test.ScheduledEndAt,
		ActivatedAt:                test.ActivatedAt,
		AccessMode:                 test.AccessMode,
		CreatedAt:                  test.CreatedAt,
		UpdatedAt:                  test.UpdatedAt,
	}

	if includeMappings {
		resp.Questions = groupMappings(test.Mappings)
	}
	return resp
}

// groupMappings сворачивает строки привязок в вопросы с вариантами ответов
func groupMappings(mappings []entity.TestQuestionMapping) []QuestionMappingResponse {
	questions := make([]QuestionMappingResponse, 0)
	index := make(map[uint]int)

	for _, m := range mappings {
		pos, ok := index[m.QuestionID]
		if !ok {
			questions = append(questions, QuestionMappingResponse{
				QuestionID: m.Question.ID,
				Question:   m.Question.Question,
				Category:   m.Question.Category,
				Type:       m.Question.Type,
				Options:    []AnswerOptionResponse{},
			})
			pos = len(questions) - 1
			index[m.QuestionID] = pos
		}
		questions[pos].Options = append(questions[pos].Options, AnswerOptionResponse{
			AnswerOptionID: m.AnswerOption.ID,
			Answer:         m.AnswerOption.Answer,
			IsCorrect:      m.IsCorrect,
		})
	}
	return questions
}

// NewPaginatedTestResponse создает DTO для пагинированного списка тестов
func NewPaginatedTestResponse(tests []entity.Test, total int64, page, perPage int) *PaginatedTestResponse {
	list := make([]*TestResponse, len(tests))
	for i := range tests {
		list[i] = NewTestResponse(&tests[i], false)
	}
	return &PaginatedTestResponse{
		Tests:   list,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
