package dto

import "time"

// CreateTestRequest представляет запрос на создание теста
type CreateTestRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateTestRequest представляет запрос на обновление базовых атрибутов теста
type UpdateTestRequest struct {
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	QuestionSortOrder string `json:"question_sort_order"`
}

// QuestionMappingItem - одна строка привязки: вариант ответа вопроса
// с признаком правильности для данного теста
type QuestionMappingItem struct {
	QuestionID     uint `json:"question_id" binding:"required"`
	AnswerOptionID uint `json:"answer_option_id" binding:"required"`
	IsCorrect      bool `json:"is_correct"`
	Position       int  `json:"position"`
}

// SaveMappingsRequest представляет запрос на замену привязок вопросов теста
type SaveMappingsRequest struct {
	Mappings []QuestionMappingItem `json:"mappings" binding:"required"`
}

// GradingSettingsRequest представляет запрос на обновление настроек оценивания
type GradingSettingsRequest struct {
	PassThreshold int    `json:"pass_threshold"`
	ShowResults   bool   `json:"show_results"`
	ShowPassFail  bool   `json:"show_pass_fail"`
	PassMessage   string `json:"pass_message"`
	FailMessage   string `json:"fail_message"`
}

// TimeSettingsRequest представляет запрос на обновление настроек времени и активации
type TimeSettingsRequest struct {
	DurationMode               string     `json:"duration_mode" binding:"required"`
	DurationMin                int        `json:"duration_min" binding:"required"`
	ActivationMode             string     `json:"activation_mode"`
	DurationAfterActivationMin int        `json:"duration_after_activation_min"`
	ScheduledStartAt           *time.Time `json:"scheduled_start_at"`
	ScheduledEndAt             *time.Time `json:"scheduled_end_at"`
	AccessMode                 string     `json:"access_mode"`
}
