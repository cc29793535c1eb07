package entity

import (
	"time"
)

// TestQuestionMapping привязывает пару (вопрос, вариант ответа) к тесту.
// Одна строка на каждый вариант ответа вопроса; is_correct хранится здесь,
// чтобы один и тот же вопрос мог иметь разные правильные ответы в разных тестах.
type TestQuestionMapping struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	TestID         uint `gorm:"not null;uniqueIndex:idx_test_question_answer,priority:1" json:"test_id"`
	QuestionID     uint `gorm:"not null;uniqueIndex:idx_test_question_answer,priority:2" json:"question_id"`
	AnswerOptionID uint `gorm:"not null;uniqueIndex:idx_test_question_answer,priority:3" json:"answer_option_id"`
	IsCorrect      bool `gorm:"not null;default:false" json:"is_correct"`
	Position       int  `gorm:"not null;default:0" json:"position"` // Порядок вопроса при QuestionSortOrder=FIXED

	Question     Question     `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	AnswerOption AnswerOption `gorm:"foreignKey:AnswerOptionID" json:"answer_option,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (TestQuestionMapping) TableName() string {
	return "test_question_mappings"
}
