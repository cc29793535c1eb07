package entity

import (
	"time"
)

// Константы типов вопросов
const (
	QuestionTypeSingleChoice = "SINGLE_CHOICE"
	QuestionTypeMultiChoice  = "MULTI_CHOICE"
)

// Question представляет вопрос. Вопросы создаются один раз и переиспользуются
// тестами через TestQuestionMapping (ссылка, а не копия).
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Question     string    `gorm:"size:1000;not null" json:"question"`
	Category     string    `gorm:"size:50;not null;default:'GENERAL'" json:"category"`
	Type         string    `gorm:"size:20;not null;default:'SINGLE_CHOICE'" json:"type"`
	CreateUserID uint      `gorm:"not null;index" json:"create_user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsMultiChoice возвращает true для вопросов с несколькими правильными ответами
func (q *Question) IsMultiChoice() bool {
	return q.Type == QuestionTypeMultiChoice
}
