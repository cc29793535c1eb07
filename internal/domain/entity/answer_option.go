package entity

import (
	"time"
)

// AnswerOption представляет вариант ответа. Принадлежность варианта вопросу и
// признак правильности фиксируются в TestQuestionMapping, а не здесь.
type AnswerOption struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Answer       string    `gorm:"size:500;not null" json:"answer"`
	Category     string    `gorm:"size:50;not null;default:'GENERAL'" json:"category"`
	CreateUserID uint      `gorm:"not null;index" json:"create_user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (AnswerOption) TableName() string {
	return "answer_options"
}
