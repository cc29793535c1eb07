package entity

import (
	"time"
)

// TestAccessCode представляет код доступа респондента к конкретному тесту.
// Инвариант: не более одного кода на пару (тест, респондент); повторная выдача
// перезаписывает прежний код без переходного периода.
type TestAccessCode struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TestID       uint   `gorm:"not null;uniqueIndex:idx_access_test_respondent,priority:1" json:"test_id"`
	RespondentID uint   `gorm:"not null;uniqueIndex:idx_access_test_respondent,priority:2" json:"respondent_id"`
	Code         string `gorm:"size:255;not null" json:"code"`
	// IssuedAt хранит компактную метку времени выдачи (DDMMYYHHmm) -
	// ту же, что закодирована внутри самого кода. Точное совпадение этой
	// метки при входе привязывает код к единственному событию выдачи.
	IssuedAt string `gorm:"size:10;not null" json:"issued_at"`

	Test       Test       `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Respondent Respondent `gorm:"foreignKey:RespondentID" json:"respondent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (TestAccessCode) TableName() string {
	return "test_access_codes"
}
