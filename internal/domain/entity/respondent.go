package entity

import (
	"time"
)

// Respondent представляет участника тестирования. Идентифицируется уникально
// по email и переиспользуется между тестами (upsert по email); имя и фамилия -
// изменяемые отображаемые атрибуты (последняя запись побеждает).
type Respondent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null;default:''" json:"first_name"`
	LastName  string    `gorm:"size:100;not null;default:''" json:"last_name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Respondent) TableName() string {
	return "respondents"
}

// DisplayName возвращает отображаемое имя респондента
func (r *Respondent) DisplayName() string {
	if r.FirstName == "" && r.LastName == "" {
		return r.Email
	}
	return r.FirstName + " " + r.LastName
}
