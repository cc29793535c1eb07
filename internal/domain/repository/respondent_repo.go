package repository

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// RespondentRepository определяет методы для работы с респондентами
type RespondentRepository interface {
	// UpsertByEmail создает респондента или перезаписывает имя/фамилию
	// существующего (последняя запись побеждает). После вызова respondent.ID
	// заполнен идентификатором строки.
	UpsertByEmail(respondent *entity.Respondent) error
	GetByID(id uint) (*entity.Respondent, error)
	GetByEmail(email string) (*entity.Respondent, error)
}
