package repository

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// AccessCodeRepository определяет методы для работы с кодами доступа
type AccessCodeRepository interface {
	// Upsert создает код доступа или перезаписывает существующий для пары
	// (тест, респондент) - прежний код аннулируется без переходного периода.
	Upsert(code *entity.TestAccessCode) error
	// GetByID возвращает запись кода доступа с предзагруженными Test и Respondent.
	GetByID(id uint) (*entity.TestAccessCode, error)
	// ListByTest возвращает все коды теста с предзагруженными респондентами.
	ListByTest(testID uint) ([]entity.TestAccessCode, error)
	CountByTest(testID uint) (int64, error)
	// FindForSession ищет записи по расшифрованному коду: совпадение
	// (testID, respondentID, компактной метки выдачи), тест в статусе ACTIVE,
	// email респондента равен заявленному. Возвращает все совпавшие строки -
	// вызывающий различает 0/1/много.
	FindForSession(testID, respondentID uint, issuedAt, email string) ([]entity.TestAccessCode, error)
}
