package repository

import (
	"time"

	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// TestFilters определяет фильтры для поиска тестов
type TestFilters struct {
	Status   string // Фильтр по статусу (DRAFT, SETUP_IN_PROGRESS, ACTIVE, CLOSED)
	Category string // Фильтр по категории
	Search   string // Поиск по названию/описанию
}

// TestRepository определяет методы для работы с тестами
type TestRepository interface {
	Create(test *entity.Test) error
	GetByID(id uint) (*entity.Test, error)
	// GetWithMappings возвращает тест вместе с привязками вопросов/ответов
	// (с предзагруженными Question и AnswerOption).
	GetWithMappings(id uint) (*entity.Test, error)
	ListByOwner(ownerID uint, filters TestFilters, limit, offset int) ([]entity.Test, int64, error)
	Update(test *entity.Test) error
	Delete(id uint) error

	// ReplaceMappings атомарно заменяет набор привязок вопросов теста.
	ReplaceMappings(testID uint, mappings []entity.TestQuestionMapping) error
	GetMappings(testID uint) ([]entity.TestQuestionMapping, error)
	// CountQuestions возвращает число уникальных вопросов, привязанных к тесту.
	CountQuestions(testID uint) (int64, error)

	// MarkSetupInProgress безусловно переводит тест в SETUP_IN_PROGRESS.
	// Единственный путь записи, понижающий ACTIVE-тест при правке вопросов.
	MarkSetupInProgress(testID uint) error
	// ActivateIf атомарно переводит тест fromStatus → ACTIVE и ставит метку
	// активации. Возвращает ErrConflict, если статус уже изменился
	// (конкурирующая активация) - условный UPDATE затрагивает ровно одну строку.
	ActivateIf(testID uint, fromStatus string, activatedAt time.Time) error
}
