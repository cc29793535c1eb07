package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// TestRepo реализует repository.TestRepository
type TestRepo struct {
	db *gorm.DB
}

// NewTestRepo создает новый репозиторий тестов
func NewTestRepo(db *gorm.DB) *TestRepo {
	return &TestRepo{db: db}
}

// Create создает новый тест
func (r *TestRepo) Create(test *entity.Test) error {
	return r.db.Create(test).Error
}

// GetByID возвращает тест по ID
func (r *TestRepo) GetByID(id uint) (*entity.Test, error) {
	var test entity.Test
	err := r.db.First(&test, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// GetWithMappings возвращает тест с привязками вопросов и вариантов ответов
func (r *TestRepo) GetWithMappings(id uint) (*entity.Test, error) {
	var test entity.Test
	err := r.db.
		Preload("Mappings", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, question_id, answer_option_id")
		}).
		Preload("Mappings.Question").
		Preload("Mappings.AnswerOption").
		First(&test, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// ListByOwner возвращает тесты владельца с фильтрацией и пагинацией
func (r *TestRepo) ListByOwner(ownerID uint, filters repository.TestFilters, limit, offset int) ([]entity.Test, int64, error) {
	var tests []entity.Test
	var total int64

	query := r.db.Model(&entity.Test{}).Where("create_user_id = ?", ownerID)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tests).Error
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

// Update обновляет информацию о тесте
func (r *TestRepo) Update(test *entity.Test) error {
	return r.db.Save(test).Error
}

// Delete удаляет тест
func (r *TestRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Test{}, id).Error
}

// ReplaceMappings атомарно заменяет привязки вопросов теста
func (r *TestRepo) ReplaceMappings(testID uint, mappings []entity.TestQuestionMapping) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", testID).Delete(&entity.TestQuestionMapping{}).Error; err != nil {
			return err
		}
		if len(mappings) == 0 {
			return nil
		}
		for i := range mappings {
			mappings[i].TestID = testID
		}
		return tx.Create(&mappings).Error
	})
}

// GetMappings возвращает привязки теста с предзагруженными вопросами и ответами
func (r *TestRepo) GetMappings(testID uint) ([]entity.TestQuestionMapping, error) {
	var mappings []entity.TestQuestionMapping
	err := r.db.
		Preload("Question").
		Preload("AnswerOption").
		Where("test_id = ?", testID).
		Order("position, question_id, answer_option_id").
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// CountQuestions возвращает число уникальных вопросов, привязанных к тесту
func (r *TestRepo) CountQuestions(testID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.TestQuestionMapping{}).
		Where("test_id = ?", testID).
		Distinct("question_id").
		Count(&count).Error
	return count, err
}

// MarkSetupInProgress безусловно переводит тест в SETUP_IN_PROGRESS.
// Вызывается при каждом сохранении привязок вопросов; понижает и ACTIVE-тест.
func (r *TestRepo) MarkSetupInProgress(testID uint) error {
	result := r.db.Model(&entity.Test{}).
		Where("id = ?", testID).
		Update("status", entity.TestStatusSetupInProgress)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ActivateIf атомарно переводит тест fromStatus → ACTIVE (compare-and-swap).
// Условный UPDATE затрагивает ровно одну строку; ноль строк означает,
// что статус уже изменился (например, конкурирующей активацией).
func (r *TestRepo) ActivateIf(testID uint, fromStatus string, activatedAt time.Time) error {
	result := r.db.Model(&entity.Test{}).
		Where("id = ? AND status = ?", testID, fromStatus).
		Updates(map[string]interface{}{
			"status":       entity.TestStatusActive,
			"activated_at": activatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("test %d is no longer in status %s: %w", testID, fromStatus, apperrors.ErrConflict)
	}
	return nil
}
