package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// AccessCodeRepo реализует repository.AccessCodeRepository
type AccessCodeRepo struct {
	db *gorm.DB
}

// NewAccessCodeRepo создает новый репозиторий кодов доступа
func NewAccessCodeRepo(db *gorm.DB) *AccessCodeRepo {
	return &AccessCodeRepo{db: db}
}

// Upsert создает или перезаписывает код доступа для пары (тест, респондент).
// Повторная выдача аннулирует прежний код: вторая строка не создается.
func (r *AccessCodeRepo) Upsert(code *entity.TestAccessCode) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "test_id"}, {Name: "respondent_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "issued_at", "updated_at"}),
	}).Create(code).Error
}

// GetByID возвращает запись кода доступа с тестом и респондентом
func (r *AccessCodeRepo) GetByID(id uint) (*entity.TestAccessCode, error) {
	var accessCode entity.TestAccessCode
	err := r.db.
		Preload("Test").
		Preload("Respondent").
		First(&accessCode, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &accessCode, nil
}

// ListByTest возвращает все коды теста с респондентами
func (r *AccessCodeRepo) ListByTest(testID uint) ([]entity.TestAccessCode, error) {
	var codes []entity.TestAccessCode
	err := r.db.
		Preload("Respondent").
		Where("test_id = ?", testID).
		Order("id").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// CountByTest возвращает количество выданных кодов для теста
func (r *AccessCodeRepo) CountByTest(testID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.TestAccessCode{}).
		Where("test_id = ?", testID).
		Count(&count).Error
	return count, err
}

// FindForSession ищет записи для входа респондента: совпадение идентификаторов
// и компактной метки выдачи, тест в статусе ACTIVE, email равен заявленному.
// Возвращает все совпавшие строки - различение 0/1/много лежит на сервисе.
func (r *AccessCodeRepo) FindForSession(testID, respondentID uint, issuedAt, email string) ([]entity.TestAccessCode, error) {
	var rows []entity.TestAccessCode
	err := r.db.
		Preload("Respondent").
		Joins("JOIN tests ON tests.id = test_access_codes.test_id").
		Joins("JOIN respondents ON respondents.id = test_access_codes.respondent_id").
		Where("test_access_codes.test_id = ? AND test_access_codes.respondent_id = ?", testID, respondentID).
		Where("test_access_codes.issued_at = ?", issuedAt).
		Where("tests.status = ?", entity.TestStatusActive).
		Where("respondents.email = ?", email).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
