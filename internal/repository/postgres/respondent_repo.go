package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// RespondentRepo реализует repository.RespondentRepository
type RespondentRepo struct {
	db *gorm.DB
}

// NewRespondentRepo создает новый репозиторий респондентов
func NewRespondentRepo(db *gorm.DB) *RespondentRepo {
	return &RespondentRepo{db: db}
}

// UpsertByEmail создает респондента или перезаписывает имя/фамилию существующего.
// Слияния нет: последняя запись побеждает. ID заполняется после вызова.
func (r *RespondentRepo) UpsertByEmail(respondent *entity.Respondent) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "updated_at"}),
	}).Create(respondent).Error
	if err != nil {
		return err
	}

	// ON CONFLICT DO UPDATE в постгресе возвращает ID через RETURNING,
	// но GORM заполняет его не на всех версиях - перечитываем по email.
	if respondent.ID == 0 {
		var saved entity.Respondent
		if err := r.db.Where("email = ?", respondent.Email).First(&saved).Error; err != nil {
			return err
		}
		respondent.ID = saved.ID
	}
	return nil
}

// GetByID возвращает респондента по ID
func (r *RespondentRepo) GetByID(id uint) (*entity.Respondent, error) {
	var respondent entity.Respondent
	err := r.db.First(&respondent, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &respondent, nil
}

// GetByEmail возвращает респондента по email
func (r *RespondentRepo) GetByEmail(email string) (*entity.Respondent, error) {
	var respondent entity.Respondent
	err := r.db.Where("email = ?", email).First(&respondent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &respondent, nil
}
