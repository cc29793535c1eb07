package repository

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами и вариантами ответов
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	ListByOwner(ownerID uint, limit, offset int) ([]entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error

	CreateAnswerOption(option *entity.AnswerOption) error
	GetAnswerOptionByID(id uint) (*entity.AnswerOption, error)

	// CreateWithOptions создает вопрос и его варианты ответов в одной транзакции.
	CreateWithOptions(question *entity.Question, options []entity.AnswerOption) error
}
