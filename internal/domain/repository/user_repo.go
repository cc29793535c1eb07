package repository

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями-администраторами
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
}
