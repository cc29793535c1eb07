package entity

import (
	"time"
)

// Константы статусов теста
const (
	TestStatusDraft           = "DRAFT"
	TestStatusSetupInProgress = "SETUP_IN_PROGRESS"
	TestStatusActive          = "ACTIVE"
	TestStatusClosed          = "CLOSED"
)

// Константы порядка вопросов
const (
	QuestionSortOrderRandom = "RANDOM"
	QuestionSortOrderFixed  = "FIXED"
)

// Константы режима длительности теста
const (
	DurationModeWholeTest   = "WHOLE_TEST"
	DurationModePerQuestion = "PER_QUESTION"
)

// Константы режима активации
const (
	ActivationModeManual    = "MANUAL"
	ActivationModeScheduled = "SCHEDULED"
)

// Константы режима доступа
const (
	AccessModeOpen       = "OPEN"
	AccessModeAccessCode = "ACCESS_CODE"
)

// Test представляет определение теста (assessment)
type Test struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"size:100;not null" json:"name"`
	Description       string `gorm:"size:500;not null;default:''" json:"description"`
	Category          string `gorm:"size:50;not null;default:'GENERAL'" json:"category"`
	Status            string `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`
	QuestionSortOrder string `gorm:"size:20;not null;default:'RANDOM'" json:"question_sort_order"`
	Language          string `gorm:"size:5;not null;default:'en'" json:"language"`
	CreateUserID      uint   `gorm:"not null;index" json:"create_user_id"`

	// Настройки оценивания
	PassThreshold int    `gorm:"not null;default:0" json:"pass_threshold"` // Процент для прохождения
	ShowResults   bool   `gorm:"not null;default:true" json:"show_results"`
	ShowPassFail  bool   `gorm:"not null;default:true" json:"show_pass_fail"`
	PassMessage   string `gorm:"size:500;not null;default:''" json:"pass_message"`
	FailMessage   string `gorm:"size:500;not null;default:''" json:"fail_message"`

	// Настройки времени
	DurationMode string `gorm:"size:20;not null;default:'WHOLE_TEST'" json:"duration_mode"`
	DurationMin  int    `gorm:"not null;default:60" json:"duration_min"`

	// Настройки активации
	ActivationMode             string     `gorm:"size:20;not null;default:'MANUAL'" json:"activation_mode"`
	DurationAfterActivationMin int        `gorm:"not null;default:0" json:"duration_after_activation_min"`
	ScheduledStartAt           *time.Time `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt             *time.Time `json:"scheduled_end_at,omitempty"`
	ActivatedAt                *time.Time `json:"activated_at,omitempty"`

	AccessMode string `gorm:"size:20;not null;default:'ACCESS_CODE'" json:"access_mode"`

	Mappings []TestQuestionMapping `gorm:"foreignKey:TestID" json:"mappings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Test) TableName() string {
	return "tests"
}

// IsDraft проверяет, является ли тест черновиком
func (t *Test) IsDraft() bool {
	return t.Status == TestStatusDraft
}

// IsSetupInProgress проверяет, находится ли тест в настройке
func (t *Test) IsSetupInProgress() bool {
	return t.Status == TestStatusSetupInProgress
}

// IsActive проверяет, активен ли тест
func (t *Test) IsActive() bool {
	return t.Status == TestStatusActive
}

// IsClosed проверяет, закрыт ли тест (терминальное состояние)
func (t *Test) IsClosed() bool {
	return t.Status == TestStatusClosed
}

// IsAccessCodeGated возвращает true, если вход в тест требует кода доступа
func (t *Test) IsAccessCodeGated() bool {
	return t.AccessMode == AccessModeAccessCode
}
