package service

import (
	"errors"
	"fmt"
)

// Доменные ошибки жизненного цикла теста и входа респондента
var (
	// ErrInvalidAccessCode - код не декодируется или содержит невалидные идентификаторы.
	ErrInvalidAccessCode = errors.New("invalid access code")

	// ErrNoMatchingSession - код декодируется, но активной комбинации
	// тест/респондент/email не найдено.
	ErrNoMatchingSession = errors.New("no test found for the given access code/email, test may have ended or access code is invalid")

	// ErrAmbiguousSession - нарушение целостности: несколько записей доступа
	// для одной пары (тест, респондент). Логируется как внутренняя ошибка.
	ErrAmbiguousSession = errors.New("multiple test access records found for the same respondent")

	// ErrSessionNotFound - запись доступа или ее тест отсутствуют.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoQuestions - активация теста без привязанных вопросов.
	ErrNoQuestions = errors.New("test has no questions attached")

	// ErrNoAccessCodes - активация теста с доступом по коду без выданных кодов.
	ErrNoAccessCodes = errors.New("test has no issued access codes")
)

// InvalidTransitionError описывает недопустимый переход статуса теста.
// Каждый отказ называет пару (текущий статус, запрошенный статус).
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid test status transition from %s to %s", e.From, e.To)
}

// NewInvalidTransitionError создает ошибку недопустимого перехода
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}
