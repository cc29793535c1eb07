package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/pkg/accesscode"
)

// quizPayloadCacheTTL ограничивает жизнь кешированной полезной нагрузки;
// при правке вопросов кеш инвалидируется явно.
const quizPayloadCacheTTL = 5 * time.Minute

func quizPayloadCacheKey(testID uint) string {
	return fmt.Sprintf("qz:payload:test:%d", testID)
}

// SessionIdentity - результат успешного входа респондента: разрешенная
// личность и стабильный ключ сессии (идентификатор записи доступа).
// Сам код доступа после входа больше не возвращается.
type SessionIdentity struct {
	AccessRecordID uint   `json:"access_record_id"`
	TestID         uint   `json:"test_id"`
	RespondentID   uint   `json:"respondent_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
}

// QuizAnswerOption - вариант ответа в полезной нагрузке квиза.
// Признака правильности здесь нет вовсе: утечка is_correct респонденту
// до отправки ответов - регрессия безопасности.
type QuizAnswerOption struct {
	AnswerOptionID uint   `json:"answer_option_id"`
	Answer         string `json:"answer"`
}

// QuizQuestion - вопрос в полезной нагрузке квиза
type QuizQuestion struct {
	QuestionID uint               `json:"question_id"`
	Question   string             `json:"question"`
	Type       string             `json:"type"`
	Options    []QuizAnswerOption `json:"options"`
}

// QuizPayload - очищенное представление теста для консоли квиза
type QuizPayload struct {
	TestID                     uint           `json:"test_id"`
	Name                       string         `json:"name"`
	Language                   string         `json:"language"`
	QuestionSortOrder          string         `json:"question_sort_order"`
	DurationMode               string         `json:"duration_mode"`
	DurationMin                int            `json:"duration_min"`
	DurationAfterActivationMin int            `json:"duration_after_activation_min"`
	Questions                  []QuizQuestion `json:"questions"`
}

// SessionService разрешает вход респондента по коду доступа и отдает
// очищенную полезную нагрузку квиза.
type SessionService struct {
	accessCodeRepo repository.AccessCodeRepository
	testRepo       repository.TestRepository
	cacheRepo      repository.CacheRepository
	codec          *accesscode.Codec
}

// NewSessionService создает новый сервис сессий
func NewSessionService(
	accessCodeRepo repository.AccessCodeRepository,
	testRepo repository.TestRepository,
	cacheRepo repository.CacheRepository,
	codec *accesscode.Codec,
) *SessionService {
	return &SessionService{
		accessCodeRepo: accessCodeRepo,
		testRepo:       testRepo,
		cacheRepo:      cacheRepo,
		codec:          codec,
	}
}

// ResolveSession аутентифицирует заявленную личность респондента по коду
// доступа. Чистое чтение: никакая строка сессии не сохраняется - результат
// передается механизму выпуска токена.
func (s *SessionService) ResolveSession(code, claimedEmail string) (*SessionIdentity, error) {
	decoded := s.codec.Decode(code)
	if !decoded.Valid() {
		// До обращения к хранилищу: сентинел или неположительные идентификаторы
		return nil, ErrInvalidAccessCode
	}

	rows, err := s.accessCodeRepo.FindForSession(
		uint(decoded.TestID),
		uint(decoded.RespondentID),
		decoded.IssuedAt,
		claimedEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up access record: %w", err)
	}

	if len(rows) == 0 {
		log.Printf("[SessionService] Вход отклонен: нет записи для testId=%d, respondentId=%d, issuedAt=%s",
			decoded.TestID, decoded.RespondentID, decoded.IssuedAt)
		return nil, ErrNoMatchingSession
	}
	if len(rows) > 1 {
		log.Printf("[SessionService] ОШИБКА ЦЕЛОСТНОСТИ: %d записей доступа для testId=%d, respondentId=%d, issuedAt=%s",
			len(rows), decoded.TestID, decoded.RespondentID, decoded.IssuedAt)
		return nil, ErrAmbiguousSession
	}

	row := rows[0]
	return &SessionIdentity{
		AccessRecordID: row.ID,
		TestID:         row.TestID,
		RespondentID:   row.RespondentID,
		FirstName:      row.Respondent.FirstName,
		LastName:       row.Respondent.LastName,
		Email:          row.Respondent.Email,
	}, nil
}

// FetchQuizPayload возвращает очищенный набор вопросов для сессии.
// Единственное корректность-чувствительное преобразование среза:
// признаки правильности ответов структурно отсутствуют в результате.
func (s *SessionService) FetchQuizPayload(accessRecordID uint) (*QuizPayload, error) {
	accessRecord, err := s.accessCodeRepo.GetByID(accessRecordID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// Кеш по тесту: полезная нагрузка не содержит персональных данных
	var cached QuizPayload
	if err := s.cacheRepo.GetJSON(quizPayloadCacheKey(accessRecord.TestID), &cached); err == nil {
		return &cached, nil
	}

	test, err := s.testRepo.GetWithMappings(accessRecord.TestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	payload := buildQuizPayload(test)

	if err := s.cacheRepo.SetJSON(quizPayloadCacheKey(test.ID), payload, quizPayloadCacheTTL); err != nil {
		log.Printf("[SessionService] Не удалось закешировать полезную нагрузку теста ID=%d: %v", test.ID, err)
	}

	return payload, nil
}

// buildQuizPayload группирует привязки по вопросам, отбрасывая is_correct
func buildQuizPayload(test *entity.Test) *QuizPayload {
	payload := &QuizPayload{
		TestID:                     test.ID,
		Name:                       test.Name,
		Language:                   test.Language,
		QuestionSortOrder:          test.QuestionSortOrder,
		DurationMode:               test.DurationMode,
		DurationMin:                test.DurationMin,
		DurationAfterActivationMin: test.DurationAfterActivationMin,
		Questions:                  []QuizQuestion{},
	}

	index := make(map[uint]int) // questionID → позиция в payload.Questions
	for _, mapping := range test.Mappings {
		pos, ok := index[mapping.QuestionID]
		if !ok {
			payload.Questions = append(payload.Questions, QuizQuestion{
				QuestionID: mapping.Question.ID,
				Question:   mapping.Question.Question,
				Type:       mapping.Question.Type,
				Options:    []QuizAnswerOption{},
			})
			pos = len(payload.Questions) - 1
			index[mapping.QuestionID] = pos
		}
		payload.Questions[pos].Options = append(payload.Questions[pos].Options, QuizAnswerOption{
			AnswerOptionID: mapping.AnswerOption.ID,
			Answer:         mapping.AnswerOption.Answer,
		})
	}

	return payload
}
