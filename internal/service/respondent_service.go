package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/pkg/accesscode"
)

// MaxRespondentsPerBatch - максимальный размер партии при выдаче кодов
const MaxRespondentsPerBatch = 20

// ProvisionedRespondent - элемент партии выдачи: вход содержит имя/фамилию/email,
// выход дополнен идентификатором респондента и свежевыданным кодом доступа.
type ProvisionedRespondent struct {
	RespondentID uint   `json:"respondent_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	AccessCode   string `json:"access_code"`
}

// RespondentService выдает коды доступа: upsert респондента по email и
// upsert кода по паре (тест, респондент).
type RespondentService struct {
	testRepo       repository.TestRepository
	respondentRepo repository.RespondentRepository
	accessCodeRepo repository.AccessCodeRepository
	codec          *accesscode.Codec
	now            func() time.Time
}

// NewRespondentService создает новый сервис респондентов
func NewRespondentService(
	testRepo repository.TestRepository,
	respondentRepo repository.RespondentRepository,
	accessCodeRepo repository.AccessCodeRepository,
	codec *accesscode.Codec,
) *RespondentService {
	return &RespondentService{
		testRepo:       testRepo,
		respondentRepo: respondentRepo,
		accessCodeRepo: accessCodeRepo,
		codec:          codec,
		now:            time.Now,
	}
}

// ProvisionRespondents обрабатывает партию в порядке списка: для каждого
// респондента - upsert по email (последняя запись побеждает), выпуск кода с
// текущей меткой времени и upsert кода по паре (тест, респондент), что
// аннулирует прежний код без переходного периода. Каждый upsert атомарен на
// уровне строки; атомарность всей партии не гарантируется - любой сбой
// прерывает вызов, и вызывающий повторяет партию целиком.
func (s *RespondentService) ProvisionRespondents(testID uint, respondents []ProvisionedRespondent) ([]ProvisionedRespondent, error) {
	if len(respondents) == 0 {
		return nil, fmt.Errorf("no respondents provided: %w", apperrors.ErrValidation)
	}
	if len(respondents) > MaxRespondentsPerBatch {
		return nil, fmt.Errorf("at most %d respondents per batch: %w", MaxRespondentsPerBatch, apperrors.ErrValidation)
	}
	for i, r := range respondents {
		if strings.TrimSpace(r.Email) == "" {
			return nil, fmt.Errorf("respondent #%d has empty email: %w", i+1, apperrors.ErrValidation)
		}
	}

	// Тест должен существовать до выдачи кодов
	if _, err := s.testRepo.GetByID(testID); err != nil {
		return nil, err
	}

	result := make([]ProvisionedRespondent, 0, len(respondents))

	for _, r := range respondents {
		respondent := &entity.Respondent{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     strings.TrimSpace(r.Email),
		}
		if err := s.respondentRepo.UpsertByEmail(respondent); err != nil {
			return nil, fmt.Errorf("failed to upsert respondent %s: %w", respondent.Email, err)
		}

		issuedAt := s.now()
		code := s.codec.Encode(testID, respondent.ID, issuedAt)

		accessCode := &entity.TestAccessCode{
			TestID:       testID,
			RespondentID: respondent.ID,
			Code:         code,
			IssuedAt:     accesscode.FormatCompact(issuedAt),
		}
		if err := s.accessCodeRepo.Upsert(accessCode); err != nil {
			return nil, fmt.Errorf("failed to upsert access code for respondent %s: %w", respondent.Email, err)
		}

		result = append(result, ProvisionedRespondent{
			RespondentID: respondent.ID,
			FirstName:    respondent.FirstName,
			LastName:     respondent.LastName,
			Email:        respondent.Email,
			AccessCode:   code,
		})
	}

	log.Printf("[RespondentService] Выдано %d кодов доступа для теста ID=%d", len(result), testID)
	return result, nil
}

// ListProvisioned возвращает респондентов теста с их кодами доступа
func (s *RespondentService) ListProvisioned(testID uint) ([]ProvisionedRespondent, error) {
	codes, err := s.accessCodeRepo.ListByTest(testID)
	if err != nil {
		return nil, err
	}

	result := make([]ProvisionedRespondent, 0, len(codes))
	for _, code := range codes {
		result = append(result, ProvisionedRespondent{
			RespondentID: code.RespondentID,
			FirstName:    code.Respondent.FirstName,
			LastName:     code.Respondent.LastName,
			Email:        code.Respondent.Email,
			AccessCode:   code.Code,
		})
	}
	return result, nil
}
