package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// QuestionService предоставляет методы для авторинга вопросов и вариантов ответов
type QuestionService struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(questionRepo repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// QuestionDraft описывает создаваемый вопрос с вариантами ответов
type QuestionDraft struct {
	Question string
	Category string
	Type     string
	Answers  []string
}

// CreateQuestion создает вопрос и его варианты ответов.
// Привязка к тестам и признаки правильности задаются отдельно,
// при сохранении привязок теста.
func (s *QuestionService) CreateQuestion(ownerID uint, draft QuestionDraft) (*entity.Question, []entity.AnswerOption, error) {
	if strings.TrimSpace(draft.Question) == "" {
		return nil, nil, fmt.Errorf("question text is required: %w", apperrors.ErrValidation)
	}
	if len(draft.Answers) < 2 {
		return nil, nil, fmt.Errorf("at least two answer options are required: %w", apperrors.ErrValidation)
	}

	questionType := draft.Type
	if questionType == "" {
		questionType = entity.QuestionTypeSingleChoice
	}
	if questionType != entity.QuestionTypeSingleChoice && questionType != entity.QuestionTypeMultiChoice {
		return nil, nil, fmt.Errorf("unknown question type %q: %w", draft.Type, apperrors.ErrValidation)
	}

	category := draft.Category
	if category == "" {
		category = "GENERAL"
	}

	question := &entity.Question{
		Question:     strings.TrimSpace(draft.Question),
		Category:     category,
		Type:         questionType,
		CreateUserID: ownerID,
	}

	options := make([]entity.AnswerOption, 0, len(draft.Answers))
	for i, answer := range draft.Answers {
		if strings.TrimSpace(answer) == "" {
			return nil, nil, fmt.Errorf("answer option #%d is empty: %w", i+1, apperrors.ErrValidation)
		}
		options = append(options, entity.AnswerOption{
			Answer:       strings.TrimSpace(answer),
			Category:     category,
			CreateUserID: ownerID,
		})
	}

	if err := s.questionRepo.CreateWithOptions(question, options); err != nil {
		return nil, nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, options, nil
}

// GetQuestionByID возвращает вопрос по ID
func (s *QuestionService) GetQuestionByID(questionID uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(questionID)
}

// ListQuestions возвращает вопросы владельца с пагинацией
func (s *QuestionService) ListQuestions(ownerID uint, page, pageSize int) ([]entity.Question, error) {
	offset := (page - 1) * pageSize
	return s.questionRepo.ListByOwner(ownerID, pageSize, offset)
}
