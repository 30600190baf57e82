package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-hub/internal/cache"
	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/port"
	"quiz-hub/internal/validation"

	"go.uber.org/zap"
)

// QuestionService serves the question bank and keeps the per-category list cache fresh.
type QuestionService interface {
	ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	// ListByCategory fails with NO_QUESTIONS_AVAILABLE when the category is empty.
	ListByCategory(ctx context.Context, quizType string) ([]dto.QuestionResponse, error)
	AddQuestion(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id string) error
	// GenerateQuestions drafts count questions with the configured generator and stores those that validate.
	GenerateQuestions(ctx context.Context, category domain.Category, count int) ([]dto.QuestionResponse, error)
}

type questionServiceImpl struct {
	questions domain.QuestionRepository
	cache     domain.Cache
	generator port.QuestionGenerator
	validator *validation.Validator
	cacheTTL  time.Duration
}

// NewQuestionService creates a new instance of QuestionService. cache and generator may be nil.
func NewQuestionService(questions domain.QuestionRepository, cache domain.Cache, generator port.QuestionGenerator, cacheTTL time.Duration) QuestionService {
	return &questionServiceImpl{
		questions: questions,
		cache:     cache,
		generator: generator,
		validator: validation.NewValidator(),
		cacheTTL:  cacheTTL,
	}
}

func (s *questionServiceImpl) ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	key := cache.QuestionListKey("")
	if cached, ok := s.readCache(ctx, key); ok {
		return cached, nil
	}

	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return nil, domain.NewTransientError("Failed to load questions", err)
	}
	resp := toQuestionResponses(questions)
	s.writeCache(ctx, key, resp)
	return resp, nil
}

func (s *questionServiceImpl) ListByCategory(ctx context.Context, quizType string) ([]dto.QuestionResponse, error) {
	category, errs := s.validator.ValidateQuizType(quizType)
	if len(errs) > 0 {
		return nil, errs
	}

	key := cache.QuestionListKey(category)
	if cached, ok := s.readCache(ctx, key); ok && len(cached) > 0 {
		return cached, nil
	}

	questions, err := s.questions.ListQuestionsByCategory(ctx, category)
	if err != nil {
		return nil, domain.NewTransientError("Failed to load questions", err)
	}
	if len(questions) == 0 {
		return nil, domain.NewNoQuestionsAvailableError(string(category))
	}
	resp := toQuestionResponses(questions)
	s.writeCache(ctx, key, resp)
	return resp, nil
}

func (s *questionServiceImpl) AddQuestion(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	category, _ := domain.ParseCategory(req.QuizType)
	if category == "" {
		category = domain.Category(req.QuizType)
	}
	question := domain.NewQuestion(category, req.Question, req.Options, req.CorrectAnswer)
	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.questions.CreateQuestion(ctx, question); err != nil {
		return nil, domain.NewTransientError("Failed to save question", err)
	}
	s.invalidate(ctx, question.Category)

	logger.Get().Info("Question added", zap.String("questionID", question.ID), zap.String("category", string(question.Category)))
	resp := toQuestionResponse(question)
	return &resp, nil
}

func (s *questionServiceImpl) DeleteQuestion(ctx context.Context, id string) error {
	if errs := s.validator.ValidateID("id", id); len(errs) > 0 {
		return errs
	}

	existing, err := s.questions.GetQuestionByID(ctx, id)
	if err != nil {
		return domain.NewTransientError("Failed to load question", err)
	}
	if existing == nil {
		return domain.NewNotFoundError("Question not found")
	}

	deleted, err := s.questions.DeleteQuestion(ctx, id)
	if err != nil {
		return domain.NewTransientError("Failed to delete question", err)
	}
	if !deleted {
		return domain.NewNotFoundError("Question not found")
	}
	s.invalidate(ctx, existing.Category)

	logger.Get().Info("Question deleted", zap.String("questionID", id))
	return nil
}

func (s *questionServiceImpl) GenerateQuestions(ctx context.Context, category domain.Category, count int) ([]dto.QuestionResponse, error) {
	if s.generator == nil {
		return nil, domain.NewInternalError("Question generation is not configured", nil)
	}
	drafts, err := s.generator.GenerateQuestions(ctx, category, count)
	if err != nil {
		return nil, err
	}

	stored := make([]dto.QuestionResponse, 0, len(drafts))
	for _, q := range drafts {
		if err := q.Validate(); err != nil {
			logger.Get().Warn("Skipping generated question", zap.String("category", string(category)), zap.Error(err))
			continue
		}
		if err := s.questions.CreateQuestion(ctx, q); err != nil {
			return stored, domain.NewTransientError("Failed to save generated question", err)
		}
		stored = append(stored, toQuestionResponse(q))
	}
	if len(stored) > 0 {
		s.invalidate(ctx, category)
	}
	return stored, nil
}

func (s *questionServiceImpl) readCache(ctx context.Context, key string) ([]dto.QuestionResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Question cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var resp []dto.QuestionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		logger.Get().Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return resp, true
}

func (s *questionServiceImpl) writeCache(ctx context.Context, key string, resp []dto.QuestionResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		logger.Get().Warn("Question cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops the category list and the all-questions list.
func (s *questionServiceImpl) invalidate(ctx context.Context, category domain.Category) {
	if s.cache == nil {
		return
	}
	for _, key := range []string{cache.QuestionListKey(category), cache.QuestionListKey("")} {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("Question cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:            q.ID,
		QuizType:      string(q.Category),
		Question:      q.Prompt,
		Options:       q.Options,
		CorrectAnswer: q.Answer,
	}
}

func toQuestionResponses(questions []*domain.Question) []dto.QuestionResponse {
	resp := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		resp[i] = toQuestionResponse(q)
	}
	return resp
}
