package service

import (
	"context"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultResultPageSize = 10
	maxResultPageSize     = 100
)

// ResultService stores finished quiz results for authenticated accounts.
type ResultService interface {
	SaveResult(ctx context.Context, accountID string, req dto.SaveResultRequest) (*dto.QuizResultResponse, error)
	ListResults(ctx context.Context, accountID string, page dto.Pagination) (*dto.QuizResultsResponse, error)
}

type resultServiceImpl struct {
	results  domain.ResultRepository
	accounts domain.AccountRepository
}

func NewResultService(results domain.ResultRepository, accounts domain.AccountRepository) ResultService {
	return &resultServiceImpl{results: results, accounts: accounts}
}

func (s *resultServiceImpl) SaveResult(ctx context.Context, accountID string, req dto.SaveResultRequest) (*dto.QuizResultResponse, error) {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, domain.NewTransientError("Failed to look up account", err)
	}
	if account == nil {
		return nil, domain.NewNotFoundError("User not found")
	}

	category, _ := domain.ParseCategory(req.QuizType)
	result := &domain.QuizResult{
		AccountID:      account.ID,
		UserName:       account.Username,
		Category:       category,
		TotalQuestions: req.TotalQuestions,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		WrongAnswers:   req.WrongAnswers,
		TimeTaken:      req.TimeTaken,
		QuestionTimes:  req.QuestionTimes,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	if err := s.results.CreateResult(ctx, result); err != nil {
		return nil, domain.NewTransientError("Failed to save quiz result", err)
	}

	logger.Get().Info("Quiz result stored",
		zap.String("resultID", result.ID),
		zap.String("accountID", account.ID),
		zap.String("category", string(category)),
		zap.Int("score", result.Score))
	resp := toResultResponse(result)
	return &resp, nil
}

func (s *resultServiceImpl) ListResults(ctx context.Context, accountID string, page dto.Pagination) (*dto.QuizResultsResponse, error) {
	page = page.Normalize(defaultResultPageSize, maxResultPageSize)
	results, total, err := s.results.ListResultsByAccount(ctx, accountID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.NewTransientError("Failed to load quiz results", err)
	}

	resp := &dto.QuizResultsResponse{
		Results:        make([]dto.QuizResultResponse, len(results)),
		PaginationInfo: dto.NewPaginationInfo(total, page),
	}
	for i, r := range results {
		resp.Results[i] = toResultResponse(r)
	}
	return resp, nil
}

func toResultResponse(r *domain.QuizResult) dto.QuizResultResponse {
	return dto.QuizResultResponse{
		ID:              r.ID,
		UserName:        r.UserName,
		QuizType:        string(r.Category),
		TotalQuestions:  r.TotalQuestions,
		Score:           r.Score,
		CorrectAnswers:  r.CorrectAnswers,
		WrongAnswers:    r.WrongAnswers,
		TimeTaken:       r.TimeTaken,
		QuestionTimes:   r.QuestionTimes,
		PercentageScore: r.PercentageScore(),
		CreatedAt:       r.CreatedAt,
	}
}
