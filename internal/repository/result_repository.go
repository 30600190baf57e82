package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/repository/models"
	"quiz-hub/internal/util"
)

const resultColumns = `ID, ACCOUNT_ID, USER_NAME, QUIZ_TYPE, TOTAL_QUESTIONS, SCORE, CORRECT_ANSWERS, ` +
	`WRONG_ANSWERS, TIME_TAKEN, QUESTION_TIMES, PERCENTAGE_SCORE, CREATED_AT`

type sqlxResultRepository struct {
	db DBTX
}

// NewSQLXResultRepository creates a new instance of sqlxResultRepository.
func NewSQLXResultRepository(db DBTX) domain.ResultRepository {
	return &sqlxResultRepository{db: db}
}

func toDomainResult(m *models.QuizResult) *domain.QuizResult {
	if m == nil {
		return nil
	}
	return &domain.QuizResult{
		ID:             m.ID,
		AccountID:      m.AccountID,
		UserName:       m.UserName,
		Category:       domain.Category(m.QuizType),
		TotalQuestions: m.TotalQuestions,
		Score:          m.Score,
		CorrectAnswers: m.CorrectAnswers,
		WrongAnswers:   m.WrongAnswers,
		TimeTaken:      m.TimeTaken,
		QuestionTimes:  []int(m.QuestionTimes),
		CreatedAt:      m.CreatedAt,
	}
}

func fromDomainResult(r *domain.QuizResult) *models.QuizResult {
	if r == nil {
		return nil
	}
	return &models.QuizResult{
		ID:              r.ID,
		AccountID:       r.AccountID,
		UserName:        r.UserName,
		QuizType:        string(r.Category),
		TotalQuestions:  r.TotalQuestions,
		Score:           r.Score,
		CorrectAnswers:  r.CorrectAnswers,
		WrongAnswers:    r.WrongAnswers,
		TimeTaken:       r.TimeTaken,
		QuestionTimes:   models.IntSlice(r.QuestionTimes),
		PercentageScore: r.PercentageScore(),
		CreatedAt:       r.CreatedAt,
	}
}

// CreateResult appends a finished result. Results are never updated.
func (r *sqlxResultRepository) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	if result.ID == "" {
		result.ID = util.NewULID()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	query := `INSERT INTO quiz_results (` + resultColumns + `)
	          VALUES (:ID, :ACCOUNT_ID, :USER_NAME, :QUIZ_TYPE, :TOTAL_QUESTIONS, :SCORE, :CORRECT_ANSWERS,
	                  :WRONG_ANSWERS, :TIME_TAKEN, :QUESTION_TIMES, :PERCENTAGE_SCORE, :CREATED_AT)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainResult(result)); err != nil {
		return fmt.Errorf("failed to create quiz result: %w", err)
	}
	return nil
}

// ListResultsByAccount returns one page of an account's results, newest first, and the total count.
func (r *sqlxResultRepository) ListResultsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.QuizResult, int, error) {
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM quiz_results WHERE ACCOUNT_ID = :1`, accountID); err != nil {
		return nil, 0, fmt.Errorf("failed to count quiz results: %w", err)
	}

	var rows []models.QuizResult
	query := `SELECT ` + resultColumns + ` FROM quiz_results WHERE ACCOUNT_ID = :1
	          ORDER BY CREATED_AT DESC, ID DESC OFFSET :2 ROWS FETCH NEXT :3 ROWS ONLY`
	if err := exec.SelectContext(ctx, &rows, query, accountID, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list quiz results: %w", err)
	}

	results := make([]*domain.QuizResult, 0, len(rows))
	for i := range rows {
		results = append(results, toDomainResult(&rows[i]))
	}
	return results, total, nil
}
