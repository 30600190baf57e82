package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/repository/models"
	"quiz-hub/internal/util"
)

const questionColumns = `ID, QUIZ_TYPE, QUESTION, OPTIONS, CORRECT_ANSWER, CREATED_AT, UPDATED_AT`

type sqlxQuestionRepository struct {
	db DBTX
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db DBTX) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	options := []string(m.Options)
	if options == nil {
		options = []string{}
	}
	return &domain.Question{
		ID:        m.ID,
		Category:  domain.Category(m.QuizType),
		Prompt:    m.Question,
		Options:   options,
		Answer:    m.CorrectAnswer,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:            q.ID,
		QuizType:      string(q.Category),
		Question:      q.Prompt,
		Options:       models.StringSlice(q.Options),
		CorrectAnswer: q.Answer,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func toDomainQuestions(rows []models.Question) []*domain.Question {
	out := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainQuestion(&rows[i]))
	}
	return out
}

// ListQuestions returns every question, oldest first.
func (r *sqlxQuestionRepository) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY CREATED_AT, ID`

	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return toDomainQuestions(rows), nil
}

// ListQuestionsByCategory returns the questions of one category in insertion order.
// The order is stable so a quiz session sees the same sequence on reload.
func (r *sqlxQuestionRepository) ListQuestionsByCategory(ctx context.Context, category domain.Category) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE QUIZ_TYPE = :1 ORDER BY CREATED_AT, ID`

	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, string(category)); err != nil {
		return nil, fmt.Errorf("failed to list questions for %s: %w", category, err)
	}
	return toDomainQuestions(rows), nil
}

func (r *sqlxQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	var m models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE ID = :1`

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return toDomainQuestion(&m), nil
}

func (r *sqlxQuestionRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	if question.ID == "" {
		question.ID = util.NewULID()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	question.UpdatedAt = question.CreatedAt

	query := `INSERT INTO questions (` + questionColumns + `)
	          VALUES (:ID, :QUIZ_TYPE, :QUESTION, :OPTIONS, :CORRECT_ANSWER, :CREATED_AT, :UPDATED_AT)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainQuestion(question)); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *sqlxQuestionRepository) DeleteQuestion(ctx context.Context, id string) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM questions WHERE ID = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete question: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
