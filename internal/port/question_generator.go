package port

import (
	"context"

	"quiz-hub/internal/domain"
)

// QuestionGenerator drafts new questions for a category.
// Drafts are not validated; callers run Question.Validate before storing them.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, category domain.Category, count int) ([]*domain.Question, error)
}
