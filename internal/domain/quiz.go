package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Category is the quiz subject a question belongs to.
type Category string

const (
	CategoryEnglish   Category = "english"
	CategoryGK        Category = "gk"
	CategoryReasoning Category = "reasoning"
	CategoryMath      Category = "math"
	CategoryComputer  Category = "computer"
)

// Categories lists every supported category in display order.
var Categories = []Category{CategoryEnglish, CategoryGK, CategoryReasoning, CategoryMath, CategoryComputer}

// ParseCategory normalizes s and reports whether it names a supported category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

const (
	MinPromptLength = 10
	MaxPromptLength = 500
	MinOptions      = 2
	MaxOptions      = 5
)

// Question is a single multiple-choice item.
type Question struct {
	ID        string
	Category  Category
	Prompt    string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewQuestion(category Category, prompt string, options []string, answer string) *Question {
	now := time.Now()
	return &Question{
		Category:  category,
		Prompt:    strings.TrimSpace(prompt),
		Options:   options,
		Answer:    answer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsCorrect is an exact match against the stored answer.
func (q *Question) IsCorrect(choice string) bool {
	return choice == q.Answer
}

func (q *Question) HasOption(choice string) bool {
	for _, o := range q.Options {
		if o == choice {
			return true
		}
	}
	return false
}

// Validate enforces the store's schema rules for a question.
func (q *Question) Validate() error {
	var errs ValidationErrors

	if _, ok := ParseCategory(string(q.Category)); !ok {
		errs = append(errs, NewInvalidFormatError("quizType",
			fmt.Sprintf("quizType must be one of %s", joinCategories())))
	}

	if n := utf8.RuneCountInString(q.Prompt); n == 0 {
		errs = append(errs, NewMissingFieldError("question"))
	} else if n < MinPromptLength || n > MaxPromptLength {
		errs = append(errs, NewOutOfRangeError("question", MinPromptLength, MaxPromptLength))
	}

	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		errs = append(errs, NewInvalidFormatError("options",
			fmt.Sprintf("options must contain between %d and %d choices", MinOptions, MaxOptions)))
	} else {
		seen := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				errs = append(errs, NewInvalidFormatError("options", "options must not be blank"))
				break
			}
			if _, dup := seen[o]; dup {
				errs = append(errs, NewInvalidFormatError("options", "options must be unique"))
				break
			}
			seen[o] = struct{}{}
		}
	}

	if q.Answer == "" {
		errs = append(errs, NewMissingFieldError("correctAnswer"))
	} else if !q.HasOption(q.Answer) {
		errs = append(errs, NewInvalidFormatError("correctAnswer", "correctAnswer must be one of the options"))
	}

	return errs.OrNil()
}

func joinCategories() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// QuizResult is the summary submitted once per finished session.
type QuizResult struct {
	ID             string
	AccountID      string
	UserName       string
	Category       Category
	TotalQuestions int
	Score          int
	CorrectAnswers int
	WrongAnswers   int
	TimeTaken      int   // seconds
	QuestionTimes  []int // seconds per completed question, traversal order
	CreatedAt      time.Time
}

// PercentageScore is score/total*100 rounded to two decimals.
func (r *QuizResult) PercentageScore() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return math.Round(float64(r.Score)/float64(r.TotalQuestions)*100*100) / 100
}

// Validate checks the scoring invariants of a result.
func (r *QuizResult) Validate() error {
	var errs ValidationErrors
	if _, ok := ParseCategory(string(r.Category)); !ok {
		errs = append(errs, NewInvalidFormatError("quizType", "unknown quiz type"))
	}
	if r.TotalQuestions <= 0 {
		errs = append(errs, NewInvalidFormatError("totalQuestions", "totalQuestions must be positive"))
	}
	if r.CorrectAnswers < 0 || r.WrongAnswers < 0 || r.TimeTaken < 0 {
		errs = append(errs, NewInvalidFormatError("result", "counts must not be negative"))
	}
	if r.CorrectAnswers+r.WrongAnswers != r.TotalQuestions {
		errs = append(errs, NewInvalidFormatError("result", "correctAnswers + wrongAnswers must equal totalQuestions"))
	}
	if r.Score != r.CorrectAnswers {
		errs = append(errs, NewInvalidFormatError("score", "score must equal correctAnswers"))
	}
	if len(r.QuestionTimes) != 0 && len(r.QuestionTimes) != r.TotalQuestions {
		errs = append(errs, NewInvalidFormatError("questionTimes", "questionTimes must have one entry per question"))
	}
	return errs.OrNil()
}

// QuestionRepository is the Question Store for quiz items.
type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]*Question, error)
	ListQuestionsByCategory(ctx context.Context, category Category) ([]*Question, error)
	// GetQuestionByID returns (nil, nil) when the id is unknown.
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	CreateQuestion(ctx context.Context, question *Question) error
	// DeleteQuestion reports false when nothing was deleted.
	DeleteQuestion(ctx context.Context, id string) (bool, error)
}

// ResultRepository appends finished quiz results.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *QuizResult) error
	ListResultsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*QuizResult, int, error)
}
