package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quiz-hub/internal/cache"
	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mathQuestions() []*domain.Question {
	return []*domain.Question{
		{ID: "01HZX3Q4J8K9M2N5P6R7S8T9V1", Category: domain.CategoryMath, Prompt: "What is 2 + 2 equal to?", Options: []string{"3", "4"}, Answer: "4"},
		{ID: "01HZX3Q4J8K9M2N5P6R7S8T9V2", Category: domain.CategoryMath, Prompt: "What is 3 times 3 equal to?", Options: []string{"6", "9"}, Answer: "9"},
	}
}

func TestQuestionService_ListByCategory_CacheMissThenFill(t *testing.T) {
	repo := new(MockQuestionRepository)
	c := new(MockCache)
	key := cache.QuestionListKey(domain.CategoryMath)

	c.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
	repo.On("ListQuestionsByCategory", mock.Anything, domain.CategoryMath).Return(mathQuestions(), nil)
	c.On("Set", mock.Anything, key, mock.AnythingOfType("string"), 10*time.Minute).Return(nil)
	svc := NewQuestionService(repo, c, nil, 10*time.Minute)

	resp, err := svc.ListByCategory(context.Background(), "Math")

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "math", resp[0].QuizType)
	assert.Equal(t, "4", resp[0].CorrectAnswer)
	c.AssertExpectations(t)
}

func TestQuestionService_ListByCategory_CacheHit(t *testing.T) {
	repo := new(MockQuestionRepository)
	c := new(MockCache)
	cached, _ := json.Marshal([]dto.QuestionResponse{{ID: "q1", QuizType: "gk", Question: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectAnswer: "Paris"}})
	c.On("Get", mock.Anything, cache.QuestionListKey(domain.CategoryGK)).Return(string(cached), nil)
	svc := NewQuestionService(repo, c, nil, time.Minute)

	resp, err := svc.ListByCategory(context.Background(), "gk")

	require.NoError(t, err)
	assert.Equal(t, "q1", resp[0].ID)
	repo.AssertNotCalled(t, "ListQuestionsByCategory", mock.Anything, mock.Anything)
}

func TestQuestionService_ListByCategory_Empty(t *testing.T) {
	repo := new(MockQuestionRepository)
	repo.On("ListQuestionsByCategory", mock.Anything, domain.CategoryReasoning).Return([]*domain.Question{}, nil)
	svc := NewQuestionService(repo, nil, nil, time.Minute)

	_, err := svc.ListByCategory(context.Background(), "reasoning")
	assertCode(t, err, domain.CodeNoQuestionsAvailable)

	_, err = svc.ListByCategory(context.Background(), "astrology")
	assertCode(t, err, domain.CodeValidation)
}

func TestQuestionService_ListByCategory_CacheDownFallsThrough(t *testing.T) {
	repo := new(MockQuestionRepository)
	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything).Return("", errors.New("dial tcp: connection refused"))
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("dial tcp: connection refused"))
	repo.On("ListQuestionsByCategory", mock.Anything, domain.CategoryMath).Return(mathQuestions(), nil)
	svc := NewQuestionService(repo, c, nil, time.Minute)

	resp, err := svc.ListByCategory(context.Background(), "math")

	require.NoError(t, err)
	assert.Len(t, resp, 2)
}

func TestQuestionService_ListQuestions_StoreFailure(t *testing.T) {
	repo := new(MockQuestionRepository)
	repo.On("ListQuestions", mock.Anything).Return(nil, errors.New("ORA-03113"))
	svc := NewQuestionService(repo, nil, nil, time.Minute)

	_, err := svc.ListQuestions(context.Background())
	assertCode(t, err, domain.CodeTransientFailure)
}

func TestQuestionService_AddQuestion(t *testing.T) {
	repo := new(MockQuestionRepository)
	c := new(MockCache)
	repo.On("CreateQuestion", mock.Anything, mock.AnythingOfType("*domain.Question")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Question).ID = "01HZX3Q4J8K9M2N5P6R7S8T9V3" }).
		Return(nil)
	c.On("Delete", mock.Anything, cache.QuestionListKey(domain.CategoryComputer)).Return(nil)
	c.On("Delete", mock.Anything, cache.QuestionListKey("")).Return(nil)
	svc := NewQuestionService(repo, c, nil, time.Minute)

	resp, err := svc.AddQuestion(context.Background(), dto.CreateQuestionRequest{
		QuizType: "computer", Question: "What does CPU stand for?", Options: []string{"Central Processing Unit", "Core Power Unit"}, CorrectAnswer: "Central Processing Unit",
	})

	require.NoError(t, err)
	assert.Equal(t, "01HZX3Q4J8K9M2N5P6R7S8T9V3", resp.ID)
	c.AssertExpectations(t)
}

func TestQuestionService_AddQuestion_Invalid(t *testing.T) {
	repo := new(MockQuestionRepository)
	svc := NewQuestionService(repo, nil, nil, time.Minute)

	_, err := svc.AddQuestion(context.Background(), dto.CreateQuestionRequest{
		QuizType: "poetry", Question: "short", Options: []string{"a", "a"}, CorrectAnswer: "b",
	})

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 4)
	repo.AssertNotCalled(t, "CreateQuestion", mock.Anything, mock.Anything)
}

func TestQuestionService_DeleteQuestion(t *testing.T) {
	repo := new(MockQuestionRepository)
	q := mathQuestions()[0]
	repo.On("GetQuestionByID", mock.Anything, q.ID).Return(q, nil)
	repo.On("DeleteQuestion", mock.Anything, q.ID).Return(true, nil)
	repo.On("GetQuestionByID", mock.Anything, "01HZX3Q4J8K9M2N5P6R7S8T9ZZ").Return(nil, nil)
	svc := NewQuestionService(repo, nil, nil, time.Minute)

	require.NoError(t, svc.DeleteQuestion(context.Background(), q.ID))
	assertCode(t, svc.DeleteQuestion(context.Background(), "01HZX3Q4J8K9M2N5P6R7S8T9ZZ"), domain.CodeNotFound)
	assertCode(t, svc.DeleteQuestion(context.Background(), "not-an-id"), domain.CodeValidation)
}

func TestQuestionService_GenerateQuestions(t *testing.T) {
	repo := new(MockQuestionRepository)
	gen := new(MockQuestionGenerator)
	drafts := append(mathQuestions(), &domain.Question{Category: domain.CategoryMath, Prompt: "bad", Options: []string{"x"}, Answer: "y"})
	gen.On("GenerateQuestions", mock.Anything, domain.CategoryMath, 3).Return(drafts, nil)
	repo.On("CreateQuestion", mock.Anything, mock.Anything).Return(nil).Twice()
	svc := NewQuestionService(repo, nil, gen, time.Minute)

	stored, err := svc.GenerateQuestions(context.Background(), domain.CategoryMath, 3)

	require.NoError(t, err)
	assert.Len(t, stored, 2)
	repo.AssertExpectations(t)
}
