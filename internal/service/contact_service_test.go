package service

import (
	"context"
	"testing"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	repo := new(MockContactRepository)
	repo.On("CreateContact", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.Email == "ada@example.com" && c.Name == "Ada"
	})).Return(nil)
	svc := NewContactService(repo)

	resp, err := svc.Submit(context.Background(), dto.ContactRequest{Name: " Ada ", Email: " ADA@example.com", Message: "Loved the math quiz!"})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.Email)
	repo.AssertExpectations(t)
}

func TestContactService_Submit_Invalid(t *testing.T) {
	svc := NewContactService(new(MockContactRepository))
	_, err := svc.Submit(context.Background(), dto.ContactRequest{Name: "A", Email: "nope", Message: "short"})
	assertCode(t, err, domain.CodeValidation)
}

func TestContactService_ListAndDelete(t *testing.T) {
	repo := new(MockContactRepository)
	repo.On("ListContacts", mock.Anything).Return([]*domain.Contact{}, nil).Once()
	svc := NewContactService(repo)

	_, err := svc.List(context.Background())
	assertCode(t, err, domain.CodeNotFound)

	repo.On("DeleteContact", mock.Anything, "01HZX3Q4J8K9M2N5P6R7S8T9V1").Return(false, nil)
	assertCode(t, svc.Delete(context.Background(), "01HZX3Q4J8K9M2N5P6R7S8T9V1"), domain.CodeNotFound)
}
