package service

import (
	"context"
	"strings"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/validation"

	"go.uber.org/zap"
)

// ContactService stores and manages contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (*dto.ContactResponse, error)
	// List fails with NOT_FOUND when there are no contacts.
	List(ctx context.Context) ([]dto.ContactResponse, error)
	Delete(ctx context.Context, id string) error
}

type contactServiceImpl struct {
	contacts  domain.ContactRepository
	validator *validation.Validator
}

func NewContactService(contacts domain.ContactRepository) ContactService {
	return &contactServiceImpl{contacts: contacts, validator: validation.NewValidator()}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req dto.ContactRequest) (*dto.ContactResponse, error) {
	if errs := s.validator.ValidateContact(req.Name, req.Email, req.Message); len(errs) > 0 {
		return nil, errs
	}

	now := time.Now()
	contact := &domain.Contact{
		Name:      strings.TrimSpace(req.Name),
		Email:     validation.NormalizeEmail(req.Email),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.CreateContact(ctx, contact); err != nil {
		return nil, domain.NewTransientError("An error occurred while saving contact details", err)
	}

	logger.Get().Info("Contact saved", zap.String("contactID", contact.ID))
	resp := toContactResponse(contact)
	return &resp, nil
}

func (s *contactServiceImpl) List(ctx context.Context) ([]dto.ContactResponse, error) {
	contacts, err := s.contacts.ListContacts(ctx)
	if err != nil {
		return nil, domain.NewTransientError("An error occurred while fetching contact details", err)
	}
	if len(contacts) == 0 {
		return nil, domain.NewNotFoundError("No contact details found")
	}
	resp := make([]dto.ContactResponse, len(contacts))
	for i, c := range contacts {
		resp[i] = toContactResponse(c)
	}
	return resp, nil
}

func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	if errs := s.validator.ValidateID("id", id); len(errs) > 0 {
		return errs
	}
	deleted, err := s.contacts.DeleteContact(ctx, id)
	if err != nil {
		return domain.NewTransientError("An error occurred while deleting contact", err)
	}
	if !deleted {
		return domain.NewNotFoundError("Contact not found")
	}
	logger.Get().Info("Contact deleted", zap.String("contactID", id))
	return nil
}

func toContactResponse(c *domain.Contact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}
