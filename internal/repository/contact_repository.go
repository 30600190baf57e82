package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/repository/models"
	"quiz-hub/internal/util"
)

type sqlxContactRepository struct {
	db DBTX
}

func NewSQLXContactRepository(db DBTX) domain.ContactRepository {
	return &sqlxContactRepository{db: db}
}

func (r *sqlxContactRepository) CreateContact(ctx context.Context, contact *domain.Contact) error {
	if contact.ID == "" {
		contact.ID = util.NewULID()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	contact.UpdatedAt = contact.CreatedAt

	m := models.Contact{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Message:   contact.Message,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
	query := `INSERT INTO contacts (ID, NAME, EMAIL, MESSAGE, CREATED_AT, UPDATED_AT)
	          VALUES (:ID, :NAME, :EMAIL, :MESSAGE, :CREATED_AT, :UPDATED_AT)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// ListContacts returns every contact, newest first.
func (r *sqlxContactRepository) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	var rows []models.Contact
	query := `SELECT ID, NAME, EMAIL, MESSAGE, CREATED_AT, UPDATED_AT FROM contacts ORDER BY CREATED_AT DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]*domain.Contact, 0, len(rows))
	for _, m := range rows {
		contacts = append(contacts, &domain.Contact{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return contacts, nil
}

func (r *sqlxContactRepository) DeleteContact(ctx context.Context, id string) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM contacts WHERE ID = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
