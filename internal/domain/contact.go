package domain

import (
	"context"
	"time"
)

// Contact is a message left through the public contact form.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContactRepository interface {
	CreateContact(ctx context.Context, contact *Contact) error
	ListContacts(ctx context.Context) ([]*Contact, error)
	// DeleteContact reports false when the id is unknown.
	DeleteContact(ctx context.Context, id string) (bool, error)
}
