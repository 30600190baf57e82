package repository

import (
	"context"
	"testing"
	"time"

	"quiz-hub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLXContactRepository_CreateAndList(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXContactRepository(db)

	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(sqlmock.AnyArg(), "Alice", "alice@ok.com", "Hello there, nice quiz!", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	contact := &domain.Contact{Name: "Alice", Email: "alice@ok.com", Message: "Hello there, nice quiz!"}
	require.NoError(t, repo.CreateContact(context.Background(), contact))
	assert.NotEmpty(t, contact.ID)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM contacts ORDER BY CREATED_AT DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"ID", "NAME", "EMAIL", "MESSAGE", "CREATED_AT", "UPDATED_AT"}).
			AddRow(contact.ID, "Alice", "alice@ok.com", "Hello there, nice quiz!", now, now))

	contacts, err := repo.ListContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Alice", contacts[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXContactRepository_DeleteContact(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXContactRepository(db)

	mock.ExpectExec(`DELETE FROM contacts WHERE ID = :1`).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteContact(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
