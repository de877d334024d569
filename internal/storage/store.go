// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/phonebook/internal/models"
)

// Store defines the interface for phonebook storage operations.
// This abstraction allows swapping storage backends without changing
// the callers (auth, CLI).
type Store interface {
	// GetUser retrieves a user by username.
	// Returns an error matching ErrNotFound if no such user exists.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// CreateUser inserts a new user. A duplicate username fails with ErrConstraint.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdatePassword sets the password hash for username.
	// Updating a username that does not exist is a silent no-op.
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	// AddPerson persists a person and all of its phone numbers atomically.
	// The person.ID field will be populated by the store.
	AddPerson(ctx context.Context, person *models.Person) error

	// DeletePerson removes a person and its phone numbers.
	// Returns the number of person rows deleted (0 or 1).
	DeletePerson(ctx context.Context, id int64) (int64, error)

	// ListPeople returns every person with nested phone numbers, sorted
	// ascending by orderBy, which must be one of the sortable fields.
	ListPeople(ctx context.Context, orderBy string) ([]*models.Person, error)

	// PersonIDs returns the ids of all people in store-default order.
	PersonIDs(ctx context.Context) ([]int64, error)
}
