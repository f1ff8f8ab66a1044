package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mkovac21/accountd/internal/domain"
)

// ErrDuplicateEmail is returned by Create when the unique email index
// rejects the document.
var ErrDuplicateEmail = errors.New("email already exists")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update replaces the whole stored document with the loaded, mutated
	// entity. Concurrent writers to the same account race on it; the last
	// persisted write wins.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
