package repository

import (
	"context"
	"errors"

	"github.com/nsdigital/agency-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no account matches the lookup key.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// email index. The store, not the application pre-check, is the
	// authority here: two concurrent registrations race past the
	// pre-check and the losing insert must still surface as a duplicate.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Stats holds aggregate account counts for the admin dashboard.
type Stats struct {
	TotalUsers   int64
	BlockedUsers int64
	AdminUsers   int64
}

// UserRepository defines the persistence operations the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns all accounts ordered by creation time descending.
	List(ctx context.Context) ([]*entity.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*entity.User, error)
	UpdatePhoto(ctx context.Context, id string, photo string) (*entity.User, error)
	Stats(ctx context.Context) (Stats, error)
}
