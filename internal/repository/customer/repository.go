package customer

import (
	"context"

	"customer-manager/internal/domain"
)

// Repository persists and fetches customers.
//
// Lookups that match nothing return domain.ErrNotFound, identifiers the store
// cannot parse return domain.ErrInvalidID and email collisions return a
// validation-kind error wrapping domain.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// Update overwrites every field of the customer and returns the new state.
	Update(ctx context.Context, id string, c domain.Customer) (*domain.Customer, error)
	// Delete removes the customer and returns the removed state.
	Delete(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, q domain.ListQuery) (*domain.Page, error)
	Ping(ctx context.Context) error
}

// duplicateEmailMessage is reported when the unique email index rejects a write.
const duplicateEmailMessage = "Customer validation failed: email: Email address already in use"
