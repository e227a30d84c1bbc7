package filing

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence port for filings
type Repository interface {
	// Insert persists a new filing together with its items
	Insert(ctx context.Context, f *Filing) error

	// FindAll returns all filings ordered by submission date descending
	FindAll(ctx context.Context) ([]*Filing, error)

	// FindByID returns a filing with its items, or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Filing, error)

	// Replace overwrites the stored filing and its items in a single
	// transaction, removing items no longer present
	Replace(ctx context.Context, f *Filing) error

	// Remove deletes the filing and its items, or shared.ErrNotFound
	Remove(ctx context.Context, id uuid.UUID) error
}
