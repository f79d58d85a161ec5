package repositories

import (
	"context"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
)

// Repository defines remote CRUD access for one resource type.
// T is the stored record, P the creation/update payload.
type Repository[T any, P any] interface {
	// List fetches the whole collection
	List(ctx context.Context) ([]T, error)

	// Get fetches a single record by ID
	Get(ctx context.Context, id int64) (T, error)

	// Create stores a new record and returns it with its server-assigned ID
	Create(ctx context.Context, payload P) (T, error)

	// Update replaces the mutable fields of an existing record
	Update(ctx context.Context, id int64, payload P) (T, error)

	// Delete removes a record and returns the deleted record
	Delete(ctx context.Context, id int64) (T, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository = Repository[models.Category, models.CategoryPayload]

// ImageRepository defines the interface for image data access
type ImageRepository = Repository[models.Image, models.ImagePayload]
