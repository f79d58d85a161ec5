package rest

import (
	"context"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/repositories"
	"github.com/ZanzyTHEbar/gallery-go/internal"
)

// CategoriesPath is the categories collection endpoint
const CategoriesPath = "categories"

// every category operation reports the same failure text
const categoryFailure = "Failed to fetch categories"

var _ repositories.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository is a REST implementation of the CategoryRepository interface
type CategoryRepository struct {
	ep *endpoint[models.Category, models.CategoryPayload]
}

// NewCategoryRepository creates a new REST category repository
func NewCategoryRepository(caller Caller, logger *internal.Logger) *CategoryRepository {
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &CategoryRepository{
		ep: &endpoint[models.Category, models.CategoryPayload]{
			caller:     caller,
			collection: CategoriesPath,
			resource:   "category",
			messages: map[string]string{
				OpList:   categoryFailure,
				OpGet:    categoryFailure,
				OpCreate: categoryFailure,
				OpUpdate: categoryFailure,
				OpDelete: categoryFailure,
			},
			parse:     models.ParseCategory,
			parseList: models.ParseCategoryList,
			logger:    logger,
		},
	}
}

// List fetches all categories
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	return r.ep.list(ctx)
}

// Get fetches a category by ID
func (r *CategoryRepository) Get(ctx context.Context, id int64) (models.Category, error) {
	return r.ep.get(ctx, id)
}

// Create posts a new category
func (r *CategoryRepository) Create(ctx context.Context, payload models.CategoryPayload) (models.Category, error) {
	return r.ep.create(ctx, payload)
}

// Update replaces a category's fields
func (r *CategoryRepository) Update(ctx context.Context, id int64, payload models.CategoryPayload) (models.Category, error) {
	return r.ep.update(ctx, id, payload)
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int64) (models.Category, error) {
	return r.ep.remove(ctx, id)
}
