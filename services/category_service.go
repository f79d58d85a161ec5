package services

import (
	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/repositories"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cache"
)

// CategoryServiceConfig holds the dependencies of a CategoryService
type CategoryServiceConfig struct {
	Repository repositories.CategoryRepository
	Store      *cache.Store
	Notifier   Notifier
	Logger     *internal.Logger
}

// CategoryService serves cached category reads and mutations. Every
// successful mutation invalidates the category list.
type CategoryService struct {
	*resourceService[models.Category, models.CategoryPayload]
}

// NewCategoryService creates a new category service
func NewCategoryService(config CategoryServiceConfig) *CategoryService {
	return &CategoryService{
		resourceService: newResourceService(
			CategoriesResource,
			config.Repository,
			config.Store,
			config.Notifier,
			config.Logger,
			// the category screens reuse the image wording
			successMessages{
				create: "Image created successfully",
				update: "Image updated successfully",
				delete: "Image deleted successfully",
			},
			map[string]bool{
				MutationCreate: true,
				MutationUpdate: true,
				MutationDelete: true,
			},
		),
	}
}
