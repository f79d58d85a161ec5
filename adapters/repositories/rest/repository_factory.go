package rest

import (
	"github.com/ZanzyTHEbar/gallery-go/domain/repositories"
	"github.com/ZanzyTHEbar/gallery-go/internal"
)

// RepositoryFactory creates REST-backed repositories sharing one API client
type RepositoryFactory struct {
	caller Caller
	logger *internal.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(caller Caller, logger *internal.Logger) *RepositoryFactory {
	return &RepositoryFactory{
		caller: caller,
		logger: logger,
	}
}

// CreateCategoryRepository creates a new category repository
func (f *RepositoryFactory) CreateCategoryRepository() repositories.CategoryRepository {
	return NewCategoryRepository(f.caller, f.logger)
}

// CreateImageRepository creates a new image repository
func (f *RepositoryFactory) CreateImageRepository() repositories.ImageRepository {
	return NewImageRepository(f.caller, f.logger)
}
