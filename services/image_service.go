package services

import (
	"context"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/repositories"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cache"
)

// ImageServiceOptions tune cache behaviour of the image service
type ImageServiceOptions struct {
	// InvalidateOnWrite also refetches the image list after update and
	// delete. By default only create invalidates it.
	InvalidateOnWrite bool
}

// ImageServiceConfig holds the dependencies of an ImageService
type ImageServiceConfig struct {
	Repository repositories.ImageRepository
	Store      *cache.Store
	Notifier   Notifier
	Logger     *internal.Logger
	Options    ImageServiceOptions
}

// ImageService serves cached image reads and mutations. Unless
// InvalidateOnWrite is set, callers that need a fresh list after an update
// or delete must invalidate it themselves with RefreshList.
type ImageService struct {
	*resourceService[models.Image, models.ImagePayload]
}

// NewImageService creates a new image service
func NewImageService(config ImageServiceConfig) *ImageService {
	return &ImageService{
		resourceService: newResourceService(
			ImagesResource,
			config.Repository,
			config.Store,
			config.Notifier,
			config.Logger,
			successMessages{
				create: "Image uploaded successfully",
				update: "Image updated successfully",
				delete: "Image deleted successfully",
			},
			map[string]bool{
				MutationCreate: true,
				MutationUpdate: config.Options.InvalidateOnWrite,
				MutationDelete: config.Options.InvalidateOnWrite,
			},
		),
	}
}

// RefreshList marks the cached image list stale
func (s *ImageService) RefreshList() {
	s.list.Invalidate()
}

// CreateFromFile creates an image whose URL is the selected file's name.
// Without a selected file nothing is sent and the failure is notified.
func (s *ImageService) CreateFromFile(ctx context.Context, name string, file *models.FileDescriptor, metadata models.ImageMetadata, categoryID int64) Result[models.Image] {
	payload, err := models.NewImagePayloadFromFile(name, file, metadata, categoryID)
	if err != nil {
		return s.fail(ctx, MutationCreate, err)
	}
	return s.Create(ctx, payload)
}

// UpdateFromFile updates an image after checking that a file is selected.
// The payload's URL is sent unchanged.
func (s *ImageService) UpdateFromFile(ctx context.Context, id int64, file *models.FileDescriptor, payload models.ImagePayload) Result[models.Image] {
	if file == nil || file.Name == "" {
		return s.fail(ctx, MutationUpdate, models.ErrMissingFile)
	}
	return s.Update(ctx, id, payload)
}
