package rest

import (
	"context"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/repositories"
	"github.com/ZanzyTHEbar/gallery-go/internal"
)

// ImagesPath is the images collection endpoint
const ImagesPath = "images"

var _ repositories.ImageRepository = (*ImageRepository)(nil)

// ImageRepository is a REST implementation of the ImageRepository interface
type ImageRepository struct {
	ep *endpoint[models.Image, models.ImagePayload]
}

// NewImageRepository creates a new REST image repository
func NewImageRepository(caller Caller, logger *internal.Logger) *ImageRepository {
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &ImageRepository{
		ep: &endpoint[models.Image, models.ImagePayload]{
			caller:     caller,
			collection: ImagesPath,
			resource:   "image",
			messages: map[string]string{
				OpList:   "Failed to get images",
				OpGet:    "Failed to get an image",
				OpCreate: "Failed to create an image",
				OpUpdate: "Failed to update an image",
				OpDelete: "Failed to delete an image",
			},
			parse:     models.ParseImage,
			parseList: models.ParseImageList,
			logger:    logger,
		},
	}
}

// List fetches all images
func (r *ImageRepository) List(ctx context.Context) ([]models.Image, error) {
	return r.ep.list(ctx)
}

// Get fetches an image by ID
func (r *ImageRepository) Get(ctx context.Context, id int64) (models.Image, error) {
	return r.ep.get(ctx, id)
}

// Create posts a new image
func (r *ImageRepository) Create(ctx context.Context, payload models.ImagePayload) (models.Image, error) {
	return r.ep.create(ctx, payload)
}

// Update replaces an image's fields
func (r *ImageRepository) Update(ctx context.Context, id int64, payload models.ImagePayload) (models.Image, error) {
	return r.ep.update(ctx, id, payload)
}

// Delete removes an image
func (r *ImageRepository) Delete(ctx context.Context, id int64) (models.Image, error) {
	return r.ep.remove(ctx, id)
}
