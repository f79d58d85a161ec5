package services

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/usecases"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Gallery combines the category and image services for display
type Gallery struct {
	Categories *CategoryService
	Images     *ImageService
	Clock      func() time.Time
}

// GallerySnapshot holds both collections with their load status
type GallerySnapshot struct {
	Categories       []models.Category
	CategoriesStatus QueryStatus
	Images           []models.Image
	ImagesStatus     QueryStatus
}

// ImageView is an image prepared for display
type ImageView struct {
	models.Image
	CategoryName string
	UploadAge    string
}

// Load fetches both collections concurrently. A failure of one collection
// does not hide the other; errors are combined.
func (g *Gallery) Load(ctx context.Context) (GallerySnapshot, error) {
	var (
		snap             GallerySnapshot
		catErr, imageErr error
		eg               errgroup.Group
	)

	eg.Go(func() error {
		snap.Categories, snap.CategoriesStatus, catErr = g.Categories.ListAll(ctx)
		return catErr
	})
	eg.Go(func() error {
		snap.Images, snap.ImagesStatus, imageErr = g.Images.ListAll(ctx)
		return imageErr
	})
	if err := eg.Wait(); err != nil {
		// Wait keeps only the first failure
		return snap, multierr.Combine(catErr, imageErr)
	}
	return snap, nil
}

// View returns the images matching selector and search, in list order,
// with their category name and relative upload age resolved.
func (g *Gallery) View(ctx context.Context, selector, search string) ([]ImageView, error) {
	snap, err := g.Load(ctx)

	now := time.Now()
	if g.Clock != nil {
		now = g.Clock()
	}

	visible := usecases.FilterImages(snap.Images, selector, search)
	views := make([]ImageView, 0, len(visible))
	for _, img := range visible {
		views = append(views, ImageView{
			Image:        img,
			CategoryName: usecases.CategoryName(snap.Categories, img.CategoryID),
			UploadAge:    usecases.UploadAge(img.UploadDate, now),
		})
	}
	return views, err
}
