package models

// DefaultImageCategoryID is preselected when a new image is created
const DefaultImageCategoryID int64 = 1

// ImageMetadata describes the stored file
type ImageMetadata struct {
	Size       string `json:"size"`
	Resolution string `json:"resolution"`
}

// Image is a gallery entry. UploadDate is an ISO timestamp assigned by the server.
// CategoryID is not checked against known categories.
type Image struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	UploadDate string        `json:"uploadDate"`
	Metadata   ImageMetadata `json:"metadata"`
	CategoryID int64         `json:"categoryId"`
}

// ImagePayload is the body sent when creating or updating an image
type ImagePayload struct {
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	Metadata   ImageMetadata `json:"metadata"`
	CategoryID int64         `json:"categoryId"`
}

// Payload returns the mutable fields of the image
func (i Image) Payload() ImagePayload {
	return ImagePayload{
		Name:       i.Name,
		URL:        i.URL,
		Metadata:   i.Metadata,
		CategoryID: i.CategoryID,
	}
}

// FileDescriptor is the selected file. Only its name is sent to the API.
type FileDescriptor struct {
	Name string
}

// NewImagePayloadFromFile builds a creation payload whose URL is the selected file's name
func NewImagePayloadFromFile(name string, file *FileDescriptor, metadata ImageMetadata, categoryID int64) (ImagePayload, error) {
	if file == nil || file.Name == "" {
		return ImagePayload{}, ErrMissingFile
	}
	return ImagePayload{
		Name:       name,
		URL:        file.Name,
		Metadata:   metadata,
		CategoryID: categoryID,
	}, nil
}

type imageMetadataWire struct {
	Size       *string `json:"size" validate:"required"`
	Resolution *string `json:"resolution" validate:"required"`
}

type imageWire struct {
	ID         *int64             `json:"id" validate:"required"`
	Name       *string            `json:"name" validate:"required"`
	URL        *string            `json:"url" validate:"required"`
	UploadDate *string            `json:"uploadDate" validate:"required"`
	Metadata   *imageMetadataWire `json:"metadata" validate:"required"`
	CategoryID *int64             `json:"categoryId" validate:"required"`
}

func (w *imageWire) toImage() Image {
	return Image{
		ID:         *w.ID,
		Name:       *w.Name,
		URL:        *w.URL,
		UploadDate: *w.UploadDate,
		Metadata: ImageMetadata{
			Size:       *w.Metadata.Size,
			Resolution: *w.Metadata.Resolution,
		},
		CategoryID: *w.CategoryID,
	}
}

// ParseImage validates a single image response body, including its metadata
func ParseImage(raw []byte) (Image, error) {
	return parseOne[imageWire]("image", -1, raw, (*imageWire).toImage)
}

// ParseImageList validates an image collection response body.
// Any invalid element fails the whole list.
func ParseImageList(raw []byte) ([]Image, error) {
	return parseMany[imageWire]("images", raw, (*imageWire).toImage)
}
