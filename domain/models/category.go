package models

// Category groups images. ID is assigned by the server and never changes.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// CategoryPayload is the body sent when creating or updating a category
type CategoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Payload returns the mutable fields of the category
func (c Category) Payload() CategoryPayload {
	return CategoryPayload{
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
	}
}

type categoryWire struct {
	ID          *int64  `json:"id" validate:"required"`
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Image       *string `json:"image" validate:"required"`
}

func (w *categoryWire) toCategory() Category {
	return Category{
		ID:          *w.ID,
		Name:        *w.Name,
		Description: *w.Description,
		Image:       *w.Image,
	}
}

// ParseCategory validates a single category response body
func ParseCategory(raw []byte) (Category, error) {
	return parseOne[categoryWire]("category", -1, raw, (*categoryWire).toCategory)
}

// ParseCategoryList validates a category collection response body.
// Any invalid element fails the whole list.
func ParseCategoryList(raw []byte) ([]Category, error) {
	return parseMany[categoryWire]("categories", raw, (*categoryWire).toCategory)
}
