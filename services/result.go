package services

import "github.com/ZanzyTHEbar/gallery-go/internal/cache"

// QueryStatus is the lifecycle state of a read or a mutation
type QueryStatus = cache.Status

const (
	StatusIdle    = cache.StatusIdle
	StatusPending = cache.StatusPending
	StatusSuccess = cache.StatusSuccess
	StatusError   = cache.StatusError
)

// Resource names used in cache keys and notifications
const (
	CategoriesResource = "categories"
	ImagesResource     = "images"
)

// Mutation operations tracked by MutationStatus
const (
	MutationCreate = "create"
	MutationUpdate = "update"
	MutationDelete = "delete"
)

// Result is the outcome of a mutation. Reason is the user-facing failure
// text and is empty when OK.
type Result[T any] struct {
	OK     bool
	Data   T
	Reason string
	Err    error
}
