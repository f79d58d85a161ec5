package services

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/repositories"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cache"
)

// successMessages are the notifications shown after each mutation
type successMessages struct {
	create string
	update string
	delete string
}

// resourceService serves cached reads and notifying mutations for one resource
type resourceService[T any, P any] struct {
	resource   string
	repo       repositories.Repository[T, P]
	store      *cache.Store
	notifier   Notifier
	logger     *internal.Logger
	messages   successMessages
	invalidate map[string]bool
	list       *cache.Query[[]T]

	mu       sync.Mutex
	statuses map[string]QueryStatus
}

func newResourceService[T any, P any](
	resource string,
	repo repositories.Repository[T, P],
	store *cache.Store,
	notifier Notifier,
	logger *internal.Logger,
	messages successMessages,
	invalidate map[string]bool,
) *resourceService[T, P] {
	if logger == nil {
		logger = internal.GetLogger()
	}
	if store == nil {
		store = cache.NewStore(cache.Options{Logger: logger})
	}
	return &resourceService[T, P]{
		resource:   resource,
		repo:       repo,
		store:      store,
		notifier:   notifier,
		logger:     logger,
		messages:   messages,
		invalidate: invalidate,
		list:       cache.NewQuery(store, cache.ListKey(resource), repo.List),
		statuses: map[string]QueryStatus{
			MutationCreate: StatusIdle,
			MutationUpdate: StatusIdle,
			MutationDelete: StatusIdle,
		},
	}
}

// ListAll returns the collection, loading it unless a fresh copy is cached.
// The slice is never nil: it is empty while nothing has loaded or on failure
// without earlier data.
func (s *resourceService[T, P]) ListAll(ctx context.Context) ([]T, QueryStatus, error) {
	res, err := s.list.Fetch(ctx)
	return nonNil(res.Data), res.Status, err
}

// CachedList returns the cached collection without loading it
func (s *resourceService[T, P]) CachedList() ([]T, QueryStatus) {
	res := s.list.Peek()
	return nonNil(res.Data), res.Status
}

// GetByID returns one record. An absent id (0) issues no request and returns
// a zero placeholder with StatusIdle.
func (s *resourceService[T, P]) GetByID(ctx context.Context, id int64) (T, QueryStatus, error) {
	if id == 0 {
		var zero T
		return zero, StatusIdle, nil
	}
	res, err := s.detail(id).Fetch(ctx)
	return res.Data, res.Status, err
}

// CachedByID returns the cached record without loading it
func (s *resourceService[T, P]) CachedByID(id int64) (T, QueryStatus) {
	if id == 0 {
		var zero T
		return zero, StatusIdle
	}
	res := s.detail(id).Peek()
	return res.Data, res.Status
}

func (s *resourceService[T, P]) detail(id int64) *cache.Query[T] {
	return cache.NewQuery(s.store, cache.DetailKey(s.resource, id), func(ctx context.Context) (T, error) {
		return s.repo.Get(ctx, id)
	})
}

// Create posts payload. The collection is refetched on the next read.
func (s *resourceService[T, P]) Create(ctx context.Context, payload P) Result[T] {
	return s.mutate(ctx, MutationCreate, s.messages.create, 0, func(ctx context.Context) (T, error) {
		return s.repo.Create(ctx, payload)
	})
}

// Update replaces the fields of record id. The cached record is refetched on its next read.
func (s *resourceService[T, P]) Update(ctx context.Context, id int64, payload P) Result[T] {
	return s.mutate(ctx, MutationUpdate, s.messages.update, id, func(ctx context.Context) (T, error) {
		return s.repo.Update(ctx, id, payload)
	})
}

// Delete removes record id and invalidates its cached copy
func (s *resourceService[T, P]) Delete(ctx context.Context, id int64) Result[T] {
	return s.mutate(ctx, MutationDelete, s.messages.delete, id, func(ctx context.Context) (T, error) {
		return s.repo.Delete(ctx, id)
	})
}

// MutationStatus reports the state of the last create, update or delete
func (s *resourceService[T, P]) MutationStatus(op string) QueryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[op]; ok {
		return status
	}
	return StatusIdle
}

func (s *resourceService[T, P]) setStatus(op string, status QueryStatus) {
	s.mu.Lock()
	s.statuses[op] = status
	s.mu.Unlock()
}

// mutate runs call and records its outcome. A non-zero id
// names the record whose detail entry is invalidated on success.
func (s *resourceService[T, P]) mutate(ctx context.Context, op, successMessage string, id int64, call func(context.Context) (T, error)) Result[T] {
	s.setStatus(op, StatusPending)

	rec, err := call(ctx)
	if err != nil {
		return s.fail(ctx, op, err)
	}

	s.setStatus(op, StatusSuccess)
	if id != 0 {
		s.store.Invalidate(cache.DetailKey(s.resource, id))
	}
	if s.invalidate[op] {
		s.list.Invalidate()
	}
	s.notify(ctx, NewNotification(SeveritySuccess, successMessage, s.resource, op))
	s.logger.Info(internal.ComponentRepo, "%s %s succeeded", op, s.resource)

	return Result[T]{OK: true, Data: rec}
}

// fail records a failed mutation; the cache is left untouched
func (s *resourceService[T, P]) fail(ctx context.Context, op string, err error) Result[T] {
	s.setStatus(op, StatusError)
	reason := models.Reason(err)
	s.notify(ctx, NewNotification(SeverityError, reason, s.resource, op))
	s.logger.Warn(internal.ComponentRepo, "%s %s failed: %v", op, s.resource, err)
	return Result[T]{Reason: reason, Err: err}
}

func (s *resourceService[T, P]) notify(ctx context.Context, n Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn(internal.ComponentNotify, "Failed to notify %q: %v", n.Message, err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
