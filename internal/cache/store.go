// Package cache holds server state keyed per resource query. Concurrent
// reads of the same key share one in-flight request and responses that
// started before a newer invalidation or fetch never overwrite the entry.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle state of a query or mutation
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Operation names used in keys
const (
	OperationList   = "list"
	OperationDetail = "detail"
)

// Key identifies one cached query
type Key struct {
	Resource  string
	Operation string
	Params    string
}

// ListKey addresses the collection query of a resource
func ListKey(resource string) Key {
	return Key{Resource: resource, Operation: OperationList}
}

// DetailKey addresses the single record query of a resource
func DetailKey(resource string, id int64) Key {
	return Key{Resource: resource, Operation: OperationDetail, Params: strconv.FormatInt(id, 10)}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource + "/" + k.Operation
	}
	return k.Resource + "/" + k.Operation + "/" + k.Params
}

// Entry is a point-in-time copy of a cached query
type Entry struct {
	Status     Status
	Data       interface{}
	Err        error
	UpdatedAt  time.Time
	Stale      bool
	IsFetching bool
}

// Fetcher loads the current server state for a key
type Fetcher func(ctx context.Context) (interface{}, error)

// SnapshotStore persists successful query data between processes
type SnapshotStore interface {
	Load(ctx context.Context, key Key) (data []byte, savedAt time.Time, found bool, err error)
	Save(ctx context.Context, key Key, data []byte, savedAt time.Time) error
	Close() error
}

// Options configure a Store
type Options struct {
	// StaleTime is how long a successful entry is served without refetching.
	// Zero or less keeps entries fresh until they are invalidated.
	StaleTime time.Duration
	Snapshots SnapshotStore
	Logger    *internal.Logger
	Clock     func() time.Time
}

// Store is the query cache shared by the resource services
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group
	opts    Options
	logger  *internal.Logger
	now     func() time.Time
}

type entry struct {
	status    Status
	data      interface{}
	err       error
	updatedAt time.Time
	stale     bool
	inflight  int
	hydrated  bool

	// generation numbers the fetches started for this key
	generation uint64
	// committed is the generation of the response currently held
	committed uint64
	// invalidatedAt is the generation current at the last invalidation
	invalidatedAt uint64
	// epoch counts invalidations and separates in-flight request groups
	epoch uint64
}

func (e *entry) snapshot() Entry {
	return Entry{
		Status:     e.status,
		Data:       e.data,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
		Stale:      e.stale,
		IsFetching: e.inflight > 0,
	}
}

// NewStore creates an empty cache
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = internal.GetLogger()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: make(map[Key]*entry),
		opts:    opts,
		logger:  logger,
		now:     now,
	}
}

// Close releases the snapshot store, if any
func (s *Store) Close() error {
	if s.opts.Snapshots != nil {
		return s.opts.Snapshots.Close()
	}
	return nil
}

func (s *Store) entryLocked(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{status: StatusIdle}
		s.entries[key] = e
	}
	return e
}

func (s *Store) isStaleLocked(e *entry) bool {
	if e.stale {
		return true
	}
	return s.opts.StaleTime > 0 && s.now().Sub(e.updatedAt) >= s.opts.StaleTime
}

// Peek returns the cached state of key without fetching
func (s *Store) Peek(key Key) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{Status: StatusIdle}
	}
	out := e.snapshot()
	out.Stale = e.status == StatusSuccess && s.isStaleLocked(e)
	return out
}

// Fetch returns the cached data for key while it is fresh and otherwise
// runs fetch. Callers arriving while a fetch for the same key is in flight
// wait for that fetch instead of starting another. The fetch itself is not
// cancelled when ctx is; ctx only bounds how long this caller waits.
func (s *Store) Fetch(ctx context.Context, key Key, fetch Fetcher) (Entry, error) {
	s.mu.Lock()
	e := s.entryLocked(key)
	if e.status == StatusSuccess && !s.isStaleLocked(e) {
		out := e.snapshot()
		s.mu.Unlock()
		return out, nil
	}
	group := fmt.Sprintf("%s#%d", key, e.epoch)
	s.mu.Unlock()

	ch := s.group.DoChan(group, func() (interface{}, error) {
		return s.run(context.WithoutCancel(ctx), key, fetch)
	})

	select {
	case res := <-ch:
		out, _ := res.Val.(Entry)
		if res.Shared {
			s.logger.Debug(internal.ComponentCache, "%s: joined in-flight request", key)
		}
		return out, res.Err
	case <-ctx.Done():
		return s.Peek(key), ctx.Err()
	}
}

func (s *Store) run(ctx context.Context, key Key, fetch Fetcher) (Entry, error) {
	s.mu.Lock()
	e := s.entryLocked(key)
	e.generation++
	token := e.generation
	e.inflight++
	if e.status == StatusIdle {
		e.status = StatusPending
	}
	s.mu.Unlock()

	s.logger.Debug(internal.ComponentCache, "%s: fetching (generation %d)", key, token)
	data, err := fetch(ctx)

	s.mu.Lock()
	e.inflight--

	if token <= e.committed || token <= e.invalidatedAt {
		// a newer response or an invalidation arrived while this one was in flight
		if e.status == StatusPending && e.inflight == 0 {
			e.status = StatusIdle
		}
		s.mu.Unlock()
		s.logger.Debug(internal.ComponentCache, "%s: discarded response of generation %d", key, token)
		if err != nil {
			return Entry{Status: StatusError, Err: err, Stale: true}, err
		}
		return Entry{Status: StatusSuccess, Data: data, UpdatedAt: s.now(), Stale: true}, nil
	}

	e.committed = token
	if err != nil {
		// previous data stays available next to the error
		e.status = StatusError
		e.err = err
		out := e.snapshot()
		s.mu.Unlock()
		s.logger.Debug(internal.ComponentCache, "%s: fetch failed: %v", key, err)
		return out, err
	}

	e.status = StatusSuccess
	e.data = data
	e.err = nil
	e.updatedAt = s.now()
	e.stale = false
	out := e.snapshot()
	s.mu.Unlock()

	s.persist(ctx, key, data, out.UpdatedAt)
	return out, nil
}

// Invalidate marks key stale so the next Fetch goes to the server. Responses
// already in flight for key are discarded when they arrive.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.stale = true
	e.invalidatedAt = e.generation
	e.epoch++
	s.logger.Debug(internal.ComponentCache, "%s: invalidated", key)
}

// Hydrate seeds an empty entry from the snapshot store. Hydrated data is
// stale, so the next Fetch still refreshes it. Each key is tried once.
func (s *Store) Hydrate(ctx context.Context, key Key, decode func([]byte) (interface{}, error)) bool {
	if s.opts.Snapshots == nil {
		return false
	}

	s.mu.Lock()
	e := s.entryLocked(key)
	if e.hydrated || e.status != StatusIdle {
		s.mu.Unlock()
		return false
	}
	e.hydrated = true
	s.mu.Unlock()

	raw, savedAt, found, err := s.opts.Snapshots.Load(ctx, key)
	if err != nil {
		s.logger.Warn(internal.ComponentCache, "%s: failed to load snapshot: %v", key, err)
		return false
	}
	if !found {
		return false
	}
	data, err := decode(raw)
	if err != nil {
		s.logger.Warn(internal.ComponentCache, "%s: ignoring unreadable snapshot: %v", key, err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e.status != StatusIdle {
		return false
	}
	e.status = StatusSuccess
	e.data = data
	e.updatedAt = savedAt
	e.stale = true
	s.logger.Debug(internal.ComponentCache, "%s: hydrated from snapshot saved %s", key, savedAt.Format(time.RFC3339))
	return true
}

func (s *Store) persist(ctx context.Context, key Key, data interface{}, at time.Time) {
	if s.opts.Snapshots == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn(internal.ComponentCache, "%s: failed to encode snapshot: %v", key, err)
		return
	}
	if err := s.opts.Snapshots.Save(ctx, key, raw, at); err != nil {
		s.logger.Warn(internal.ComponentCache, "%s: failed to save snapshot: %v", key, err)
	}
}
