// Package apitest serves an in-memory gallery REST API for tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/gin-gonic/gin"
)

// Route keys as reported by Hits, Respond and Hold
const (
	ListCategories  = "GET /categories"
	GetCategory     = "GET /categories/:id"
	CreateCategory  = "POST /categories"
	UpdateCategory  = "PUT /categories/:id"
	DeleteCategory  = "DELETE /categories/:id"
	ListImages      = "GET /images"
	GetImage        = "GET /images/:id"
	CreateImage     = "POST /images"
	UpdateImage     = "PUT /images/:id"
	DeleteImage     = "DELETE /images/:id"
)

const uploadDateStamp = "2006-01-02T15:04:05.000Z"

type override struct {
	status int
	body   string
}

// Gate blocks the next request on a route until Release is called
type Gate struct {
	// Arrived is closed when the held request reaches the server
	Arrived chan struct{}
	release chan struct{}
	once    sync.Once
}

// Release lets the held request continue
func (g *Gate) Release() {
	g.once.Do(func() { close(g.release) })
}

// Server is a fake gallery API backed by gin and httptest
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	categories *collection[models.Category, models.CategoryPayload]
	images     *collection[models.Image, models.ImagePayload]
	hits       map[string]int
	overrides  map[string]override
	gates      map[string]*Gate
	now        func() time.Time
}

// New starts a fake API. Call Close when done.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		categories: newCollection(
			func(c models.Category) int64 { return c.ID },
			func(id int64, p models.CategoryPayload, _ *models.Category) models.Category {
				return models.Category{ID: id, Name: p.Name, Description: p.Description, Image: p.Image}
			},
		),
		hits:      make(map[string]int),
		overrides: make(map[string]override),
		gates:     make(map[string]*Gate),
		now:       time.Now,
	}
	s.images = newCollection(
		func(img models.Image) int64 { return img.ID },
		func(id int64, p models.ImagePayload, prev *models.Image) models.Image {
			uploaded := s.now().UTC().Format(uploadDateStamp)
			if prev != nil {
				uploaded = prev.UploadDate
			}
			return models.Image{
				ID:         id,
				Name:       p.Name,
				URL:        p.URL,
				UploadDate: uploaded,
				Metadata:   p.Metadata,
				CategoryID: p.CategoryID,
			}
		},
	)

	engine := gin.New()
	engine.Use(gin.Recovery(), s.intercept)
	registerCollection(s, engine, "/categories", s.categories)
	registerCollection(s, engine, "/images", s.images)

	s.Server = httptest.NewServer(engine)
	return s
}

// SeedCategories replaces the stored categories
func (s *Server) SeedCategories(categories ...models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories.seed(categories)
}

// SeedImages replaces the stored images
func (s *Server) SeedImages(images ...models.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images.seed(images)
}

// Categories returns a copy of the stored categories
func (s *Server) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category{}, s.categories.records...)
}

// Images returns a copy of the stored images
func (s *Server) Images() []models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Image{}, s.images.records...)
}

// Hits returns how many requests reached route
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Respond makes route answer with a fixed status and raw body until Reset
func (s *Server) Respond(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = override{status: status, body: body}
}

// Reset removes every Respond override
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]override)
}

// Hold blocks the next request on route until the returned gate is released
func (s *Server) Hold(route string) *Gate {
	g := &Gate{Arrived: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.gates[route] = g
	s.mu.Unlock()
	return g
}

func (s *Server) intercept(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()

	s.mu.Lock()
	s.hits[route]++
	gate := s.gates[route]
	delete(s.gates, route)
	s.mu.Unlock()

	if gate != nil {
		close(gate.Arrived)
		select {
		case <-gate.release:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	s.mu.Lock()
	o, ok := s.overrides[route]
	s.mu.Unlock()
	if ok {
		c.Data(o.status, "application/json", []byte(o.body))
		c.Abort()
		return
	}

	c.Next()
}

type collection[T any, P any] struct {
	records []T
	nextID  int64
	idOf    func(T) int64
	build   func(id int64, payload P, prev *T) T
}

func newCollection[T any, P any](idOf func(T) int64, build func(int64, P, *T) T) *collection[T, P] {
	return &collection[T, P]{records: []T{}, nextID: 1, idOf: idOf, build: build}
}

func (c *collection[T, P]) seed(records []T) {
	c.records = append([]T{}, records...)
	c.nextID = 1
	for _, r := range records {
		if id := c.idOf(r); id >= c.nextID {
			c.nextID = id + 1
		}
	}
}

func (c *collection[T, P]) find(id int64) int {
	for i, r := range c.records {
		if c.idOf(r) == id {
			return i
		}
	}
	return -1
}

func registerCollection[T any, P any](s *Server, r gin.IRouter, path string, col *collection[T, P]) {
	r.GET(path, func(c *gin.Context) {
		s.mu.Lock()
		out := append([]T{}, col.records...)
		s.mu.Unlock()
		c.JSON(http.StatusOK, out)
	})

	r.GET(path+"/:id", func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		i := col.find(id)
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, col.records[i])
	})

	r.POST(path, func(c *gin.Context) {
		var payload P
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		rec := col.build(col.nextID, payload, nil)
		col.nextID++
		col.records = append(col.records, rec)
		c.JSON(http.StatusCreated, rec)
	})

	r.PUT(path+"/:id", func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var payload P
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		i := col.find(id)
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		col.records[i] = col.build(id, payload, &col.records[i])
		c.JSON(http.StatusOK, col.records[i])
	})

	r.DELETE(path+"/:id", func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		i := col.find(id)
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		removed := col.records[i]
		col.records = append(col.records[:i], col.records[i+1:]...)
		c.JSON(http.StatusOK, removed)
	})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
