package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/gallery-go/adapters/api"
	"github.com/ZanzyTHEbar/gallery-go/adapters/api/apitest"
	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/internal"
)

type callerFunc func(ctx context.Context, path string, opts *api.CallOptions) (*http.Response, error)

func (f callerFunc) Call(ctx context.Context, path string, opts *api.CallOptions) (*http.Response, error) {
	return f(ctx, path, opts)
}

func newTestFactory(t *testing.T) (*apitest.Server, *RepositoryFactory) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL, Logger: internal.GetLogger()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return srv, NewRepositoryFactory(client, internal.GetLogger())
}

func seedGallery(srv *apitest.Server) {
	srv.SeedCategories(
		models.Category{ID: 1, Name: "Nature", Description: "Outdoors", Image: "nature.jpg"},
		models.Category{ID: 2, Name: "Cities", Description: "Urban", Image: "cities.jpg"},
	)
	srv.SeedImages(
		models.Image{ID: 1, Name: "Sunset", URL: "sunset.jpg", UploadDate: "2024-05-01T09:00:00.000Z",
			Metadata: models.ImageMetadata{Size: "2MB", Resolution: "1920x1080"}, CategoryID: 1},
	)
}

func TestCategoryRepository_CRUD(t *testing.T) {
	srv, factory := newTestFactory(t)
	seedGallery(srv)
	repo := factory.CreateCategoryRepository()
	ctx := context.Background()

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[1].Name != "Cities" {
		t.Fatalf("List() = %+v", list)
	}

	got, err := repo.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Description != "Urban" {
		t.Errorf("Get() = %+v", got)
	}

	created, err := repo.Create(ctx, models.CategoryPayload{Name: "Animals", Description: "Wild", Image: "a.jpg"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != 3 || created.Name != "Animals" {
		t.Errorf("Create() = %+v, want server-assigned ID 3", created)
	}

	updated, err := repo.Update(ctx, 3, models.CategoryPayload{Name: "Wildlife", Description: "Wild", Image: "a.jpg"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != 3 || updated.Name != "Wildlife" {
		t.Errorf("Update() = %+v", updated)
	}

	deleted, err := repo.Delete(ctx, 3)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.Name != "Wildlife" {
		t.Errorf("Delete() = %+v", deleted)
	}
	if n := len(srv.Categories()); n != 2 {
		t.Errorf("server holds %d categories after delete, want 2", n)
	}
}

func TestRepository_NoCaching(t *testing.T) {
	srv, factory := newTestFactory(t)
	seedGallery(srv)
	repo := factory.CreateImageRepository()

	for i := 0; i < 2; i++ {
		if _, err := repo.List(context.Background()); err != nil {
			t.Fatalf("List() error = %v", err)
		}
	}
	if hits := srv.Hits(apitest.ListImages); hits != 2 {
		t.Errorf("List() twice reached the server %d times, want 2", hits)
	}
}

func TestRepository_TransportFailures(t *testing.T) {
	testCases := []struct {
		name       string
		route      string
		status     int
		call       func(f *RepositoryFactory) error
		wantReason string
		wantStatus int
	}{
		{
			name:   "category list server error",
			route:  apitest.ListCategories,
			status: http.StatusInternalServerError,
			call: func(f *RepositoryFactory) error {
				_, err := f.CreateCategoryRepository().List(context.Background())
				return err
			},
			wantReason: "Failed to fetch categories",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "category create rejected",
			route:  apitest.CreateCategory,
			status: http.StatusBadRequest,
			call: func(f *RepositoryFactory) error {
				_, err := f.CreateCategoryRepository().Create(context.Background(), models.CategoryPayload{Name: "x"})
				return err
			},
			wantReason: "Failed to fetch categories",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "image list server error",
			route:  apitest.ListImages,
			status: http.StatusBadGateway,
			call: func(f *RepositoryFactory) error {
				_, err := f.CreateImageRepository().List(context.Background())
				return err
			},
			wantReason: "Failed to get images",
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "image create rejected",
			route:  apitest.CreateImage,
			status: http.StatusUnprocessableEntity,
			call: func(f *RepositoryFactory) error {
				_, err := f.CreateImageRepository().Create(context.Background(), models.ImagePayload{Name: "x"})
				return err
			},
			wantReason: "Failed to create an image",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, factory := newTestFactory(t)
			seedGallery(srv)
			srv.Respond(tc.route, tc.status, `{"error":"database exploded"}`)

			err := tc.call(factory)
			if !errors.Is(err, models.ErrTransport) {
				t.Fatalf("error = %v, want ErrTransport", err)
			}
			var terr *models.TransportError
			if !errors.As(err, &terr) {
				t.Fatalf("error %T is not a *TransportError", err)
			}
			if terr.StatusCode != tc.wantStatus {
				t.Errorf("StatusCode = %d, want %d", terr.StatusCode, tc.wantStatus)
			}
			if got := models.Reason(err); got != tc.wantReason {
				t.Errorf("Reason() = %q, want %q", got, tc.wantReason)
			}
			if strings.Contains(err.Error(), "database exploded") {
				t.Errorf("error %q leaks the server error body", err)
			}
		})
	}
}

func TestImageRepository_NotFound(t *testing.T) {
	srv, factory := newTestFactory(t)
	seedGallery(srv)
	repo := factory.CreateImageRepository()
	ctx := context.Background()

	testCases := []struct {
		name       string
		call       func() error
		wantReason string
	}{
		{"get", func() error { _, err := repo.Get(ctx, 99); return err }, "Failed to get an image"},
		{"update", func() error { _, err := repo.Update(ctx, 99, models.ImagePayload{Name: "x"}); return err }, "Failed to update an image"},
		{"delete", func() error { _, err := repo.Delete(ctx, 99); return err }, "Failed to delete an image"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var terr *models.TransportError
			if !errors.As(err, &terr) || terr.StatusCode != http.StatusNotFound {
				t.Fatalf("error = %v, want 404 TransportError", err)
			}
			if got := models.Reason(err); got != tc.wantReason {
				t.Errorf("Reason() = %q, want %q", got, tc.wantReason)
			}
		})
	}
}

func TestRepository_ValidationFailure(t *testing.T) {
	srv, factory := newTestFactory(t)
	srv.Respond(apitest.ListImages, http.StatusOK,
		`[{"id":"1","name":"Sunset","url":"u","uploadDate":"d","metadata":{"size":"1","resolution":"r"},"categoryId":1}]`)

	images, err := factory.CreateImageRepository().List(context.Background())
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("List() error = %v, want ErrValidation", err)
	}
	if images != nil {
		t.Errorf("List() returned partial data %+v", images)
	}

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %T is not a *ValidationError", err)
	}
	if verr.Index != 0 || verr.Field != "id" {
		t.Errorf("ValidationError = %+v, want index 0 field id", verr)
	}
	if got := models.Reason(err); got != "Failed to get images" {
		t.Errorf("Reason() = %q, want fixed message", got)
	}
}

func TestRepository_NetworkError(t *testing.T) {
	var gotPath string
	var gotMethod string
	caller := callerFunc(func(_ context.Context, path string, opts *api.CallOptions) (*http.Response, error) {
		gotPath, gotMethod = path, opts.Method
		return nil, io.ErrUnexpectedEOF
	})

	repo := NewCategoryRepository(caller, nil)
	_, err := repo.Delete(context.Background(), 7)

	if gotPath != "categories/7" || gotMethod != http.MethodDelete {
		t.Errorf("request = %s %s, want DELETE categories/7", gotMethod, gotPath)
	}
	if !errors.Is(err, models.ErrTransport) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("error = %v, want ErrTransport wrapping the cause", err)
	}
	if got := models.Reason(err); got != "Failed to fetch categories" {
		t.Errorf("Reason() = %q", got)
	}
}

func TestRepository_SendsJSONPayload(t *testing.T) {
	var body string
	caller := callerFunc(func(_ context.Context, path string, opts *api.CallOptions) (*http.Response, error) {
		data, _ := io.ReadAll(opts.Body)
		body = string(data)
		return &http.Response{
			StatusCode: http.StatusCreated,
			Body: io.NopCloser(strings.NewReader(
				`{"id":5,"name":"Fox","url":"fox.png","uploadDate":"2024-05-01","metadata":{"size":"1MB","resolution":"10x10"},"categoryId":1}`)),
		}, nil
	})

	repo := NewImageRepository(caller, nil)
	img, err := repo.Create(context.Background(), models.ImagePayload{
		Name:       "Fox",
		URL:        "fox.png",
		Metadata:   models.ImageMetadata{Size: "1MB", Resolution: "10x10"},
		CategoryID: 1,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if img.ID != 5 {
		t.Errorf("Create() ID = %d, want 5", img.ID)
	}
	want := `{"name":"Fox","url":"fox.png","metadata":{"size":"1MB","resolution":"10x10"},"categoryId":1}`
	if body != want {
		t.Errorf("request body = %s, want %s", body, want)
	}
}
