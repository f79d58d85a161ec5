package factory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/gallery-go/adapters/api/apitest"
	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/internal"
)

func testLogger() *internal.Logger {
	return internal.NewLogger(io.Discard, internal.LogLevelError, internal.AllComponents)
}

func TestNewApp_MissingURL(t *testing.T) {
	cfg := &internal.Config{}
	cfg.Log.Level = "info"

	_, err := NewApp(cfg, testLogger(), Options{})
	if !errors.Is(err, internal.ErrMissingAPIURL) {
		t.Fatalf("NewApp() error = %v, want ErrMissingAPIURL", err)
	}
}

func TestNewApp_Wiring(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.SeedCategories(models.Category{ID: 1, Name: "Nature", Description: "Outdoors", Image: "nature.jpg"})

	tests := []struct {
		name          string
		dbPath        bool
		natsURL       string
		wantSnapshots bool
	}{
		{name: "memory only"},
		{name: "with snapshots", dbPath: true, wantSnapshots: true},
		{name: "unreachable nats is skipped", natsURL: "nats://127.0.0.1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &internal.Config{}
			cfg.API.URL = srv.URL + "/"
			cfg.Log.Level = "info"
			cfg.Notifications.Console = true
			cfg.Notifications.NATS.URL = tt.natsURL
			cfg.Notifications.NATS.Subject = "gallery.notifications"
			if tt.dbPath {
				cfg.Cache.DBPath = filepath.Join(t.TempDir(), "cache.db")
			}

			var console bytes.Buffer
			app, err := NewApp(cfg, testLogger(), Options{Console: &console, NoColor: true})
			if err != nil {
				t.Fatalf("NewApp() error = %v", err)
			}

			if app.Client.BaseURL() != srv.URL {
				t.Errorf("BaseURL() = %q, want %q", app.Client.BaseURL(), srv.URL)
			}
			if (app.Snapshots != nil) != tt.wantSnapshots {
				t.Errorf("Snapshots = %v, want present %v", app.Snapshots, tt.wantSnapshots)
			}

			res := app.Categories.Create(context.Background(), models.CategoryPayload{Name: "Cities"})
			if !res.OK {
				t.Fatalf("Create() failed: %s", res.Reason)
			}

			if err := app.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if !strings.Contains(console.String(), "✔ Image created successfully") {
				t.Errorf("console = %q", console.String())
			}
		})
	}
}

func TestApp_CloseTwice(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	cfg := &internal.Config{}
	cfg.API.URL = srv.URL
	cfg.Log.Level = "info"

	app, err := NewApp(cfg, testLogger(), Options{})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
