package cli_cmds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/gallery-go/adapters/api/apitest"
	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/factory"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"
	"github.com/spf13/cobra"
)

// syncBuffer collects console notifications written from the dispatcher goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testCLI struct {
	srv     *apitest.Server
	params  *cli.CmdParams
	root    *cobra.Command
	console *syncBuffer
	cfgPath string
}

func newTestCLI(t *testing.T, extraConfig string) *testCLI {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.SeedCategories(
		models.Category{ID: 1, Name: "Nature", Description: "Outdoors", Image: "nature.jpg"},
		models.Category{ID: 2, Name: "Cities", Description: "Urban", Image: "cities.jpg"},
	)
	srv.SeedImages(
		models.Image{ID: 1, Name: "Sunset", URL: "sunset.jpg", UploadDate: "2024-05-01T09:00:00.000Z",
			Metadata: models.ImageMetadata{Size: "2MB", Resolution: "1920x1080"}, CategoryID: 1},
		models.Image{ID: 2, Name: "Skyline", URL: "skyline.jpg", UploadDate: "2024-04-28T12:00:00.000Z",
			Metadata: models.ImageMetadata{Size: "3MB", Resolution: "4000x3000"}, CategoryID: 2},
		models.Image{ID: 3, Name: "Sunrise over the city", URL: "sunrise.jpg", UploadDate: "2024-04-20T06:00:00.000Z",
			Metadata: models.ImageMetadata{Size: "1MB", Resolution: "1280x720"}, CategoryID: 2},
	)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("api:\n  url: %s\n%s", srv.URL, extraConfig)
	if err := os.WriteFile(cfgPath, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	cfg, err := internal.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	console := &syncBuffer{}
	params := &cli.CmdParams{
		Config:     cfg,
		Logger:     internal.NewLogger(io.Discard, internal.LogLevelError, internal.AllComponents),
		Use:        "gallery",
		Alias:      "gal",
		AppOptions: factory.Options{Console: console, NoColor: true},
	}
	params.Palette = GeneratePalette(params)
	root := cli.NewRoot(params)
	t.Cleanup(func() { _ = params.Release() })

	return &testCLI{srv: srv, params: params, root: root, console: console, cfgPath: cfgPath}
}

// run executes args and waits for queued notifications
func (c *testCLI) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, err := cli.ExecuteCommand(c.root, args...)
	c.release(t)
	return out, err
}

// answer executes args with input available to prompts
func (c *testCLI) answer(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out, err := cli.ExecuteCommandWithInput(c.root, input, args...)
	c.release(t)
	return out, err
}

func (c *testCLI) release(t *testing.T) {
	t.Helper()
	if releaseErr := c.params.Release(); releaseErr != nil {
		t.Fatalf("Release() error = %v", releaseErr)
	}
}

func TestCategoriesList(t *testing.T) {
	c := newTestCLI(t, "")

	out, err := c.run(t, "categories", "list")
	if err != nil {
		t.Fatalf("categories list error = %v", err)
	}
	for _, want := range []string{"ID", "DESCRIPTION", "Nature", "Outdoors", "Cities", "cities.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = c.run(t, "categories", "list", "--format", "json")
	if err != nil {
		t.Fatalf("categories list --format json error = %v", err)
	}
	var got []models.Category
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 2 || got[1].Name != "Cities" {
		t.Errorf("categories = %+v", got)
	}
}

func TestCategoriesList_TransportFailure(t *testing.T) {
	c := newTestCLI(t, "")
	c.srv.Respond(apitest.ListCategories, http.StatusInternalServerError, `{"error":"boom"}`)

	_, err := c.run(t, "categories", "list")
	if err == nil {
		t.Fatal("categories list succeeded, want error")
	}
	if !strings.Contains(err.Error(), "Failed to fetch categories") {
		t.Errorf("error = %v, want fixed message", err)
	}
	if strings.Contains(err.Error(), "boom") {
		t.Errorf("error leaks server body: %v", err)
	}
}

func TestCategoriesGet(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "existing", args: []string{"categories", "get", "2"}, want: "Cities"},
		{name: "missing", args: []string{"categories", "get", "99"}, wantErr: true},
		{name: "not a number", args: []string{"categories", "get", "two"}, wantErr: true},
		{name: "zero", args: []string{"categories", "get", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, "")
			out, err := c.run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCategoriesCreateUpdateDelete(t *testing.T) {
	c := newTestCLI(t, "")

	out, err := c.run(t, "categories", "create", "--name", "Animals", "--description", "Wildlife", "--image", "animals.jpg")
	if err != nil {
		t.Fatalf("categories create error = %v", err)
	}
	if !strings.Contains(out, "Created category 3") {
		t.Errorf("output = %q", out)
	}

	if _, err := c.run(t, "categories", "update", "3", "--description", "Wild animals"); err != nil {
		t.Fatalf("categories update error = %v", err)
	}
	cats := c.srv.Categories()
	if got := cats[len(cats)-1]; got.Name != "Animals" || got.Description != "Wild animals" || got.Image != "animals.jpg" {
		t.Errorf("updated category = %+v, want only the description changed", got)
	}

	if _, err := c.run(t, "categories", "delete", "3", "--yes"); err != nil {
		t.Fatalf("categories delete error = %v", err)
	}
	if n := len(c.srv.Categories()); n != 2 {
		t.Errorf("categories after delete = %d, want 2", n)
	}

	notes := c.console.String()
	for _, want := range []string{"✔ Image created successfully", "✔ Image updated successfully", "✔ Image deleted successfully"} {
		if !strings.Contains(notes, want) {
			t.Errorf("notifications missing %q:\n%s", want, notes)
		}
	}
}

func TestCategoriesCreate_RequiresName(t *testing.T) {
	c := newTestCLI(t, "")
	if _, err := c.run(t, "categories", "create"); err == nil {
		t.Fatal("categories create without --name succeeded")
	}
	if hits := c.srv.Hits(apitest.CreateCategory); hits != 0 {
		t.Errorf("CreateCategory hits = %d, want 0", hits)
	}
}

func TestImagesList_Filters(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all",
			args: []string{"images", "list"},
			want: []string{"Sunset", "Skyline", "Sunrise over the city", "Nature", "Cities"},
		},
		{
			name:    "by category",
			args:    []string{"images", "list", "--category", "2"},
			want:    []string{"Skyline", "Sunrise over the city"},
			notWant: []string{"Sunset"},
		},
		{
			name:    "category and search",
			args:    []string{"images", "list", "-c", "2", "-s", "SUN"},
			want:    []string{"Sunrise over the city"},
			notWant: []string{"Sunset", "Skyline"},
		},
		{
			name:    "unknown selector matches nothing",
			args:    []string{"images", "list", "--category", "abc"},
			want:    []string{"ID"},
			notWant: []string{"Sunset", "Skyline", "Sunrise"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, "")
			out, err := c.run(t, tt.args...)
			if err != nil {
				t.Fatalf("images list error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output contains %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestImagesGet(t *testing.T) {
	c := newTestCLI(t, "")

	out, err := c.run(t, "images", "get", "2")
	if err != nil {
		t.Fatalf("images get error = %v", err)
	}
	for _, want := range []string{"Skyline", "skyline.jpg", "Cities (2)", "4000x3000", "ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestImagesCreate(t *testing.T) {
	c := newTestCLI(t, "")

	file := filepath.Join(t.TempDir(), "beach.jpg")
	if err := os.WriteFile(file, bytes.Repeat([]byte{0xff}, 2048), 0644); err != nil {
		t.Fatalf("Failed to write image file: %v", err)
	}

	out, err := c.run(t, "images", "create", "--name", "Beach", "--file", file, "--resolution", "800x600", "--category", "2")
	if err != nil {
		t.Fatalf("images create error = %v", err)
	}
	if !strings.Contains(out, "Created image 4") {
		t.Errorf("output = %q", out)
	}

	images := c.srv.Images()
	got := images[len(images)-1]
	if got.Name != "Beach" || got.URL != "beach.jpg" || got.CategoryID != 2 {
		t.Errorf("created image = %+v", got)
	}
	if got.Metadata.Size != "2.0 kB" || got.Metadata.Resolution != "800x600" {
		t.Errorf("metadata = %+v", got.Metadata)
	}
	if !strings.Contains(c.console.String(), "✔ Image uploaded successfully") {
		t.Errorf("notifications = %q", c.console.String())
	}
}

func TestImagesMutations_RequireFile(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		route string
	}{
		{name: "create", args: []string{"images", "create", "--name", "Beach"}, route: apitest.CreateImage},
		{name: "update", args: []string{"images", "update", "1", "--name", "Renamed"}, route: apitest.UpdateImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, "")
			_, err := c.run(t, tt.args...)
			if err == nil {
				t.Fatal("mutation without --file succeeded")
			}
			if hits := c.srv.Hits(tt.route); hits != 0 {
				t.Errorf("%s hits = %d, want 0", tt.route, hits)
			}
			if !strings.Contains(c.console.String(), "✖ Please select an image") {
				t.Errorf("notifications = %q", c.console.String())
			}
		})
	}
}

func TestImagesUpdate_KeepsURL(t *testing.T) {
	c := newTestCLI(t, "")

	if _, err := c.run(t, "images", "update", "1", "--file", "other.png", "--name", "Golden hour"); err != nil {
		t.Fatalf("images update error = %v", err)
	}
	got := c.srv.Images()[0]
	if got.Name != "Golden hour" || got.URL != "sunset.jpg" || got.Metadata.Size != "2MB" {
		t.Errorf("updated image = %+v", got)
	}
	if !strings.Contains(c.console.String(), "✔ Image updated successfully") {
		t.Errorf("notifications = %q", c.console.String())
	}
}

func TestImagesDelete_Confirmation(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantDeleted bool
	}{
		{name: "declined", answer: "n\n", wantDeleted: false},
		{name: "no answer", answer: "", wantDeleted: false},
		{name: "confirmed", answer: "yes\n", wantDeleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, "")

			out, err := c.answer(t, tt.answer, "images", "delete", "1")
			if err != nil {
				t.Fatalf("images delete error = %v", err)
			}
			if !strings.Contains(out, "Are you sure you want to delete Sunset image?") {
				t.Errorf("output missing prompt:\n%s", out)
			}
			deleted := c.srv.Hits(apitest.DeleteImage) == 1
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDeleted)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	c := newTestCLI(t, "notifications:\n  nats:\n    token: s3cret\n")

	out, err := c.run(t, "config", "get", "api.url")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if !strings.Contains(out, c.srv.URL) {
		t.Errorf("config get = %q", out)
	}

	if _, err := c.run(t, "config", "get", "no.such.key"); err == nil {
		t.Error("config get of an unknown key succeeded")
	}

	out, err = c.run(t, "config", "list", "--format", "json")
	if err != nil {
		t.Fatalf("config list error = %v", err)
	}
	var values map[string]interface{}
	if err := json.Unmarshal([]byte(out), &values); err != nil {
		t.Fatalf("config list output is not JSON: %v\n%s", err, out)
	}
	if values["notifications.nats.token"] != "********" {
		t.Errorf("token = %v, want masked", values["notifications.nats.token"])
	}

	if _, err := c.run(t, "config", "set", "cache.stale_time", "45s"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	reloaded, err := internal.LoadConfig(c.cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if reloaded.Cache.StaleTime.String() != "45s" {
		t.Errorf("stale_time after set = %v, want 45s", reloaded.Cache.StaleTime)
	}
}

func TestCacheClear(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	c := newTestCLI(t, fmt.Sprintf("cache:\n  db_path: %s\n", dbPath))

	if _, err := c.run(t, "categories", "list"); err != nil {
		t.Fatalf("categories list error = %v", err)
	}

	out, err := c.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if !strings.Contains(out, "Removed 1 cached queries") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestCacheClear_NotConfigured(t *testing.T) {
	c := newTestCLI(t, "")
	out, err := c.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if !strings.Contains(out, "No snapshot database configured") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionAndHelp(t *testing.T) {
	c := newTestCLI(t, "")

	out, err := c.run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, internal.Version) {
		t.Errorf("version output = %q", out)
	}

	out, err = c.run(t, "detailed_help", "--all")
	if err != nil {
		t.Fatalf("detailed_help error = %v", err)
	}
	for _, want := range []string{"categories", "images list", "cache clear"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}
