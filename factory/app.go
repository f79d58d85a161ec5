package factory

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZanzyTHEbar/gallery-go/adapters/api"
	"github.com/ZanzyTHEbar/gallery-go/adapters/notify"
	"github.com/ZanzyTHEbar/gallery-go/adapters/repositories/rest"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cache"
	"github.com/ZanzyTHEbar/gallery-go/services"
	"go.uber.org/multierr"
)

// Options override process-level dependencies, mostly for tests
type Options struct {
	// Console receives console notifications; defaults to stdout
	Console io.Writer
	NoColor bool
	// HTTPClient replaces the default transport of the API client
	HTTPClient api.HTTPClient
}

// App holds the wired gallery components
type App struct {
	Config     *internal.Config
	Logger     *internal.Logger
	Client     *api.Client
	Store      *cache.Store
	Snapshots  *cache.SQLiteSnapshotStore
	Dispatcher *services.NotificationDispatcher
	Categories *services.CategoryService
	Images     *services.ImageService
	Gallery    *services.Gallery

	nats *notify.NATSSink
}

// NewApp builds every component from cfg
func NewApp(cfg *internal.Config, logger *internal.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = internal.GetLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Config{
		BaseURL:    cfg.API.URL,
		HTTPClient: opts.HTTPClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}

	app := &App{Config: cfg, Logger: logger, Client: client}

	storeOpts := cache.Options{StaleTime: cfg.Cache.StaleTime, Logger: logger}
	if cfg.Cache.DBPath != "" {
		snaps, err := cache.NewSQLiteSnapshotStore(cfg.Cache.DBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
		}
		app.Snapshots = snaps
		storeOpts.Snapshots = snaps
	}
	app.Store = cache.NewStore(storeOpts)

	sinks := []services.Notifier{notify.NewLogSink(logger)}
	if cfg.Notifications.Console {
		console := opts.Console
		if console == nil {
			console = os.Stdout
		}
		sinks = append(sinks, notify.NewConsoleSink(console, opts.NoColor))
	}
	if cfg.Notifications.NATS.URL != "" {
		conn, err := notify.ConnectNATS(cfg.Notifications.NATS, logger)
		if err != nil {
			// notifications are a side channel; the gallery works without them
			logger.Warn(internal.ComponentNotify, "NATS notifications disabled: %v", err)
		} else {
			if stream := cfg.Notifications.NATS.Stream; stream != "" {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := notify.EnsureStream(ctx, conn, stream, cfg.Notifications.NATS.Subject, logger); err != nil {
					logger.Warn(internal.ComponentNotify, "Notifications will not be retained: %v", err)
				}
				cancel()
			}
			app.nats = notify.NewNATSSink(conn, cfg.Notifications.NATS.Subject, logger)
			sinks = append(sinks, app.nats)
		}
	}

	dispatcher, err := services.NewNotificationDispatcher(services.DispatcherConfig{Sinks: sinks, Logger: logger})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Dispatcher = dispatcher

	repos := rest.NewRepositoryFactory(client, logger)
	app.Categories = services.NewCategoryService(services.CategoryServiceConfig{
		Repository: repos.CreateCategoryRepository(),
		Store:      app.Store,
		Notifier:   dispatcher,
		Logger:     logger,
	})
	app.Images = services.NewImageService(services.ImageServiceConfig{
		Repository: repos.CreateImageRepository(),
		Store:      app.Store,
		Notifier:   dispatcher,
		Logger:     logger,
		Options:    services.ImageServiceOptions{InvalidateOnWrite: cfg.Cache.ImageInvalidateOnWrite},
	})
	app.Gallery = &services.Gallery{Categories: app.Categories, Images: app.Images}

	logger.Debug(internal.ComponentGeneral, "Gallery client ready for %s (%d notification sinks)", client.BaseURL(), len(sinks))
	return app, nil
}

// Now is the clock used for relative upload ages
func (a *App) Now() time.Time {
	if a.Gallery != nil && a.Gallery.Clock != nil {
		return a.Gallery.Clock()
	}
	return time.Now()
}

// Close delivers pending notifications and releases every connection
func (a *App) Close() error {
	var err error
	if a.Dispatcher != nil {
		err = multierr.Append(err, a.Dispatcher.Close())
		a.Dispatcher = nil
	}
	if a.nats != nil {
		err = multierr.Append(err, a.nats.Close())
		a.nats = nil
	}
	if a.Store != nil {
		err = multierr.Append(err, a.Store.Close())
		a.Store = nil
	}
	return err
}
