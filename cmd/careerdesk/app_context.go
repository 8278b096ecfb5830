package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/careerdesk/internal/api"
	"github.com/alexisbeaulieu97/careerdesk/internal/bookmarks"
	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/config"
	"github.com/alexisbeaulieu97/careerdesk/internal/listing"
	"github.com/alexisbeaulieu97/careerdesk/internal/logger"
	"github.com/alexisbeaulieu97/careerdesk/internal/materials"
	"github.com/alexisbeaulieu97/careerdesk/internal/paths"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/session"
	"github.com/alexisbeaulieu97/careerdesk/internal/snapshot"
)

// AppContext bundles the services a command needs. It is built per command
// invocation and must be closed.
type AppContext struct {
	Config    *config.Config
	Logger    *logger.Logger
	Sessions  *session.Store
	Session   session.Session
	Client    *api.Client
	Snapshots *snapshot.Cache
	Listing   *listing.Service
	Bookmarks *bookmarks.Store
	// Mirror is nil when no materials repository is configured.
	Mirror    *materials.Mirror
	RequestID string

	closers []io.Closer
}

type appOptions struct {
	// fileLogging keeps log output off the terminal even with --verbose.
	fileLogging bool
}

func newAppContext(cmd *cobra.Command, flags *rootFlags, operation string, opts appOptions) (*AppContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, newCommandError(operation, "loading configuration", err, "Fix the configuration file or pass a different one with --config.")
	}

	app := &AppContext{Config: cfg, RequestID: uuid.NewString()}

	if err := app.openLogger(cmd, flags, opts); err != nil {
		return nil, newCommandError(operation, "opening the log", err, "Check that the log file location is writable.")
	}
	app.Logger = app.Logger.With("command", operation, "request_id", app.RequestID)

	app.Sessions = session.NewStore("")
	app.Session = app.loadSession()

	app.Client, err = api.New(api.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		UserAgent:         "careerdesk/" + version,
		Session:           app.Session,
		Logger:            app.Logger,
	})
	if err != nil {
		app.Close()
		return nil, newCommandError(operation, "creating the API client", err, "Set api.base_url to an http(s) URL.")
	}

	if cfg.Materials.Repository != "" {
		app.Mirror, err = materials.NewMirror(materials.Options{
			Repository:  cfg.Materials.Repository,
			Branch:      cfg.Materials.Branch,
			Destination: cfg.Materials.Destination,
			Logger:      app.Logger,
		})
		if err != nil {
			app.Close()
			return nil, newCommandError(operation, "configuring the materials mirror", err, "Check the materials section of the configuration.")
		}
	}

	serviceOpts := []listing.Option{listing.WithLogger(app.Logger)}
	if !cfg.Cache.Disabled {
		app.Snapshots = snapshot.Open(cfg.Cache.Dir)
		serviceOpts = append(serviceOpts, listing.WithSnapshots(app.Snapshots))
	}
	app.Listing = listing.NewService(sourceFetcher{client: app.Client, mirror: app.Mirror}, serviceOpts...)

	bookmarksPath, err := paths.BookmarksFile()
	if err != nil {
		app.Close()
		return nil, newCommandError(operation, "determining the saved listings path", err, "Ensure your HOME directory is set correctly.")
	}
	app.Bookmarks, err = bookmarks.NewStore(bookmarksPath)
	if err != nil {
		app.Close()
		return nil, newCommandError(operation, "loading saved listings", err, "Check the saved listings file permissions, or move it aside to start fresh.")
	}

	return app, nil
}

func (a *AppContext) openLogger(cmd *cobra.Command, flags *rootFlags, opts appOptions) error {
	level := a.Config.Logging.Level
	if flags.verbose {
		level = "debug"
	}

	if flags.verbose && !opts.fileLogging {
		log, err := logger.New(logger.Options{
			Level:         level,
			HumanReadable: a.Config.Logging.HumanReadable,
			Writer:        cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		a.Logger = log
		return nil
	}

	log, closer, err := logger.NewFile(a.Config.Logging.File, logger.Options{Level: level})
	if err != nil {
		return err
	}
	a.Logger = log
	a.closers = append(a.closers, closer)
	return nil
}

// loadSession returns the stored identity, falling back to anonymous when
// the keychain is empty, unavailable or holds an expired token.
func (a *AppContext) loadSession() session.Session {
	sess, err := a.Sessions.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		return session.Anonymous()
	case err != nil:
		a.Logger.Warn(fmt.Sprintf("keychain unavailable, continuing signed out: %v", err))
		return session.Anonymous()
	case sess.Expired(time.Now()):
		a.Logger.With("expired_at", sess.Claims.ExpiresAt).Warn("stored session expired")
		return session.Anonymous()
	}
	return sess
}

// Context returns the command context tagged with this run's correlation id.
func (a *AppContext) Context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return api.WithRequestID(ctx, a.RequestID)
}

// Close releases the log file.
func (a *AppContext) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// sourceFetcher reads study materials from the local git mirror when one is
// configured and everything else from the backend.
type sourceFetcher struct {
	client *api.Client
	mirror *materials.Mirror
}

func (f sourceFetcher) List(ctx context.Context, col catalog.Collection) ([]record.Record, error) {
	if col.Name == "materials" && f.mirror != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return f.mirror.Files()
	}
	return f.client.List(ctx, col)
}
