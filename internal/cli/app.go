// Package cli wires the fitadmin components together for the command line
// and renders their results.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/studiowebux/fitadmin/internal/config"
	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/history"
	"github.com/studiowebux/fitadmin/internal/notify"
	"github.com/studiowebux/fitadmin/internal/services"
	"github.com/studiowebux/fitadmin/internal/session"
	"github.com/studiowebux/fitadmin/internal/upload"
)

// AppOptions are the command-line overrides applied on top of the options file
type AppOptions struct {
	ConfigDir string // empty uses ~/.fitadmin
	BaseURL   string
	LogLevel  string
	Quiet     bool // suppress notifications
	NoHistory bool
	TLS       *executor.TLSConfig
	Stderr    io.Writer
}

// App holds the components shared by every command
type App struct {
	Options  config.Options
	Log      zerolog.Logger
	Session  *session.Store
	Notifier notify.Notifier
	Client   *executor.Client
	Services *services.Services
	Uploads  *upload.Orchestrator
	History  *history.Manager // nil when history is disabled
}

// NewApp loads configuration and session state and builds the client stack
func NewApp(opts AppOptions) (*App, error) {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	var err error
	if opts.ConfigDir != "" {
		err = config.InitializeAt(opts.ConfigDir)
	} else {
		err = config.Initialize()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	options, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		options.BaseURL = opts.BaseURL
	}
	if opts.LogLevel != "" {
		options.LogLevel = opts.LogLevel
	}
	if opts.NoHistory {
		options.History = false
	}

	log, err := NewLogger(opts.Stderr, options.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := session.OpenDefault()
	if err != nil {
		return nil, err
	}

	app := &App{
		Options:  options,
		Log:      log,
		Session:  store,
		Notifier: notify.Toggle{Enabled: !opts.Quiet, Next: notify.NewTerminal(opts.Stderr)},
	}

	clientOpts := executor.Options{
		BaseURL:     options.BaseURL,
		Timeout:     options.Timeout(),
		Credentials: store,
		Notifier:    app.Notifier,
		Logger:      log,
		TLS:         opts.TLS,
	}

	if options.History {
		mgr, err := history.NewManager(config.DatabasePath)
		if err != nil {
			// history is a convenience; the command still runs without it
			log.Warn().Err(err).Msg("History disabled")
		} else {
			app.History = mgr
			clientOpts.Recorder = mgr
		}
	}

	client, err := executor.New(clientOpts)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Client = client
	app.Services = services.New(client, store, log)
	app.Uploads = app.Services.Orchestrator(app.Notifier, upload.OptionsFrom(options), log)

	log.Debug().
		Str("base_url", options.BaseURL).
		Bool("authenticated", store.IsAuthenticated()).
		Bool("history", app.History != nil).
		Msg("Client ready")

	return app, nil
}

// Close releases the history database
func (a *App) Close() error {
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}

// RequireSession fails when no access token is held
func (a *App) RequireSession() error {
	if !a.Session.IsAuthenticated() {
		return fmt.Errorf("not signed in (run 'fitadmin login' first)")
	}
	return nil
}
