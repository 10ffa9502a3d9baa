package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ahargrove/folio/internal/catalog"
	"github.com/ahargrove/folio/internal/config"
	"github.com/ahargrove/folio/internal/logging"
	"github.com/ahargrove/folio/internal/prefs"
	"github.com/ahargrove/folio/internal/session"
	"github.com/ahargrove/folio/internal/ui"
)

// Options configure the folio application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/folio/prefs.toml
}

// Run boots the folio TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	sessions, err := session.Open(cfg.SessionDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	// Token is read per request; clearing the store on a 401 is enough
	// to stop the next request from carrying the dead token.
	client, err := catalog.New(cfg.BaseURL, catalog.Options{
		Token:            sessions.Token,
		OnSessionExpired: sessions.Clear,
		Logger:           log,
		Timeout:          cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	// Pre-flight: a restored session may carry a token the backend no
	// longer accepts. Asking for the profile settles it before the UI
	// opens; a 401 clears the store through the client's guard, and a
	// network failure keeps the session for the UI to sort out.
	if sessions.Current() != nil {
		if user, err := client.Profile(ctx); err != nil {
			log.Warn("restored session check", zap.Error(err))
		} else {
			log.Debug("restored session verified", zap.Int64("user_id", user.ID))
		}
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warn("load prefs", zap.Error(err))
	}

	log.Info("starting folio",
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("restored_session", sessions.Current() != nil),
	)

	return ui.Run(ui.Options{
		Context:   ctx,
		API:       client,
		Sessions:  sessions,
		Logger:    log,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Debounce:  cfg.SearchDebounce,
	})
}
