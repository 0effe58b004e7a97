package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/admin"
	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/config"
	"github.com/five82/stockroom/internal/prefs"
	"github.com/five82/stockroom/internal/state"
	"github.com/five82/stockroom/internal/ui"
)

// Options configure the stockroom application.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses default ~/.config/stockroom/prefs.toml
	APIBase      string        // overrides the configured api_base when set
	RefreshEvery time.Duration // overrides refresh_interval when positive
}

// Run boots the stockroom TUI until the operator quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if base := strings.TrimSpace(opts.APIBase); base != "" {
		cfg.APIBase = strings.TrimRight(base, "/")
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = opts.RefreshEvery
	}

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := catalog.NewClient(cfg.APIBase, catalog.Options{
		Routes: catalog.Routes{
			Resource:     cfg.ResourcePath,
			UpdateMethod: cfg.UpdateMethod,
		},
		Timeout: cfg.RequestTimeout,
		Logger:  logger.WithField("component", "catalog"),
	})
	if err != nil {
		return fmt.Errorf("init product client: %w", err)
	}

	toaster := ui.NewToaster(ui.ToastBuffer)
	confirmer := ui.NewModalConfirmer()

	store := state.New(client,
		state.WithErrorNotifier(admin.RefreshFailed(toaster, cfg.ToastDuration)),
		state.WithLogger(logger.WithField("component", "store")),
	)

	ctrl, err := admin.NewController(admin.Options{
		Client:        client,
		Store:         store,
		Notifier:      toaster,
		Confirmer:     confirmer,
		Logger:        logger.WithField("component", "admin"),
		ToastDuration: cfg.ToastDuration,
	})
	if err != nil {
		return fmt.Errorf("init controller: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"api_base":         client.BaseURL(),
		"resource":         cfg.ResourcePath,
		"update_method":    cfg.UpdateMethod,
		"refresh_interval": cfg.RefreshInterval,
	}).Info("stockroom starting")

	if cfg.RefreshInterval > 0 {
		StartPoller(ctx, store, cfg.RefreshInterval, logger.WithField("component", "poller"))
	}

	err = ui.Run(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Toaster:    toaster,
		Confirmer:  confirmer,
		APIBase:    client.BaseURL(),
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
		Logger:     logger.WithField("component", "ui"),
	})
	ctrl.Unmount()
	if err != nil {
		logger.WithError(err).Error("ui exited")
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("stockroom stopped")
	return nil
}

// newLogger opens the log file for appending. The terminal belongs to the
// UI, so nothing is logged to stderr.
func newLogger(path, level string) (*logrus.Logger, func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return logger, func() { _ = file.Close() }, nil
}
