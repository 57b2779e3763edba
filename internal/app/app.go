package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/aurad/internal/aura"
	"github.com/five82/aurad/internal/config"
	"github.com/five82/aurad/internal/dashboard"
	"github.com/five82/aurad/internal/diag"
	"github.com/five82/aurad/internal/prefs"
	"github.com/five82/aurad/internal/state"
	"github.com/five82/aurad/internal/ui"
)

// Options configure the aurad application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses ~/.config/aurad/prefs.toml
	APIURL     string        // overrides api_url from the config file
	PollEvery  time.Duration // zero uses the configured interval
	Debug      bool
}

// Env is the shared setup for the TUI and the scripting commands.
type Env struct {
	Config config.Config
	Client *aura.Client
	Log    *diag.Logger
}

// Setup loads configuration, opens the diagnostic log and builds the gateway
// client. Callers must Close the returned Env.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	logger, err := diag.Open(diag.Config{
		Level: cfg.LogLevel,
		Debug: opts.Debug,
		File:  cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("open diagnostic log: %w", err)
	}

	client, err := aura.NewClient(cfg.APIURL,
		aura.WithTimeout(cfg.RequestTimeout),
		aura.WithLogger(logger.Component("aura")),
	)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("init aura client: %w", err)
	}

	return &Env{Config: cfg, Client: client, Log: logger}, nil
}

// Close releases the diagnostic log.
func (e *Env) Close() error {
	if e == nil || e.Log == nil {
		return nil
	}
	return e.Log.Close()
}

// Run boots the aurad TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	log := env.Log.Component("app")
	log.Info().
		Str("api_url", env.Client.BaseURL()).
		Dur("poll_interval", env.Config.PollInterval).
		Msg("starting aurad")

	userPrefs := prefs.Load(opts.PrefsPath)
	store := &state.Store{}

	ctrl := dashboard.New(dashboard.Options{
		Backend:            env.Client,
		Store:              store,
		Logger:             env.Log.Component("dashboard"),
		UpdateRefreshDelay: env.Config.UpdateRefreshDelay,
		CycleRefreshDelay:  env.Config.CycleRefreshDelay,
		RefreshTimeout:     env.Config.RequestTimeout,
	})
	defer ctrl.Close()
	ctrl.Connecting()

	poller := &Poller{
		Interval:  env.Config.PollInterval,
		Guard:     env.Config.ConnectTimeout,
		Refresh:   ctrl.Refresh,
		OnStartup: ctrl.Startup,
		Logger:    env.Log.Component("poller"),
	}
	poller.Start(ctx)
	defer poller.Stop()

	cfg := env.Config
	err = ui.Run(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Store:      store,
		Config:     &cfg,
		Logger:     env.Log.Component("ui"),
		PrefsPath:  opts.PrefsPath,
		DarkMode:   userPrefs.DarkMode,
		DiagPath:   env.Log.Path(),
	})
	if err != nil {
		log.Error().Err(err).Msg("ui exited with error")
		return fmt.Errorf("run ui: %w", err)
	}
	log.Info().Msg("aurad stopped")
	return nil
}
