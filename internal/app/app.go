package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/catalog"
	"github.com/five82/reel/internal/config"
	"github.com/five82/reel/internal/connectivity"
	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/mainloop"
	"github.com/five82/reel/internal/offline"
	"github.com/five82/reel/internal/prefs"
	"github.com/five82/reel/internal/state"
	"github.com/five82/reel/internal/ui"
)

// Options configure the reel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/reel/prefs.toml
	Verbose    bool   // force debug logging

	// LogOutput overrides where headless commands log. Nil means stderr.
	LogOutput io.Writer
}

// services are the collaborators every entry point needs.
type services struct {
	cfg      config.Config
	log      *logrus.Logger
	closeLog func() error
	cache    *offline.Cache
	client   *linetv.Client
}

func setup(ctx context.Context, opts Options, toFile bool) (*services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if toFile {
		logOpts.File = cfg.Log.File
	}
	if opts.Verbose {
		logOpts.Level = "debug"
	}
	log, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	if !toFile && opts.LogOutput != nil {
		log.SetOutput(opts.LogOutput)
	}

	store, err := offline.Open(ctx, offline.Options{
		Backend:       cfg.Cache.Backend,
		Path:          cfg.Cache.Path,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open offline cache: %w", err)
	}

	client := linetv.NewClient(linetv.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Log:     log,
	})

	log.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"backend":  cfg.Cache.Backend,
	}).Debug("services ready")

	return &services{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		cache:    offline.New(store, log),
		client:   client,
	}, nil
}

func (s *services) Close() {
	if err := s.cache.Close(); err != nil {
		s.log.WithError(err).Warn("close offline cache")
	}
	_ = s.closeLog()
}

// startLoop runs a main loop until the returned stop function is called.
func startLoop(ctx context.Context) (*mainloop.Loop, func()) {
	loop := mainloop.New()
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(loopCtx)
	}()
	return loop, func() {
		loop.Close()
		cancel()
		<-done
	}
}

// Run boots the reel TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := setup(ctx, opts, true)
	if err != nil {
		return err
	}
	defer svc.Close()
	log := svc.log

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		log.WithError(err).Warn("load prefs")
	}

	loop, stopLoop := startLoop(ctx)
	defer stopLoop()

	monitor := connectivity.NewMonitor(loop, &connectivity.Prober{
		Address:    svc.cfg.Connectivity.ProbeAddress,
		Interval:   svc.cfg.Connectivity.ProbeInterval,
		WatchPaths: svc.cfg.Connectivity.WatchPaths,
		Log:        log,
	}, log)
	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("start connectivity monitor: %w", err)
	}
	defer monitor.Stop()

	status := &state.Store{}
	bridge := ui.NewBridge()
	ctrl, err := catalog.New(catalog.Options{
		Loop:    loop,
		Monitor: monitor,
		Fetcher: svc.client,
		Cache:   svc.cache,
		Status:  status,
		Path:    svc.cfg.DramasPath,
		Log:     log,
	}, bridge.List())
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}

	keyword, _, err := svc.cache.LoadLastKeyword(ctx)
	if err != nil {
		log.WithError(err).Warn("restore keyword for search box")
	}

	program := ui.NewProgram(ui.Options{
		Context:   ctx,
		Catalog:   ctrl,
		Bridge:    bridge,
		Status:    status,
		Log:       log,
		LogPath:   svc.cfg.Log.File,
		PrefsPath: prefsPath,
		Prefs:     userPrefs,
		Keyword:   keyword,
		Refresh:   true,
	})

	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("start catalog: %w", err)
	}
	defer ctrl.Close()

	log.Info("reel started")
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
