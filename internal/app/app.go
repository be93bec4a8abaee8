package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"alphawatch/internal/catalog"
	"alphawatch/internal/config"
	"alphawatch/internal/listener"
	"alphawatch/internal/monitor"
	"alphawatch/internal/notify"
	"alphawatch/internal/runtime/supervisor"
	"alphawatch/internal/storage"
	kit "alphawatch/internal/transport"
	"alphawatch/internal/transport/telegram"
	"alphawatch/pkg/logx"
)

// updateChanCap bounds the inbound update buffer between the Telegram poll
// loop and the listener.
const updateChanCap = 64

// App wires config, logging, storage, transport, the subscription listener
// and the monitor loop together.
type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store    storage.Store
	adapter  *telegram.Adapter
	listener *listener.Listener
	monitor  *monitor.Monitor

	sup     *supervisor.Supervisor
	updates chan kit.Update
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})
	mgr.SetLogger(log.With(logx.String("comp", "config")))

	a := &App{cfgMgr: mgr, logSvc: logSvc, log: log}
	if err := a.build(cfg); err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(cfg *config.Config) error {
	busyTimeout, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return err
	}
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busyTimeout,
	}, a.log.With(logx.String("comp", "storage")))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.store = store

	pollTimeout, err := config.ParseDurationField("telegram.poll_timeout", cfg.Telegram.PollTimeout)
	if err != nil {
		return err
	}
	adapter, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, a.log.With(logx.String("comp", "telegram")))
	if err != nil {
		return fmt.Errorf("telegram adapter: %w", err)
	}
	a.adapter = adapter

	fetchTimeout, err := config.ParseDurationField("catalog.fetch_timeout", cfg.Catalog.FetchTimeout)
	if err != nil {
		return err
	}
	client, err := catalog.NewClient(catalog.ClientConfig{
		URL:        cfg.Catalog.URL,
		Timeout:    fetchTimeout,
		RatePerSec: cfg.Catalog.RatePerSec,
	}, a.log.With(logx.String("comp", "catalog")))
	if err != nil {
		return fmt.Errorf("catalog client: %w", err)
	}

	sched, err := monitor.ParseSchedule(cfg.Monitor.Schedule)
	if err != nil {
		return fmt.Errorf("monitor.schedule: %w", err)
	}

	caster := notify.NewBroadcaster(store, adapter, a.log.With(logx.String("comp", "broadcast")))
	a.monitor = monitor.New(client, caster, sched, a.log.With(logx.String("comp", "monitor")))
	a.listener = listener.New(store, adapter, a.log.With(logx.String("comp", "listener")))
	return nil
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))))

	a.updates = make(chan kit.Update, updateChanCap)
	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return fmt.Errorf("start telegram adapter: %w", err)
	}

	a.sup.Go("listener", func(ctx context.Context) error {
		return a.listener.Run(ctx, a.updates)
	})
	a.sup.GoRestart("monitor", a.monitor.Run)
	a.sup.Go("config.watch", a.cfgMgr.Watch)
	a.sup.Go0("config.apply", a.applyConfigUpdates)

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	a.log.Info("alphawatch started")
	return nil
}

// applyConfigUpdates consumes hot reloads. Only logging changes apply live;
// anything else (token, url, schedule, storage) needs a restart and is
// called out in the log so the operator isn't surprised.
func (a *App) applyConfigUpdates(ctx context.Context) {
	ch := a.cfgMgr.Subscribe(1)
	defer a.cfgMgr.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-ch:
			if !ok || cfg == nil {
				return
			}
			a.logSvc.Apply(logx.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
				File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
			})
			a.log.Info("logging config applied; other sections apply on restart")
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if a.adapter != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_ = a.adapter.Stop(stopCtx)
		cancel()
	}
	if a.sup != nil {
		if err := a.sup.Stop(ctx); err != nil && ctx.Err() == nil {
			a.log.Warn("shutdown finished with error", logx.Err(err))
		}
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Info("alphawatch stopped")
	return a.logSvc.Close()
}
