package daemon

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"swipe/internal/api"
	"swipe/internal/config"
	"swipe/internal/expiry"
	"swipe/internal/kv"
	"swipe/internal/lock"
	"swipe/internal/logging"
	"swipe/internal/offline"
	"swipe/internal/outbox"
	"swipe/internal/session"
	"swipe/internal/store"
	intsync "swipe/internal/sync"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideLock,
			provideKV,
			provideStore,
			provideQueue,
			provideExpiryEngine,
			provideClient,
			provideReconciler,
			provideSender,
			provideSyncEngine,
			provideSweeper,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	cfg, err := config.Load(session.ConfigPath())
	if err != nil {
		cfg = &config.Config{}
	}
	cfg.Defaults()
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(session.LogPath(p.SessionName), p.SessionName)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

func provideKV(p Params, logger *zap.Logger, _ *lock.Lock) (*kv.DB, error) {
	dbPath := session.DBPath(p.SessionName)
	db, err := kv.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("adapter initialized", zap.String("path", dbPath))
	return db, nil
}

func provideStore(db *kv.DB, logger *zap.Logger) *store.Store {
	return store.New(db, logger)
}

func provideQueue(db *kv.DB, logger *zap.Logger) *offline.Queue {
	return offline.NewQueue(db, logger)
}

func provideExpiryEngine(s *store.Store, logger *zap.Logger) *expiry.Engine {
	return expiry.New(s, logger)
}

func provideClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	return api.NewClient(cfg.APIBaseURL, logger)
}

func provideReconciler(s *store.Store, logger *zap.Logger) *intsync.Reconciler {
	return intsync.NewReconciler(s, logger)
}

func provideSender(s *store.Store, q *offline.Queue, client *api.Client, logger *zap.Logger) *outbox.Sender {
	return outbox.NewSender(s, q, client, logger)
}

func provideSyncEngine(q *offline.Queue, r *intsync.Reconciler, sender *outbox.Sender, client *api.Client, cfg *config.Config, logger *zap.Logger) *intsync.Engine {
	interval := time.Duration(cfg.ProbeIntervalSecs) * time.Second
	return intsync.NewEngine(q, r, sender, client, interval, logger)
}

func provideSweeper(engine *expiry.Engine, cfg *config.Config, logger *zap.Logger) *Sweeper {
	interval := time.Duration(cfg.SweepIntervalSecs) * time.Second
	return NewSweeper(engine, interval, logger)
}

func registerLifecycle(lc fx.Lifecycle, q *offline.Queue, engine *intsync.Engine, sweeper *Sweeper, db *kv.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Hydrate pending count and checkpoint from the last run.
			q.Initialize()

			engine.Start(context.Background())
			sweeper.Start(context.Background())

			// Catch up on whatever the server confirmed while we were down.
			go engine.Resync(context.Background())

			logger.Info("daemon started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			engine.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing adapter", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
