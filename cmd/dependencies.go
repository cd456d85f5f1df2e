package cmd

import (
	"context"
	"fmt"

	"stockvue/config"
	"stockvue/internal/repository"
	"stockvue/pkg/cache"
	"stockvue/pkg/kvstore"
	"stockvue/pkg/logger"
	"stockvue/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	store     kvstore.Store
	scheduler *cron.Cron
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var opts []logger.Option
	if cfg.Log.FilePath != "" {
		opts = append(opts, logger.WithFile(logger.FileOutput{
			Path:       cfg.Log.FilePath,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		}))
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding, opts...)
	if err != nil {
		return nil, err
	}

	dep := &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		echo:      echo.New(),
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		scheduler: cron.New(),
	}
	dep.echo.HideBanner = true

	if err := dep.openStore(); err != nil {
		log.Error("Failed to open persistent store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return nil, err
	}
	return dep, nil
}

func (d *AppDependency) openStore() error {
	switch d.cfg.Store.Driver {
	case config.StoreDriverMemory:
		d.store = kvstore.NewMemoryStore()
	case config.StoreDriverSQLite:
		store, err := kvstore.OpenSQLite(d.cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		d.store = store
	case config.StoreDriverPostgres:
		db, err := postgres.NewDB(d.cfg.DB, d.log)
		if err != nil {
			return err
		}
		d.db = db
		d.store = repository.NewKVRecordRepository(db.DB)
	default:
		return fmt.Errorf("unknown store driver %q", d.cfg.Store.Driver)
	}
	d.log.Info("Persistent store ready", zap.String("driver", d.cfg.Store.Driver))
	return nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.log.Error("Failed to close store", zap.Error(err))
		}
	}
	var err error
	if d.db != nil {
		err = d.db.Close()
	}
	_ = d.log.Sync()
	return err
}
