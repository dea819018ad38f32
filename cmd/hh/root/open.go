package root

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Asside333/HabitHub/internal/config"
	"github.com/Asside333/HabitHub/internal/engine"
	"github.com/Asside333/HabitHub/internal/storage"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// openService wires env, config, storage and the engine for one command run.
func openService(ctx context.Context) (*engine.Service, *storage.SaveStore, func(), error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, nil, nil, err
	}

	cfgPath := env.Config
	if cfgPath == "" {
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return nil, nil, nil, err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	dbPath, err := storage.ResolvePath(env.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	if err := storage.Migrate(ctx, db); err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	var clock engine.Clock = engine.SystemClock()
	if env.PinnedDate != "" {
		pinned, err := time.Parse(engine.DateLayout, env.PinnedDate)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("HH_PINNED_DATE %q: want YYYY-MM-DD", env.PinnedDate)
		}
		clock = engine.FixedClock{Instant: pinned}
	}

	store := storage.NewSaveStore(db)
	svc, err := engine.NewService(ctx, cfg, store, clock, newLogger())
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return svc, store, cleanup, nil
}
