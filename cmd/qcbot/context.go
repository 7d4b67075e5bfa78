package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/Spok95/qc-tracker/internal/catalog"
	"github.com/Spok95/qc-tracker/internal/config"
	"github.com/Spok95/qc-tracker/internal/db"
	"github.com/Spok95/qc-tracker/internal/logging"
	"github.com/Spok95/qc-tracker/internal/service"
	"github.com/Spok95/qc-tracker/internal/store"
	"github.com/Spok95/qc-tracker/internal/store/redisstore"
)

// commandContext holds what every subcommand needs once flags are parsed.
type commandContext struct {
	envFile *string
	cfg     *config.Config
	log     *logging.Log
}

func newCommandContext(envFile *string) *commandContext {
	return &commandContext{envFile: envFile}
}

func (c *commandContext) ensure() error {
	if c.cfg != nil {
		return nil
	}
	if c.envFile != nil && *c.envFile != "" {
		if err := godotenv.Load(*c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", *c.envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	c.cfg, c.log = cfg, log
	return nil
}

func (c *commandContext) close() {
	if c.log != nil {
		c.log.Closer()
	}
}

// sqlDialect maps the store driver to a db dialect; ok is false for
// drivers without SQL.
func sqlDialect(cfg *config.Config) (dialect, dsn string, ok bool) {
	switch cfg.StoreDriver {
	case "postgres":
		return db.Postgres, cfg.DatabaseURL, true
	case "sqlite":
		return db.SQLite, cfg.SQLitePath, true
	}
	return "", "", false
}

// openStore connects the configured backend. SQL backends are migrated first.
func (c *commandContext) openStore(ctx context.Context) (store.KV, error) {
	if dialect, dsn, ok := sqlDialect(c.cfg); ok {
		database, err := db.Open(ctx, dialect, dsn)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, database, dialect); err != nil {
			_ = database.Close()
			return nil, err
		}
		kv, err := db.NewKV(database, dialect)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		return kv, nil
	}
	if c.cfg.StoreDriver == "redis" {
		rs, err := redisstore.Open(ctx, c.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}
	c.log.Base.Warn("using in-memory store, data is lost on exit")
	return store.NewMemory(), nil
}

func (c *commandContext) newService(ctx context.Context) (*service.Service, store.KV, error) {
	kv, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Load(c.cfg.CatalogPath)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	svc := service.New(kv, cat, c.log.Base, service.Config{
		Location:   c.cfg.Location,
		SessionTTL: c.cfg.SessionTTL,
	})
	return svc, kv, nil
}
