package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aviato-app/aviato-match/config"
	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/internal/domain/user"
	"github.com/aviato-app/aviato-match/internal/infrastructure/persistence/memory"
	"github.com/aviato-app/aviato-match/internal/infrastructure/persistence/postgres"
	"github.com/aviato-app/aviato-match/internal/infrastructure/persistence/redis"
	"github.com/aviato-app/aviato-match/internal/interface/http/handlers"
	"github.com/aviato-app/aviato-match/pkg/logger"
	"github.com/aviato-app/aviato-match/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRING
// Сборка хранилищ по конфигурации. Без DATABASE_URL всё живёт в памяти
// с демо-пользователями; Redis включается отдельно и только кеширует
// зафиксированные выборы.
// ══════════════════════════════════════════════════════════════════════════════

// app держит собранные зависимости и то, что нужно закрыть при выходе.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	users      user.Repository
	selections selection.Store
	health     *handlers.CompositeHealthChecker
	closers    []func()
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts := logger.DefaultOptions()
	opts.Output = os.Stdout
	if obs := cfg.Observability; obs.LogFile != "" {
		opts.Output = &lumberjack.Logger{
			Filename:   obs.LogFile,
			MaxSize:    obs.LogMaxSizeMB,
			MaxBackups: obs.LogMaxBackups,
			MaxAge:     obs.LogMaxAgeDays,
			Compress:   true,
		}
	}
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = cfg.Observability.LogFormat
	log := logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)

	return cfg, log, nil
}

// connectRetrier логирует каждую неудачную попытку подключения.
func connectRetrier(log *logger.Logger, target string) *retry.Retrier {
	return retry.ConnectRetrier(retry.WithOnRetry(func(attempt uint, err error) {
		log.Warn("connection attempt failed, retrying",
			logger.String("target", target),
			logger.Int("attempt", int(attempt)),
			logger.Err(err),
		)
	}))
}

func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	opts := postgres.DefaultPoolOptions()
	opts.MaxConns = int32(cfg.Database.MaxConns)
	opts.MinConns = int32(cfg.Database.MinConns)
	opts.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	opts.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	var conn *postgres.Connection
	err := connectRetrier(log, "postgres").Do(ctx, func(ctx context.Context) error {
		c, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL, opts)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

func buildApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{
		cfg:    cfg,
		log:    log,
		health: handlers.NewCompositeHealthChecker(cfg.App.Version),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. Пользователи и выборы
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.UsesDatabase() {
		log.Info("connecting to database...")
		conn, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		a.health.AddCheck("postgres", handlers.PingCheck(conn))

		if cfg.Database.AutoMigrate {
			if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		users := postgres.NewUserRepository(conn)
		if cfg.Database.Seed {
			if err := seedUsers(ctx, users, log); err != nil {
				a.Close()
				return nil, err
			}
		}

		a.users = users
		a.selections = postgres.NewSelectionRepository(conn)
		log.Info("database connection established")
	} else {
		log.Warn("DATABASE_URL is empty, using in-memory store with demo users")
		a.users = memory.NewSeededUserRepository()
		a.selections = memory.NewSelectionStore()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Redis (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Redis.Enabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		var cache *redis.Cache
		err := connectRetrier(log, "redis").Do(ctx, func(context.Context) error {
			c, err := redis.NewCache(redisCfg)
			if err != nil {
				return err
			}
			cache = c
			return nil
		})
		if err != nil {
			// Кеш не обязателен: работаем без него.
			log.Warn("failed to connect to Redis, selection cache disabled", logger.Err(err))
		} else {
			a.closers = append(a.closers, func() { _ = cache.Close() })
			a.health.AddCheck("redis", handlers.PingCheck(cache))
			a.selections = redis.NewSelectionCache(cache, a.selections, log)
			log.Info("Redis connection established", logger.String("address", redisCfg.Addr()))
		}
	}

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// seedUsers загружает демо-пользователей в пустую таблицу.
func seedUsers(ctx context.Context, repo user.Repository, log *logger.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	seed := memory.SeedUsers()
	for i := range seed {
		if err := repo.Save(ctx, &seed[i]); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", seed[i].Name, err)
		}
	}
	log.Info("demo users seeded", logger.Int("count", len(seed)))
	return nil
}
