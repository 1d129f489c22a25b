// Package desk собирает приложение: хранилище по драйверу из конфига,
// хранилище записей, сессию, сервис администратора и метрики.
package desk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/appointment-desk/internal/config"
	"github.com/magabrotheeeer/appointment-desk/internal/lib/jwt"
	"github.com/magabrotheeeer/appointment-desk/internal/lib/password"
	"github.com/magabrotheeeer/appointment-desk/internal/lib/sl"
	"github.com/magabrotheeeer/appointment-desk/internal/metrics"
	"github.com/magabrotheeeer/appointment-desk/internal/services/admin"
	"github.com/magabrotheeeer/appointment-desk/internal/services/auth"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/file"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/memory"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/postgresql"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/redis"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/repository"
)

// App держит собранные компоненты на время одного запуска.
type App struct {
	logger  *slog.Logger
	cfg     *config.Config
	backend storage.Backend

	Store   *repository.Storage
	Auth    *auth.AuthService
	Admin   *admin.Service
	Metrics *metrics.Metrics
}

// OpenBackend открывает key-value хранилище по cfg.Storage.Driver.
func OpenBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	const op = "app.desk.OpenBackend"
	var (
		backend storage.Backend
		err     error
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		backend = memory.New()
	case config.DriverFile, "":
		backend, err = file.New(cfg.Storage.Path, cfg.Storage.LockTimeout)
	case config.DriverRedis:
		backend, err = redis.InitServer(ctx, cfg.RedisConnection)
	case config.DriverPostgreSQL:
		backend, err = postgresql.New(ctx, cfg.Storage.ConnectionString, cfg.Storage.LockTimeout)
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return backend, nil
}

// New открывает хранилище по конфигу и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app, err := NewWithBackend(ctx, cfg, logger, backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return app, nil
}

// NewWithBackend собирает приложение поверх готового хранилища: заполняет
// пустое хранилище начальными данными и восстанавливает сохранённую сессию.
func NewWithBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger, backend storage.Backend) (*App, error) {
	const op = "app.desk.New"

	m := metrics.New()
	hasher := password.New(cfg.Auth.Salt)
	store := repository.New(backend, hasher, repository.WithObserver(m.StoreWrite))

	if !cfg.Storage.SkipSeed {
		seeded, err := store.Seed(ctx, repository.SeedData{
			AdminPassword:   cfg.Seed.AdminPassword,
			TeacherPassword: cfg.Seed.TeacherPassword,
			StudentPassword: cfg.Seed.StudentPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if seeded {
			logger.Info("storage seeded with demo accounts")
		}
	}

	opts := []auth.Option{
		auth.WithLoginLimit(backend, cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
		auth.WithSimulatedLatency(cfg.Auth.SimulatedLatency),
		auth.WithRecorder(m),
		auth.WithRestoreRevalidation(cfg.Auth.RevalidateOnRestore),
	}
	if cfg.Auth.SessionSecret != "" {
		opts = append(opts, auth.WithTokenMaker(jwt.NewJWTMaker(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)))
	}
	authService := auth.NewAuthService(logger, store, repository.NewSessionStore(backend), hasher, opts...)

	restored, err := authService.RestoreSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if restored {
		session, _ := authService.CurrentUser()
		logger.Debug("session restored", sl.UserID(session.ID), slog.String("role", string(session.Role)))
	}

	return &App{
		logger:  logger,
		cfg:     cfg,
		backend: backend,
		Store:   store,
		Auth:    authService,
		Admin:   admin.NewService(logger, store),
		Metrics: m,
	}, nil
}

// Close сбрасывает метрики в файл, если он настроен, и закрывает хранилище.
func (a *App) Close() error {
	const op = "app.desk.Close"
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.Metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("failed to write metrics textfile", sl.Err(err))
		}
	}
	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
