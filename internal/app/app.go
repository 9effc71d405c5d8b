// Package app собирает зависимости приложения: источники листов, кеш,
// журнал, сервисы. Используется HTTP-сервером и утилитой crrctl.
package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"nbd-crr/internal/integrations"
	"nbd-crr/internal/integrations/appscript"
	"nbd-crr/internal/integrations/gsheets"
	"nbd-crr/internal/integrations/mock"
	"nbd-crr/internal/listeners"
	"nbd-crr/internal/repositories"
	"nbd-crr/internal/services"
	"nbd-crr/pkg/config"
	"nbd-crr/pkg/database/postgresql"
	"nbd-crr/pkg/eventbus"
	"nbd-crr/pkg/service"
	"nbd-crr/pkg/websocket"
	"nbd-crr/seeders"
)

// Deps - внешние зависимости. В тестах сюда подставляются мок-провайдер,
// кеш в памяти и фейковый писатель строк.
type Deps struct {
	Config    *config.Config
	Registry  integrations.RegistryInterface
	Writer    integrations.RowWriter
	Cache     repositories.CacheRepositoryInterface
	Journal   repositories.SubmissionRepositoryInterface
	Validator services.Validator
	Logger    *zap.Logger
}

type App struct {
	Deps

	Hub      *websocket.Hub
	Bus      *eventbus.Bus
	JWT      service.JWTService
	Sheets   repositories.SheetRepositoryInterface
	Sessions repositories.SessionRepositoryInterface

	Auth        services.AuthServiceInterface
	Dashboard   services.DashboardServiceInterface
	Stages      services.StageServiceInterface
	Dropdowns   services.DropdownServiceInterface
	Sequences   services.SequenceServiceInterface
	Submissions services.SubmissionServiceInterface
	Users       services.UserServiceInterface
}

func New(d Deps) *App {
	cfg, logger := d.Config, d.Logger
	if d.Journal == nil {
		d.Journal = repositories.NewNopSubmissionRepository()
	}

	a := &App{
		Deps: d,
		Hub:  websocket.NewHub(logger),
		Bus:  eventbus.New(logger),
		JWT:  service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger),
	}

	a.Sheets = repositories.NewSheetRepository(d.Registry, logger)
	a.Sessions = repositories.NewSessionRepository(d.Cache, logger)

	wsService := services.NewWebSocketNotificationService(a.Hub, logger)
	listeners.NewSubmissionListener(wsService, logger).Register(a.Bus)

	a.Auth = services.NewAuthService(a.Sheets, a.Sessions, cfg.Auth, logger)
	a.Dashboard = services.NewDashboardService(a.Sheets, logger)
	a.Stages = services.NewStageService(a.Sheets, logger)
	a.Dropdowns = services.NewDropdownService(a.Sheets, logger)
	a.Sequences = services.NewSequenceService(a.Sheets, d.Cache, cfg.Sequence, logger)
	a.Submissions = services.NewSubmissionService(d.Writer, d.Journal, d.Cache, a.Sequences, d.Validator, a.Bus, logger)
	a.Users = services.NewUserService(a.Sheets, a.Submissions, d.Validator, logger)

	return a
}

// NewRegistry регистрирует оба источника и делает активным указанный в конфиге.
// Мок-провайдер при этом получает демонстрационную книгу.
func NewRegistry(cfg config.SheetsConfig, logger *zap.Logger) (integrations.RegistryInterface, error) {
	registry := integrations.NewRegistry()
	demo := mock.NewMockProvider()
	providers := []integrations.TableProvider{
		gsheets.New(cfg.QueryBaseURL, cfg.SpreadsheetID, cfg.Timeout, logger),
		demo,
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	if err := registry.SetActive(cfg.Provider); err != nil {
		return nil, err
	}
	if cfg.Provider == mock.ProviderName {
		seeders.SeedWorkbook(demo, logger)
	}
	return registry, nil
}

// ConnectOptions: RequireRedis - без Redis не стартовать, иначе взять кеш в памяти.
type ConnectOptions struct {
	RequireRedis bool
}

// Connect поднимает реальные зависимости по конфигу. Возвращаемая функция
// закрывает соединения.
func Connect(ctx context.Context, cfg *config.Config, validator services.Validator, logger *zap.Logger, opts ConnectOptions) (Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	registry, err := NewRegistry(cfg.Sheets, logger)
	if err != nil {
		return Deps{}, cleanup, fmt.Errorf("источники листов: %w", err)
	}

	d := Deps{
		Config:    cfg,
		Registry:  registry,
		Writer:    appscript.New(cfg.Sheets.ScriptURL, cfg.Sheets.Timeout, logger),
		Validator: validator,
		Logger:    logger,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		if opts.RequireRedis {
			return Deps{}, cleanup, fmt.Errorf("не удалось подключиться к Redis %s: %w", cfg.Redis.Address, err)
		}
		logger.Warn("Redis недоступен, используется кеш в памяти", zap.String("address", cfg.Redis.Address), zap.Error(err))
		d.Cache = repositories.NewMemoryCacheRepository()
	} else {
		closers = append(closers, func() { _ = redisClient.Close() })
		d.Cache = repositories.NewRedisCacheRepository(redisClient)
	}

	if cfg.Postgres.JournalEnabled {
		pool, err := connectJournal(ctx, cfg.Postgres.DSN, logger)
		if err != nil {
			cleanup()
			return Deps{}, func() {}, err
		}
		closers = append(closers, pool.Close)
		d.Journal = repositories.NewSubmissionRepository(pool, logger)
	} else {
		logger.Info("Журнал отправок выключен")
		d.Journal = repositories.NewNopSubmissionRepository()
	}

	return d, cleanup, nil
}

func connectJournal(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := postgresql.ConnectDB(ctx, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("журнал отправок: %w", err)
	}
	if err := postgresql.Migrate(pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("миграции журнала: %w", err)
	}
	return pool, nil
}
