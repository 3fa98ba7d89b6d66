// Package app arma las dependencias compartidas por cmd/web y cmd/cli.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"coursecompare/internal/api"
	"coursecompare/internal/config"
	"coursecompare/internal/db"
	"coursecompare/internal/ratelimit"
	"coursecompare/internal/session"
	"coursecompare/internal/view"
)

// App mantiene el cliente REST, la sesión hidratada y el entorno de las vistas.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Client  *api.Client
	Session *session.Store
	Env     *view.Env

	// LoginLimiter es nil cuando LOGIN_ATTEMPTS_MAX es 0.
	LoginLimiter ratelimit.Limiter

	closers []func()
}

// New construye la App e hidrata la sesión persistida. Un fallo al hidratar
// deja la sesión vacía; un fallo al abrir el storage es fatal.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	redisClient, err := ConnectRedis(ctx, cfg)
	if err != nil {
		if cfg.SessionBackend == config.BackendRedis {
			return nil, err
		}
		logger.Warn("redis unavailable, login limiter stays in process", zap.Error(err))
	}
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
	}

	storage, closeStorage, err := NewStorage(ctx, cfg, redisClient, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if closeStorage != nil {
		a.closers = append(a.closers, closeStorage)
	}

	a.Client = api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout(), logger, api.WithGetRetries(cfg.HTTPGetRetries))
	a.Session = session.NewStore(storage, a.Client, logger)
	if err := a.Session.Hydrate(ctx); err != nil {
		logger.Warn("hydrate session failed", zap.Error(err))
	}
	a.Env = &view.Env{
		Backend:                    a.Client,
		Session:                    a.Session,
		Logger:                     logger,
		ClearSessionOnUnauthorized: cfg.SessionClearOnUnauthorized,
	}
	a.LoginLimiter = NewLoginLimiter(cfg, redisClient)
	return a, nil
}

// Close libera conexiones en orden inverso de apertura.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// ConnectRedis abre el cliente si REDIS_ADDR está configurado; sin dirección
// devuelve nil, nil.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewStorage elige el backend de persistencia de sesión según SESSION_BACKEND.
// El func devuelto (puede ser nil) cierra las conexiones propias del storage.
func NewStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (session.Storage, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return session.NewMemoryStorage(), nil, nil

	case config.BackendRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("session backend redis needs a connected client")
		}
		logger.Info("session backend ready", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr))
		return session.NewRedisStorage(redisClient, cfg.SessionProfile), nil, nil

	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		storage := session.NewPgStorage(pool, cfg.SessionProfile)
		if err := storage.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure session schema: %w", err)
		}
		logger.Info("session backend ready", zap.String("backend", "postgres"))
		return storage, pool.Close, nil

	case config.BackendFile, "":
		key, err := cfg.SealKey()
		if err != nil {
			return nil, nil, err
		}
		logger.Info("session backend ready",
			zap.String("backend", "file"),
			zap.String("path", cfg.SessionFile),
			zap.Bool("sealed", key != nil),
		)
		return session.NewFileStorage(cfg.SessionFile, key), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// NewLoginLimiter usa Redis cuando hay cliente; si no, un limitador en proceso.
func NewLoginLimiter(cfg *config.Config, redisClient *redis.Client) ratelimit.Limiter {
	if cfg.LoginAttemptsMax <= 0 {
		return nil
	}
	if redisClient != nil {
		return ratelimit.NewRedisLimiter(redisClient, "coursecompare:login:", cfg.LoginAttemptsWindow(), cfg.LoginAttemptsMax)
	}
	return ratelimit.NewMemoryLimiter(cfg.LoginAttemptsWindow(), cfg.LoginAttemptsMax)
}

// NewLogger arma el logger de zap. dev usa la salida legible de desarrollo.
func NewLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if dev {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = lvl
	return zcfg.Build()
}
