// Package tagforge 提供 tagforge 服务器的主入口和初始化逻辑
package tagforge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jimmicro/grace"
	"github.com/jimyag/tagforge/internal/tagforge/api"
	"github.com/jimyag/tagforge/internal/tagforge/cache"
	"github.com/jimyag/tagforge/internal/tagforge/config"
	"github.com/jimyag/tagforge/internal/tagforge/dispatch"
	"github.com/jimyag/tagforge/internal/tagforge/progress"
	"github.com/jimyag/tagforge/internal/tagforge/proxy"
	"github.com/jimyag/tagforge/internal/tagforge/repository"
	"github.com/jimyag/tagforge/internal/tagforge/service"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/jimyag/tagforge/internal/tagforge/upstream"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg        *config.Config
	api        *api.API
	repo       *repository.Repository
	dispatcher dispatch.Dispatcher
	redis      *cache.Redis
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}
	logger = logger.Level(level)
	zerolog.DefaultContextLogger = &logger

	// 1. 打开数据库
	repo, err := repository.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath()).Msg("Repository opened")

	// 2. 上游客户端
	client := upstream.New(upstream.Config{
		APIBaseURL:    cfg.Upstream.APIBaseURL,
		SearchBaseURL: cfg.Upstream.SearchBaseURL,
		Platform:      cfg.Upstream.Platform,
		Timeout:       cfg.Upstream.Timeout,
	})

	// 3. 搜索缓存，未配置 Redis 时不缓存
	var searchCache cache.Cache
	var redisCache *cache.Redis
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("create redis cache: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, search results may not be cached")
		}
		cancel()
		searchCache = redisCache
	}

	// 4. 分发器
	dispatcher, err := dispatch.New(dispatch.Config{
		Kind:         cfg.Dispatch.Kind,
		KafkaBrokers: cfg.Dispatch.KafkaBrokers,
		KafkaTopic:   cfg.Dispatch.KafkaTopic,
	}, client)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}
	logger.Info().Str("kind", cfg.Dispatch.Kind).Msg("Dispatcher created")

	// 5. 服务
	hub := progress.NewHub()
	authService := service.NewAuthService(client)
	submissionService := service.NewSubmissionService(repo, authService, dispatcher, cfg.Submission.ConfirmThreshold)
	submissionService.SetNotifier(hub)

	services := api.Services{
		Auth:       authService,
		Search:     service.NewSearchService(client, searchCache),
		Tag:        service.NewTagService(repo, tagset.RandomPalette{}),
		Variable:   service.NewVariableService(repo),
		Settings:   service.NewSettingsService(repo),
		Workspace:  service.NewWorkspaceService(repo),
		Submission: submissionService,
		Progress:   hub,
	}

	// 6. 上游代理
	var upstreamProxy *proxy.Upstream
	if cfg.Upstream.Proxy {
		upstreamProxy, err = proxy.New(cfg.Upstream.APIBaseURL)
		if err != nil {
			_ = repo.Close()
			_ = dispatcher.Close()
			return nil, fmt.Errorf("create upstream proxy: %w", err)
		}
	}

	// 7. API
	apiInstance, err := api.New(cfg.Address, services, upstreamProxy)
	if err != nil {
		_ = repo.Close()
		_ = dispatcher.Close()
		return nil, err
	}

	return &Server{
		cfg:        cfg,
		api:        apiInstance,
		repo:       repo,
		dispatcher: dispatcher,
		redis:      redisCache,
	}, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return s.Close()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(s.api.Shutdown(ctx), s.Close())
}

// Close 释放数据库、分发器和缓存连接
func (s *Server) Close() error {
	var errs []error
	if err := s.dispatcher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := s.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close repository: %w", err))
	}
	return errors.Join(errs...)
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "tagforge Server"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
