package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jimyag/tagforge/internal/tagforge/proxy"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

// DefaultAddress 默认监听地址
const DefaultAddress = ":8080"

// Services API 依赖的服务，为空的服务对应的路由仍会注册
type Services struct {
	Auth       AuthServiceInterface
	Search     SearchServiceInterface
	Tag        TagServiceInterface
	Variable   VariableServiceInterface
	Settings   SettingsServiceInterface
	Workspace  WorkspaceServiceInterface
	Submission SubmissionServiceInterface
	Progress   ProgressSubscriber
}

type API struct {
	engine *gin.Engine
	server *http.Server

	auth       *Auth
	search     *Search
	meta       *Meta
	tag        *Tag
	variable   *Variable
	workspace  *Workspace
	submission *Submission
}

var registerValidatorsOnce sync.Once

// registerValidators 在 gin 的校验器上注册标签相关规则
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")
			return
		}
		err = tagset.RegisterValidators(v)
	})
	return err
}

// New 创建 API，upstream 不为空时未注册的 /api 请求转发到上游
func New(address string, services Services, upstream *proxy.Upstream) (*API, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	if address == "" {
		address = DefaultAddress
	}

	engine := gin.New()
	engine.ContextWithFallback = true
	engine.Use(gin.Recovery(), ginx.RequestID(), accessLog(), proxy.CORS())

	api := &API{
		engine:     engine,
		auth:       NewAuth(services.Auth),
		search:     NewSearch(services.Search),
		meta:       NewMeta(),
		tag:        NewTag(services.Tag),
		variable:   NewVariable(services.Variable),
		workspace:  NewWorkspace(services.Workspace, services.Settings),
		submission: NewSubmission(services.Submission, services.Progress),
	}

	engine.GET("/healthz", ginx.Adapt2(api.Healthz))

	apiGroup := engine.Group("/api")
	api.auth.RegisterRoutes(apiGroup.Group("/v1"))
	api.search.RegisterRoutes(apiGroup.Group("/search"))
	api.meta.RegisterRoutes(apiGroup.Group("/v1/meta"))

	ws := apiGroup.Group("/v1/workspaces/:ws")
	api.tag.RegisterRoutes(ws)
	api.variable.RegisterRoutes(ws)
	api.workspace.RegisterRoutes(ws)
	api.submission.RegisterRoutes(ws)

	if upstream != nil {
		engine.NoRoute(upstream.Handler())
	} else {
		engine.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		})
	}

	printRoutes(engine)

	api.server = &http.Server{
		Addr:              address,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api, nil
}

// Handler 返回 HTTP handler
func (a *API) Handler() http.Handler {
	return a.engine
}

// Healthz 健康检查
func (a *API) Healthz(ctx *gin.Context) gin.H {
	return gin.H{"status": "ok"}
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "API Server"
}

// Run 启动 HTTP 服务，ctx 取消时关闭服务并返回 nil
func (a *API) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("address", a.server.Addr).Msg("Starting API server")

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown api server: %w", err)
		}
		return nil
	}
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// accessLog 为请求日志加上方法和路径，并在请求结束后记录耗时
func accessLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		logger := zerolog.Ctx(ctx.Request.Context()).With().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Logger()
		ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context()))

		ctx.Next()

		logger.Debug().
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request completed")
	}
}

// printRoutes 以 debug 级别输出已注册的路由
func printRoutes(engine *gin.Engine) {
	logger := zerolog.DefaultContextLogger
	if logger == nil {
		return
	}
	for _, route := range engine.Routes() {
		logger.Debug().
			Str("method", route.Method).
			Str("path", route.Path).
			Msg("Route registered")
	}
}
