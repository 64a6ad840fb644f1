package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

// AuthServiceInterface 定义认证服务的接口
type AuthServiceInterface interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
}

type Auth struct {
	authService AuthServiceInterface
}

func NewAuth(authService AuthServiceInterface) *Auth {
	return &Auth{
		authService: authService,
	}
}

func (a *Auth) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", ginx.Adapt5(a.Login))
	router.POST("/auth/logout", ginx.Adapt2(a.Logout))
	router.GET("/users/me", ginx.Adapt3(a.CurrentUser))
}

func (a *Auth) Login(ctx *gin.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("account", req.Account()).
		Msg("Login called")

	resp, err := a.authService.Login(ctx, req)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("account", req.Account()).
			Msg("Failed to login")
		return nil, err
	}
	return resp, nil
}

// Logout 令牌保存在客户端，服务端只做确认
func (a *Auth) Logout(ctx *gin.Context) *entity.LogoutResponse {
	zerolog.Ctx(ctx).Info().Msg("Logout called")
	return &entity.LogoutResponse{Code: 0, Message: "success"}
}

func (a *Auth) CurrentUser(ctx *gin.Context) (*entity.User, error) {
	user, err := a.authService.CurrentUser(ctx, authorizationToken(ctx))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to get current user")
		return nil, err
	}
	return user, nil
}
