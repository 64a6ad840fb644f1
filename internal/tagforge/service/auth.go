package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/rs/zerolog"
)

// 用户名兜底值
const (
	AnonymousUsername = "anonymous_user"
	TokenUsername     = "user_with_token"
)

// AuthClient 上游认证接口
type AuthClient interface {
	Login(ctx context.Context, account, password string) (*entity.TokenData, error)
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
}

// AuthService 认证服务，令牌由客户端保存，服务端不保存会话
type AuthService struct {
	client AuthClient
}

// NewAuthService 创建认证服务
func NewAuthService(client AuthClient) *AuthService {
	return &AuthService{client: client}
}

// Login 转发登录请求
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	logger := zerolog.Ctx(ctx)
	account := strings.TrimSpace(req.Account())
	logger.Info().Str("account", account).Msg("Login called")

	if account == "" || req.Password == "" {
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter, "必须提供邮箱和密码")
	}

	token, err := s.client.Login(ctx, account, req.Password)
	if err != nil {
		logger.Warn().Err(err).Str("account", account).Msg("Failed to login")
		return nil, upstreamError(err, "login")
	}

	logger.Info().Str("account", account).Msg("Login successfully")
	return &entity.LoginResponse{
		Code:    0,
		Message: "success",
		Data:    *token,
	}, nil
}

// CurrentUser 返回令牌对应的用户
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, apierror.WithMessage(apierror.ErrUnauthorized, "未提供授权令牌")
	}
	user, err := s.client.CurrentUser(ctx, token)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to get current user")
		return nil, upstreamError(err, "get current user")
	}
	return user, nil
}

// Username 返回提交任务使用的用户名
// 依次使用 fullname、邮箱前缀、用户 ID、令牌中的 sub；无令牌或请求失败时为匿名用户
func (s *AuthService) Username(ctx context.Context, token string) string {
	if token == "" {
		return AnonymousUsername
	}

	user, err := s.client.CurrentUser(ctx, token)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to resolve username, using anonymous user")
		return AnonymousUsername
	}
	switch {
	case user.Fullname != "":
		return user.Fullname
	case user.Email != "":
		local, _, _ := strings.Cut(user.Email, "@")
		return local
	case user.ID != "":
		return fmt.Sprintf("user_%s", user.ID)
	}
	if sub := tokenSubject(token); sub != "" {
		return sub
	}
	return TokenUsername
}

// tokenSubject 读取 JWT 中的 sub，不校验签名
// 结果只用于提交记录里展示的用户名，不能用于鉴权
func tokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
