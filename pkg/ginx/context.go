package ginx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID 请求 ID 响应头
const HeaderRequestID = "X-Request-Id"

// requestIDKey 用于在 gin.Context 中存储请求 ID
type requestIDKey struct{}

// RequestID 为每个请求分配请求 ID，并将带有 requestID 字段的 logger 注入请求上下文
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey{}, id)
		ctx.Header(HeaderRequestID, id)

		logger := zerolog.Ctx(ctx.Request.Context()).With().Str("requestID", id).Logger()
		ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context()))
		ctx.Next()
	}
}

// GetRequestID 获取当前请求的请求 ID，未经过 RequestID 中间件时返回空字符串
func GetRequestID(ctx *gin.Context) string {
	v, ok := ctx.Get(requestIDKey{})
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
