package proxy

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowedHeaders 允许跨域携带的请求头
var AllowedHeaders = []string{
	"X-CSRF-Token", "X-Requested-With", "Accept", "Accept-Version", "Content-Length",
	"Content-MD5", "Content-Type", "Date", "X-Api-Version", "Authorization", "X-Token", "X-Platform",
}

// CORS 为 /api 下的响应添加跨域头，OPTIONS 预检请求直接返回 204
func CORS() gin.HandlerFunc {
	allowHeaders := strings.Join(AllowedHeaders, ", ")
	return func(ctx *gin.Context) {
		if !strings.HasPrefix(ctx.Request.URL.Path, PathPrefix+"/") {
			ctx.Next()
			return
		}

		h := ctx.Writer.Header()
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		h.Set("Access-Control-Allow-Headers", allowHeaders)

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
