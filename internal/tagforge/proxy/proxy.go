// Package proxy 将未处理的 /api 请求转发到上游，并提供 CORS 中间件
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PathPrefix 需要转发的路径前缀
const PathPrefix = "/api"

// Upstream 上游反向代理
type Upstream struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
}

// New 创建指向 baseURL 的反向代理，请求路径原样保留
func New(baseURL string) (*Upstream, error) {
	target, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream url %q: %w", baseURL, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", baseURL)
	}

	u := &Upstream{target: target}
	u.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			r.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			zerolog.Ctx(r.Context()).Error().
				Err(err).
				Str("path", r.URL.Path).
				Msg("Failed to proxy request")
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"errors":[{"code":"UpstreamUnavailable","message":"upstream unavailable"}]}`))
		},
	}
	return u, nil
}

// Target 返回上游地址
func (u *Upstream) Target() string {
	return u.target.String()
}

// ServeHTTP 转发请求
func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.proxy.ServeHTTP(w, r)
}

// Handler 作为 gin 的 NoRoute 使用，只转发 /api 下的请求
func (u *Upstream) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.HasPrefix(ctx.Request.URL.Path, PathPrefix+"/") {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		zerolog.Ctx(ctx.Request.Context()).Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Str("upstream", u.target.Host).
			Msg("Proxying request")
		u.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
