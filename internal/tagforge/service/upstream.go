package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/jimyag/tagforge/internal/tagforge/upstream"
	"github.com/jimyag/tagforge/pkg/apierror"
)

// upstreamError 将上游调用错误转换为 API 错误
// 上游拒绝时保留其状态码和 detail，响应无法解析时为 500，无法连接时为 503
func upstreamError(err error, message string) error {
	if se, ok := upstream.IsStatusError(err); ok {
		detail := se.Detail
		if detail == "" {
			detail = http.StatusText(se.StatusCode)
		}
		return apierror.WithStatus(apierror.ErrUpstreamRejected, se.StatusCode, detail)
	}
	if upstream.IsDecodeError(err) {
		return apierror.WrapError(apierror.ErrUpstreamBadResponse, message+": unreadable upstream response", err)
	}
	if errors.Is(err, context.Canceled) {
		return apierror.WrapError(apierror.ErrUpstreamUnavailable, message+": request canceled", err)
	}
	return apierror.WrapError(apierror.ErrUpstreamUnavailable, message+": upstream unreachable", err)
}
