package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/jimyag/tagforge/pkg/apierror"
)

// bindArgs 绑定请求参数到 args 结构体
// 顺序：Body（JSON 或表单，仅在存在请求体时）> URI 参数 > Query 参数
func bindArgs(ctx *gin.Context, args any) error {
	if hasBody(ctx) {
		switch ctx.ContentType() {
		case binding.MIMEPOSTForm:
			if err := ctx.ShouldBindWith(args, binding.Form); err != nil {
				return err
			}
		case binding.MIMEMultipartPOSTForm:
			if err := ctx.ShouldBindWith(args, binding.FormMultipart); err != nil {
				return err
			}
		default:
			// 默认使用 JSON
			if err := ctx.ShouldBindJSON(args); err != nil {
				return err
			}
		}
	}

	if len(ctx.Params) > 0 {
		if err := ctx.ShouldBindUri(args); err != nil {
			return err
		}
	}

	if ctx.Request.URL.RawQuery != "" {
		if err := ctx.ShouldBindQuery(args); err != nil {
			return err
		}
	}
	return nil
}

func hasBody(ctx *gin.Context) bool {
	if ctx.Request.Body == nil || ctx.Request.Body == http.NoBody {
		return false
	}
	return ctx.Request.ContentLength != 0
}

// invalidParameter 将绑定或校验错误转换为 InvalidParameter，已是 API 错误时保持不变
func invalidParameter(err error) error {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
}
