package ginx

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/rs/zerolog"
)

// renderResponse 渲染响应，nil 返回 204，字符串原样输出，其余序列化为 JSON
func renderResponse(ctx *gin.Context, response any) {
	if ctx.Writer.Written() {
		return
	}
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	if rv := reflect.ValueOf(response); rv.Kind() == reflect.Pointer && rv.IsNil() {
		ctx.Status(http.StatusNoContent)
		return
	}

	switch v := response.(type) {
	case string:
		ctx.String(http.StatusOK, v)
		return
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		ctx.JSON(http.StatusOK, gin.H{"value": v})
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// renderError 渲染错误响应
// *apierror.ErrorResponse 原样输出，其余错误统一转换为 *apierror.Error
func renderError(ctx *gin.Context, err error) {
	requestID := GetRequestID(ctx)

	if errorResp, ok := err.(*apierror.ErrorResponse); ok {
		statusCode := http.StatusInternalServerError
		if len(errorResp.Errors) > 0 {
			statusCode = errorResp.Errors[0].Status()
		}
		if errorResp.RequestID == "" {
			errorResp.RequestID = requestID
		}
		ctx.AbortWithStatusJSON(statusCode, errorResp)
		return
	}

	apiErr := apierror.From(err)
	statusCode := apiErr.Status()
	if statusCode >= http.StatusInternalServerError {
		zerolog.Ctx(ctx.Request.Context()).Error().Err(err).
			Str("path", ctx.FullPath()).
			Msg("Request failed")
	}
	ctx.AbortWithStatusJSON(statusCode, apierror.NewErrorResponse(requestID, apiErr))
}
