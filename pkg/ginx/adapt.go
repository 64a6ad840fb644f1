package ginx

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// Adapt1 适配无参数、只有 error 的 handler，成功时返回 204
func Adapt1(fn func(*gin.Context) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := fn(ctx); err != nil {
			renderError(ctx, err)
			return
		}
		if !ctx.Writer.Written() {
			ctx.Status(http.StatusNoContent)
		}
	}
}

// Adapt2 适配无参数、只有返回值的 handler
func Adapt2[T any](fn func(*gin.Context) T) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		renderResponse(ctx, fn(ctx))
	}
}

// Adapt3 适配无参数、有返回值和 error 的 handler
func Adapt3[T any](fn func(*gin.Context) (T, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := fn(ctx)
		if err != nil {
			renderError(ctx, err)
			return
		}
		renderResponse(ctx, result)
	}
}

// Adapt4 适配有参数、只有 error 的 handler，成功时返回 204
func Adapt4[T any](fn func(*gin.Context, *T) error) gin.HandlerFunc {
	var argsType T
	argsTypeValue := reflect.TypeOf(argsType)

	return func(ctx *gin.Context) {
		args, ok := prepareArgs(ctx, argsTypeValue)
		if !ok {
			return
		}

		if err := fn(ctx, args.(*T)); err != nil {
			renderError(ctx, err)
			return
		}
		if !ctx.Writer.Written() {
			ctx.Status(http.StatusNoContent)
		}
	}
}

// Adapt5 适配有参数、有返回值和 error 的 handler
func Adapt5[TArgs any, TResp any](fn func(*gin.Context, *TArgs) (TResp, error)) gin.HandlerFunc {
	var argsType TArgs
	argsTypeValue := reflect.TypeOf(argsType)

	return func(ctx *gin.Context) {
		args, ok := prepareArgs(ctx, argsTypeValue)
		if !ok {
			return
		}

		result, err := fn(ctx, args.(*TArgs))
		if err != nil {
			renderError(ctx, err)
			return
		}
		renderResponse(ctx, result)
	}
}

// prepareArgs 绑定并校验参数，失败时已写入错误响应
func prepareArgs(ctx *gin.Context, typ reflect.Type) (any, bool) {
	args := reflect.New(typ).Interface()

	if err := bindArgs(ctx, args); err != nil {
		renderError(ctx, invalidParameter(err))
		return nil, false
	}

	// 验证参数（如果实现了 IsValid 方法）
	if validator, ok := args.(interface{ IsValid() error }); ok {
		if err := validator.IsValid(); err != nil {
			renderError(ctx, invalidParameter(err))
			return nil, false
		}
	}
	return args, true
}
